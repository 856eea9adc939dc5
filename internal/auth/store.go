package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/UnknownOlympus/athena/internal/client"
	"github.com/UnknownOlympus/athena/internal/lib/logger/sl"
	"github.com/UnknownOlympus/athena/internal/metrics"
	"github.com/UnknownOlympus/athena/internal/models"
	"github.com/UnknownOlympus/athena/internal/repository"
)

var ErrLogin = errors.New("login failed")

const (
	loginFallback  = "Login failed"
	signupFallback = "Signup failed"
	signupSuccess  = "Signup successful! Please login."
)

// Authenticator is the part of the backend client the store needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
	Signup(ctx context.Context, username, email, password string) error
}

// Result is the outcome of a login or signup attempt. Err holds the cause of a failure for logging.
type Result struct {
	Success bool
	Message string
	Err     error
}

// Store owns the session token of every browser session.
type Store struct {
	log     *slog.Logger
	api     Authenticator
	repo    repository.SessionRepoIface
	metrics *metrics.Metrics
}

func NewStore(
	log *slog.Logger,
	api Authenticator,
	repo repository.SessionRepoIface,
	metrics *metrics.Metrics,
) *Store {
	return &Store{log: log, api: api, repo: repo, metrics: metrics}
}

func (s *Store) initLogger(opn string) *slog.Logger {
	return s.log.With(
		slog.String("op", opn),
		slog.String("division", "auth"),
	)
}

// Login sends the credentials to the backend and persists the returned token
// under a fresh session id. It reports failures through Result and never returns an error.
func (s *Store) Login(ctx context.Context, email, password string) (models.Session, Result) {
	const opn = "Store.Login"
	log := s.initLogger(opn)

	token, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.metrics.AuthAttempts.WithLabelValues("login", "failure").Inc()
		err = fmt.Errorf("%w: %w", ErrLogin, err)
		log.InfoContext(ctx, "Login rejected", sl.Err(err))

		return models.Session{}, Result{Message: client.MessageOf(err, loginFallback), Err: err}
	}

	session := models.Session{ID: uuid.NewString(), Token: token}
	if err = s.repo.SaveSession(ctx, session.ID, token); err != nil {
		s.metrics.AuthAttempts.WithLabelValues("login", "failure").Inc()
		err = fmt.Errorf("%w: failed to persist session: %w", ErrLogin, err)
		log.ErrorContext(ctx, "Failed to persist session", sl.Err(err))

		return models.Session{}, Result{Message: loginFallback, Err: err}
	}

	s.metrics.AuthAttempts.WithLabelValues("login", "success").Inc()
	log.DebugContext(ctx, "Session created", "session_id", session.ID)

	return session, Result{Success: true}
}

// Signup registers a new account. The caller still has to log in.
func (s *Store) Signup(ctx context.Context, username, email, password string) Result {
	const opn = "Store.Signup"
	log := s.initLogger(opn)

	if err := s.api.Signup(ctx, username, email, password); err != nil {
		s.metrics.AuthAttempts.WithLabelValues("signup", "failure").Inc()
		log.InfoContext(ctx, "Signup rejected", sl.Err(err))

		return Result{Message: client.MessageOf(err, signupFallback), Err: err}
	}

	s.metrics.AuthAttempts.WithLabelValues("signup", "success").Inc()

	return Result{Success: true, Message: signupSuccess}
}

// Logout forgets the token of a session. Unknown and empty ids are ignored.
func (s *Store) Logout(ctx context.Context, sessionID string) {
	const opn = "Store.Logout"

	if sessionID == "" {
		return
	}

	if err := s.repo.DeleteSession(ctx, sessionID); err != nil {
		s.initLogger(opn).ErrorContext(ctx, "Failed to delete session", "session_id", sessionID, sl.Err(err))
	}
}

// Resolve looks up the token of a session. Any lookup failure yields an unauthenticated session.
func (s *Store) Resolve(ctx context.Context, sessionID string) models.Session {
	const opn = "Store.Resolve"

	if sessionID == "" {
		return models.Session{}
	}

	token, err := s.repo.GetToken(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, repository.ErrSessionNotFound) {
			s.initLogger(opn).ErrorContext(ctx, "Failed to resolve session", sl.Err(err))
		}
		return models.Session{ID: sessionID}
	}

	return models.Session{ID: sessionID, Token: token}
}

// IsAuthenticated reports whether a token is stored for the session.
func (s *Store) IsAuthenticated(ctx context.Context, sessionID string) bool {
	return s.Resolve(ctx, sessionID).IsAuthenticated()
}
