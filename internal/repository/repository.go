package repository

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/athena/internal/metrics"
)

// ErrSessionNotFound is returned when no token is stored for a session id.
var ErrSessionNotFound = errors.New("session not found")

type Repository struct {
	db      Database
	metrics *metrics.Metrics
}

// SessionRepoIface stores backend tokens keyed by browser session id.
type SessionRepoIface interface {
	SaveSession(ctx context.Context, id, token string) error
	GetToken(ctx context.Context, id string) (string, error)
	DeleteSession(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

func NewSessionRepository(db Database, metrics *metrics.Metrics) SessionRepoIface {
	return &Repository{db: db, metrics: metrics}
}
