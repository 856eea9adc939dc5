package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// SaveSession stores the token for a session id, replacing any previous token.
func (r *Repository) SaveSession(ctx context.Context, id, token string) error {
	startTime := time.Now()
	defer func() {
		duration := time.Since(startTime).Seconds()
		r.metrics.DBQueryDuration.WithLabelValues("save_session").Observe(duration)
	}()
	query := `
		INSERT INTO sessions (id, token)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET token = EXCLUDED.token;
	`

	_, err := r.db.Exec(ctx, query, id, token)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// GetToken returns the token stored for a session id.
func (r *Repository) GetToken(ctx context.Context, id string) (string, error) {
	var token string

	startTime := time.Now()
	defer func() {
		duration := time.Since(startTime).Seconds()
		r.metrics.DBQueryDuration.WithLabelValues("get_token").Observe(duration)
	}()
	query := `SELECT token FROM sessions WHERE id=$1`

	err := r.db.QueryRow(ctx, query, id).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrSessionNotFound
		}
		return "", fmt.Errorf("failed to get session token: %w", err)
	}

	return token, nil
}

// DeleteSession removes a session. Deleting an unknown id is not an error.
func (r *Repository) DeleteSession(ctx context.Context, id string) error {
	startTime := time.Now()
	defer func() {
		duration := time.Since(startTime).Seconds()
		r.metrics.DBQueryDuration.WithLabelValues("delete_session").Observe(duration)
	}()
	query := `DELETE FROM sessions WHERE id=$1`

	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// Ping checks the database connection.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}
