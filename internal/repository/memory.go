package repository

import (
	"context"
	"log/slog"
	"sync"
)

// MemoryRepository keeps sessions in process memory. Sessions do not survive a restart.
type MemoryRepository struct {
	log      *slog.Logger
	mu       sync.RWMutex
	sessions map[string]string
}

// NewMemorySessionRepository initializes an in-memory session store.
func NewMemorySessionRepository(log *slog.Logger) *MemoryRepository {
	return &MemoryRepository{
		log:      log,
		sessions: make(map[string]string),
	}
}

func (m *MemoryRepository) SaveSession(_ context.Context, id, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = token
	m.log.Debug("Saved session", "session_id", id)

	return nil
}

func (m *MemoryRepository) GetToken(_ context.Context, id string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	token, ok := m.sessions[id]
	if !ok {
		return "", ErrSessionNotFound
	}

	return token, nil
}

func (m *MemoryRepository) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	m.log.Debug("Deleted session", "session_id", id)

	return nil
}

func (m *MemoryRepository) Ping(_ context.Context) error {
	return nil
}
