package state

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

// NewMemoryStore constructs an in-memory Store implementation for tests and
// development runs without a database.
func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[int64]Session)}
}

func (m *memoryStore) Get(_ context.Context, userID int64) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[userID]
	if !ok {
		return nil, nil
	}
	cp := sess
	if sess.FolderID != nil {
		id := *sess.FolderID
		cp.FolderID = &id
	}
	return &cp, nil
}

func (m *memoryStore) Set(_ context.Context, userID int64, step Step, folderID *int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := Session{Step: step}
	if folderID != nil {
		id := *folderID
		sess.FolderID = &id
	}
	m.sessions[userID] = sess
	return nil
}

func (m *memoryStore) Clear(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
	return nil
}
