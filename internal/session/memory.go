package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps credentials in process memory. Sessions do not survive
// a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Credential
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]Credential), now: time.Now}
}

func (m *MemoryStore) Save(_ context.Context, id string, cred Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id] = cred
	return nil
}

func (m *MemoryStore) Load(_ context.Context, id string) (Credential, error) {
	m.mu.RLock()
	cred, ok := m.items[id]
	m.mu.RUnlock()
	if !ok || cred.Expired(m.now()) {
		return Credential{}, ErrNoCredential
	}
	return cred, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

func (m *MemoryStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, cred := range m.items {
		if cred.Expired(now) {
			delete(m.items, id)
			n++
		}
	}
	return n, nil
}
