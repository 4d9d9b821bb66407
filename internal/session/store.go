package session

import (
	"context"
	"sync"
)

// Slot keys mirrored from the browser build of the app.
const (
	KeyToken              = "token"
	KeyUser               = "user"
	KeySelectedLocation   = "selectedLocation"
	KeyBookingDraft       = "bookingDraft"
	KeyRedirectAfterLogin = "redirectAfterLogin"
)

// Store is the client-state persistence adapter. Every slot is single-value:
// writing overwrites any prior unconsumed value.
type Store interface {
	Get(ctx context.Context, owner, key string) (string, bool, error)
	Set(ctx context.Context, owner, key, value string) error
	Clear(ctx context.Context, owner, key string) error
}

// Take reads a slot and deletes it in the same call. The booking draft must
// go through here so a restore can never be applied twice.
func Take(ctx context.Context, s Store, owner, key string) (string, bool, error) {
	v, ok, err := s.Get(ctx, owner, key)
	if err != nil || !ok {
		return "", false, err
	}
	if err := s.Clear(ctx, owner, key); err != nil {
		return "", false, err
	}
	return v, true, nil
}

// MemoryStore keeps client state in process memory. Used in tests and when
// no DB_DSN is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]map[string]string{}}
}

func (m *MemoryStore) Get(_ context.Context, owner, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[owner][key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, owner, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	slots, ok := m.data[owner]
	if !ok {
		slots = map[string]string{}
		m.data[owner] = slots
	}
	slots[key] = value
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, owner, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[owner], key)
	return nil
}
