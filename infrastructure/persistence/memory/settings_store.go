package memory

import (
	"context"
	"sync"

	pkgerrors "thoughtgraph/pkg/errors"
)

// SettingsStore keeps the serialized settings in process memory
type SettingsStore struct {
	mu   sync.RWMutex
	data []byte
}

// NewSettingsStore creates an empty store
func NewSettingsStore() *SettingsStore {
	return &SettingsStore{}
}

// Get returns a copy of the stored bytes
func (s *SettingsStore) Get(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return nil, pkgerrors.NewNotFoundError("display settings")
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

// Put replaces the stored bytes
func (s *SettingsStore) Put(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make([]byte, len(data))
	copy(s.data, data)
	return nil
}
