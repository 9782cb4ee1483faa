package profile

import (
	"context"
	"errors"
	"sync"
)

var ErrProfileNotFound = errors.New("profile not found")

// Store persists the single student profile.
type Store interface {
	Load(ctx context.Context) (Profile, error)
	Save(ctx context.Context, p Profile) error
}

// MemoryStore implements Store in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	current *Profile
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the saved profile or ErrProfileNotFound.
func (s *MemoryStore) Load(_ context.Context) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Profile{}, ErrProfileNotFound
	}
	return clone(*s.current), nil
}

// Save replaces the stored profile.
func (s *MemoryStore) Save(_ context.Context, p Profile) error {
	copied := clone(p)
	s.mu.Lock()
	s.current = &copied
	s.mu.Unlock()
	return nil
}

func clone(p Profile) Profile {
	p.Interests = append([]string(nil), p.Interests...)
	return p
}
