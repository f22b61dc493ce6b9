// Package storage persists race states between sessions.
package storage

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/mpapenbr/bikechallenge/pkg/model"
)

var ErrNotFound = errors.New("race state not found")

type Store interface {
	Save(ctx context.Context, key string, state model.RaceState) error
	Load(ctx context.Context, key string) (model.RaceState, error)
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

type memoryStore struct {
	mu   sync.RWMutex
	data map[string]model.RaceState
}

var _ Store = (*memoryStore)(nil)

func NewMemoryStore() Store {
	return &memoryStore{data: make(map[string]model.RaceState)}
}

func (s *memoryStore) Save(_ context.Context, key string, state model.RaceState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = state.Clone()
	return nil
}

func (s *memoryStore) Load(_ context.Context, key string) (model.RaceState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.data[key]
	if !ok {
		return model.RaceState{}, ErrNotFound
	}
	return state.Clone(), nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *memoryStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ret := make([]string, 0, len(s.data))
	for k := range s.data {
		ret = append(ret, k)
	}
	slices.Sort(ret)
	return ret, nil
}
