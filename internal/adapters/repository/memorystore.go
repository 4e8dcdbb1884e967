package repository

import (
	"context"
	"sync"

	"github.com/hireloop/jobsync/internal/domain/model"
)

// MemoryStore implements Store in memory for tests and the simulator.
type MemoryStore struct {
	mu      sync.RWMutex
	apps    map[string]model.Application
	failErr error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{apps: make(map[string]model.Application)}
}

// Fail makes every subsequent write return err. Passing nil restores normal
// behavior.
func (s *MemoryStore) Fail(err error) {
	s.mu.Lock()
	s.failErr = err
	s.mu.Unlock()
}

// SaveApplication stores one submission record.
func (s *MemoryStore) SaveApplication(ctx context.Context, app model.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	s.apps[app.ID] = app
	return nil
}

// GetApplication returns a stored record by id.
func (s *MemoryStore) GetApplication(ctx context.Context, id string) (model.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.apps[id]
	if !ok {
		return model.Application{}, ErrNotFound
	}
	return app, nil
}

// CountApplications returns how many applications exist for a listing.
func (s *MemoryStore) CountApplications(ctx context.Context, listingID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, app := range s.apps {
		if app.ListingID == listingID {
			n++
		}
	}
	return n, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
