// Package profile defines the single-document read capability used by
// enrichment. Documents are loosely shaped; callers must tolerate missing or
// differently-encoded fields.
package profile

import (
	"context"
	"sync"

	"github.com/hireloop/jobsync/internal/domain/model"
)

// Fetcher reads the extended profile document for a user id. Implementations
// return ErrNotFound when the user has no stored profile.
type Fetcher interface {
	Fetch(ctx context.Context, userID string) (model.Document, error)
}

// MemoryFetcher is an in-memory Fetcher for tests and the simulator.
type MemoryFetcher struct {
	mu      sync.RWMutex
	docs    map[string]model.Document
	failErr error
}

// NewMemoryFetcher creates an empty in-memory fetcher.
func NewMemoryFetcher() *MemoryFetcher {
	return &MemoryFetcher{docs: make(map[string]model.Document)}
}

// Put stores or replaces a user's profile document.
func (f *MemoryFetcher) Put(userID string, doc model.Document) {
	f.mu.Lock()
	f.docs[userID] = doc
	f.mu.Unlock()
}

// Fail makes every subsequent Fetch return err. Passing nil restores normal
// behavior.
func (f *MemoryFetcher) Fail(err error) {
	f.mu.Lock()
	f.failErr = err
	f.mu.Unlock()
}

// Fetch returns the stored document or ErrNotFound.
func (f *MemoryFetcher) Fetch(ctx context.Context, userID string) (model.Document, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.failErr != nil {
		return nil, f.failErr
	}
	doc, ok := f.docs[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return doc, nil
}
