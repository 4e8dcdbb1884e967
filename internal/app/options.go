package app

import (
	"github.com/hireloop/jobsync/internal/adapters/feed"
	"github.com/hireloop/jobsync/internal/adapters/location"
	"github.com/hireloop/jobsync/internal/adapters/profile"
	"github.com/hireloop/jobsync/internal/adapters/repository"
	"github.com/hireloop/jobsync/pkg/logger"
)

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithSource sets the live feed source. Required before Subscribe.
func WithSource(src feed.Source) Option {
	return func(s *Synchronizer) {
		s.source = src
	}
}

// WithLocationProvider sets the viewer location provider. Defaults to a
// provider that always reports an unavailable location.
func WithLocationProvider(p location.Provider) Option {
	return func(s *Synchronizer) {
		if p != nil {
			s.locator = p
		}
	}
}

// WithProfileFetcher sets the remote profile source used when enriching
// application submissions.
func WithProfileFetcher(f profile.Fetcher) Option {
	return func(s *Synchronizer) {
		s.fetcher = f
	}
}

// WithStore sets the application persistence collaborator. Defaults to an
// in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Synchronizer) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Synchronizer) {
		s.log = log
	}
}

// WithResultSink registers a callback invoked with the filtered view after
// every upstream change and every filter change.
func WithResultSink(fn ResultFunc) Option {
	return func(s *Synchronizer) {
		s.onResults = fn
	}
}

// WithErrorSink registers a callback for feed transport errors.
func WithErrorSink(fn ErrorFunc) Option {
	return func(s *Synchronizer) {
		s.onError = fn
	}
}
