// Package repository defines the application-record store interface and
// errors. The store is the persistence collaborator behind the facade's
// apply operation: the core hands off a finished submission record and never
// mutates it afterwards.
package repository

import (
	"context"

	"github.com/hireloop/jobsync/internal/domain/model"
)

// Store persists finished application records. Duplicate-submission
// prevention is deliberately not this layer's concern.
type Store interface {
	// SaveApplication persists one submission record.
	SaveApplication(ctx context.Context, app model.Application) error

	// GetApplication returns a stored record by id.
	// Returns ErrNotFound when the id is unknown.
	GetApplication(ctx context.Context, id string) (model.Application, error)

	// CountApplications returns how many applications exist for a listing.
	CountApplications(ctx context.Context, listingID string) (int, error)

	// Close releases the underlying storage.
	Close() error
}
