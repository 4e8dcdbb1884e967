// Package join merges the latest listings and organizations snapshots into a
// denormalized, UI-ready view.
//
// The resolver always recomputes the full output from the two most recent
// snapshots instead of patching it. Both collections are small, and a full
// rebuild sidesteps ordering bugs when deletes and updates from the two feeds
// interleave unpredictably.
package join

import (
	"sync"

	"github.com/hireloop/jobsync/internal/domain/model"
	"github.com/hireloop/jobsync/pkg/metrics"
)

// Sink receives the full recomputed view after every snapshot update. The
// slice is the receiver's to keep; the resolver never mutates it afterwards.
type Sink func(view []model.EnrichedListing)

// Resolver holds the latest snapshot from each feed and derives the enriched
// view. Each Resolver is owned by exactly one facade instance; state is never
// shared across instances.
type Resolver struct {
	mu       sync.Mutex
	listings []model.Listing
	orgs     []model.Organization
	view     []model.EnrichedListing
	sink     Sink
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithSink registers the consumer notified synchronously after each recompute.
func WithSink(sink Sink) Option {
	return func(r *Resolver) {
		r.sink = sink
	}
}

// New creates a Resolver with empty snapshots.
func New(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetListings replaces the latest listings snapshot and recomputes the view.
func (r *Resolver) SetListings(listings []model.Listing) {
	r.mu.Lock()
	r.listings = listings
	out := r.recomputeLocked()
	sink := r.sink
	r.mu.Unlock()

	if sink != nil {
		sink(out)
	}
}

// SetOrganizations replaces the latest organizations snapshot and recomputes
// the view.
func (r *Resolver) SetOrganizations(orgs []model.Organization) {
	r.mu.Lock()
	r.orgs = orgs
	out := r.recomputeLocked()
	sink := r.sink
	r.mu.Unlock()

	if sink != nil {
		sink(out)
	}
}

// View returns a copy of the current enriched view.
func (r *Resolver) View() []model.EnrichedListing {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyView(r.view)
}

// recomputeLocked rebuilds the view from the latest snapshot pair and returns
// a copy for the sink. Callers must hold r.mu.
func (r *Resolver) recomputeLocked() []model.EnrichedListing {
	byID := make(map[string]model.Organization, len(r.orgs))
	byName := make(map[string]model.Organization, len(r.orgs))
	for _, org := range r.orgs {
		byID[org.ID] = org
		if org.DisplayName != "" {
			byName[org.DisplayName] = org
		}
	}

	view := make([]model.EnrichedListing, 0, len(r.listings))
	for _, l := range r.listings {
		e := model.EnrichedListing{
			Listing:         l,
			ResolvedOrgName: l.RawOrgName,
			Verified:        false,
		}
		if org, ok := byID[l.OrganizationID]; ok && l.OrganizationID != "" {
			e.ResolvedOrgName = org.DisplayName
			e.Verified = org.Verified
		} else if org, ok := byName[l.RawOrgName]; ok && l.OrganizationID == "" {
			// Legacy records without an organization link still pick up the
			// verified flag when the denormalized name matches exactly.
			e.Verified = org.Verified
		}
		view = append(view, e)
	}

	r.view = view
	metrics.RecordJoinRecompute()
	metrics.UpdateJoinOutputSize(len(view))
	return copyView(view)
}

func copyView(view []model.EnrichedListing) []model.EnrichedListing {
	out := make([]model.EnrichedListing, len(view))
	copy(out, view)
	return out
}
