// Package app provides the synchronizer facade: one subscribe call, one
// reactive enriched-listing output, one apply call.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hireloop/jobsync/internal/adapters/feed"
	"github.com/hireloop/jobsync/internal/adapters/location"
	"github.com/hireloop/jobsync/internal/adapters/profile"
	"github.com/hireloop/jobsync/internal/adapters/repository"
	"github.com/hireloop/jobsync/internal/domain/enrich"
	"github.com/hireloop/jobsync/internal/domain/filter"
	"github.com/hireloop/jobsync/internal/domain/join"
	"github.com/hireloop/jobsync/internal/domain/model"
	"github.com/hireloop/jobsync/pkg/logger"
	"github.com/hireloop/jobsync/pkg/metrics"
)

// State is the facade's lifecycle position.
type State int

// Lifecycle states; Unsubscribed is terminal until Subscribe is called again.
const (
	StateIdle State = iota
	StateSubscribed
	StateUnsubscribed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubscribed:
		return "subscribed"
	case StateUnsubscribed:
		return "unsubscribed"
	default:
		return "unknown"
	}
}

// ResultFunc receives the filtered enriched view after every upstream change
// and every filter change. The slice is the receiver's to keep.
type ResultFunc func(view []model.EnrichedListing)

// ErrorFunc receives transport errors surfaced verbatim from either feed.
type ErrorFunc func(err *feed.TransportError)

// Synchronizer combines the feed manager, join resolver, filter pipeline,
// location provider, and enrichment resolver for a consuming view. Each
// instance owns its own state; nothing is shared across instances.
type Synchronizer struct {
	mu sync.Mutex

	state    State
	source   feed.Source
	manager  *feed.Manager
	resolver *join.Resolver
	locator  location.Provider
	fetcher  profile.Fetcher
	enricher *enrich.Resolver
	store    repository.Store
	log      logger.Logger

	onResults ResultFunc
	onError   ErrorFunc

	// filter parameters
	text     string
	category string
	radiusKm float64
	viewer   model.ViewerLocation

	listingsHandle *feed.Handle
	orgsHandle     *feed.Handle

	// latest unfiltered joined view and its filtered projection
	latest   []model.EnrichedListing
	filtered []model.EnrichedListing
}

// New constructs a Synchronizer in the Idle state.
func New(opts ...Option) *Synchronizer {
	s := &Synchronizer{
		locator:  location.Unavailable{},
		store:    repository.NewMemoryStore(),
		category: filter.AllCategories,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.enricher = enrich.New(enrich.WithFetcher(s.fetcher), enrich.WithLogger(s.log))
	return s
}

// State returns the current lifecycle state.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe starts both live feeds and begins emitting filtered results.
// Subscribing while already subscribed is a no-op. A previously unsubscribed
// synchronizer may subscribe again.
func (s *Synchronizer) Subscribe(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateSubscribed {
		s.mu.Unlock()
		return nil
	}
	if s.source == nil {
		s.mu.Unlock()
		return ErrSourceRequired
	}
	if s.manager == nil {
		s.manager = feed.NewManager(s.source, feed.WithLogger(s.log))
	}
	s.resolver = join.New(join.WithSink(s.onJoined))
	manager := s.manager
	s.mu.Unlock()

	listingsHandle, err := manager.Start(ctx, feed.CollectionListings, feed.Query{}, s.onListings, s.onFeedError)
	if err != nil {
		return fmt.Errorf("subscribe listings: %w", err)
	}
	orgsHandle, err := manager.Start(ctx, feed.CollectionOrganizations, feed.Query{}, s.onOrganizations, s.onFeedError)
	if err != nil {
		manager.Stop(listingsHandle)
		return fmt.Errorf("subscribe organizations: %w", err)
	}

	s.mu.Lock()
	s.listingsHandle = listingsHandle
	s.orgsHandle = orgsHandle
	s.state = StateSubscribed
	s.mu.Unlock()

	metrics.UpdateActiveSubscriptions(manager.Active())
	if s.log != nil {
		s.log.Info(ctx, "synchronizer subscribed")
	}
	return nil
}

// Unsubscribe stops both feeds. Idempotent: calling it twice is observably
// identical to calling it once. In-flight snapshot callbacks become no-ops.
func (s *Synchronizer) Unsubscribe() {
	s.mu.Lock()
	if s.state != StateSubscribed {
		s.mu.Unlock()
		return
	}
	s.state = StateUnsubscribed
	listingsHandle := s.listingsHandle
	orgsHandle := s.orgsHandle
	s.listingsHandle = nil
	s.orgsHandle = nil
	manager := s.manager
	s.mu.Unlock()

	// Stop blocks on dispatch teardown, so it runs outside the lock.
	manager.Stop(listingsHandle)
	manager.Stop(orgsHandle)
	metrics.UpdateActiveSubscriptions(manager.Active())
	if s.log != nil {
		s.log.Info(context.Background(), "synchronizer unsubscribed")
	}
}

// SetFilter updates the filter parameters and, while subscribed, re-emits
// the filtered view immediately. Requesting a radius triggers a one-shot
// viewer location lookup when no valid location is known yet; if the lookup
// fails the radius constraint stays disabled rather than hiding everything.
func (s *Synchronizer) SetFilter(ctx context.Context, text, category string, radiusKm float64) {
	s.mu.Lock()
	s.text = text
	if category == "" {
		category = filter.AllCategories
	}
	s.category = category
	s.radiusKm = radiusKm
	needLocation := radiusKm > 0 && !s.viewer.Valid
	s.mu.Unlock()

	if needLocation {
		s.RefreshLocation(ctx)
		return // RefreshLocation re-emits
	}
	s.emit()
}

// RefreshLocation re-runs the one-shot location lookup and re-emits.
func (s *Synchronizer) RefreshLocation(ctx context.Context) {
	loc := s.locator.Locate(ctx)
	metrics.RecordLocationLookup(loc.Valid)

	s.mu.Lock()
	s.viewer = loc
	s.mu.Unlock()
	s.emit()
}

// RadiusAvailable reports whether the radius filter can currently run.
func (s *Synchronizer) RadiusAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pipelineLocked().RadiusAvailable()
}

// Results returns a copy of the current filtered view.
func (s *Synchronizer) Results() []model.EnrichedListing {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.EnrichedListing, len(s.filtered))
	copy(out, s.filtered)
	return out
}

// Apply resolves a best-effort candidate profile for the identity and hands
// a submission record to the persistence collaborator. It is independent of
// subscription state, mutates no synchronizer state, and each call is a
// fresh, independent submission.
func (s *Synchronizer) Apply(ctx context.Context, listingID string, identity model.Identity) (model.Application, error) {
	if listingID == "" {
		return model.Application{}, ErrListingRequired
	}

	// Enrichment never fails; a thinner profile must not block submission.
	profile := s.enricher.Resolve(ctx, identity)

	app := model.Application{
		ID:          uuid.NewString(),
		ListingID:   listingID,
		ApplicantID: identity.UserID,
		Profile:     profile,
		SubmittedAt: time.Now().UTC(),
	}
	if err := s.store.SaveApplication(ctx, app); err != nil {
		metrics.RecordApplicationError()
		if s.log != nil {
			s.log.Error(ctx, "application persistence failed",
				logger.String("listing_id", listingID),
				logger.Error(err),
			)
		}
		return model.Application{}, fmt.Errorf("%w: %w", ErrApplicationFailed, err)
	}

	metrics.RecordApplicationSubmitted()
	if s.log != nil {
		s.log.Info(ctx, "application submitted",
			logger.String("application_id", app.ID),
			logger.String("listing_id", listingID),
		)
	}
	return app, nil
}

// Stats returns facade statistics for monitoring.
func (s *Synchronizer) Stats() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := map[string]any{
		"state":           s.state.String(),
		"viewSize":        len(s.latest),
		"filteredSize":    len(s.filtered),
		"radiusAvailable": s.pipelineLocked().RadiusAvailable(),
	}
	if s.manager != nil {
		stats["activeSubscriptions"] = s.manager.Active()
	}
	return stats
}

// onListings decodes a listings snapshot into the resolver.
func (s *Synchronizer) onListings(snap feed.Snapshot) {
	s.mu.Lock()
	resolver := s.resolver
	s.mu.Unlock()
	if resolver == nil {
		return
	}
	listings := make([]model.Listing, 0, len(snap.Documents))
	for _, doc := range snap.Documents {
		listings = append(listings, model.ListingFromDocument(doc))
	}
	resolver.SetListings(listings)
}

// onOrganizations decodes an organizations snapshot into the resolver.
func (s *Synchronizer) onOrganizations(snap feed.Snapshot) {
	s.mu.Lock()
	resolver := s.resolver
	s.mu.Unlock()
	if resolver == nil {
		return
	}
	orgs := make([]model.Organization, 0, len(snap.Documents))
	for _, doc := range snap.Documents {
		orgs = append(orgs, model.OrganizationFromDocument(doc))
	}
	resolver.SetOrganizations(orgs)
}

// onJoined receives the recomputed view from the resolver.
func (s *Synchronizer) onJoined(view []model.EnrichedListing) {
	s.mu.Lock()
	s.latest = view
	s.mu.Unlock()
	s.emit()
}

// onFeedError relays transport errors to the registered sink verbatim.
func (s *Synchronizer) onFeedError(terr *feed.TransportError) {
	s.mu.Lock()
	sink := s.onError
	s.mu.Unlock()
	if sink != nil {
		sink(terr)
	}
}

// emit filters the latest view and pushes it to the result sink. The sink is
// invoked outside the lock so consumers may call back into the facade.
func (s *Synchronizer) emit() {
	start := time.Now()

	s.mu.Lock()
	filtered := s.pipelineLocked().Apply(s.latest)
	s.filtered = filtered
	sink := s.onResults
	s.mu.Unlock()

	metrics.RecordFilterLatency(float64(time.Since(start).Milliseconds()))
	metrics.UpdateFilteredResultSize(len(filtered))

	if sink != nil {
		out := make([]model.EnrichedListing, len(filtered))
		copy(out, filtered)
		sink(out)
	}
}

// pipelineLocked builds the filter pipeline from the current parameters.
// Callers must hold s.mu.
func (s *Synchronizer) pipelineLocked() filter.Pipeline {
	return filter.New(
		filter.WithText(s.text),
		filter.WithCategory(s.category),
		filter.WithRadius(s.radiusKm),
		filter.WithViewerLocation(s.viewer),
	)
}
