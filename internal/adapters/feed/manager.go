package feed

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/hireloop/jobsync/pkg/logger"
	"github.com/hireloop/jobsync/pkg/metrics"
)

// SnapshotFunc consumes one delivered snapshot.
type SnapshotFunc func(Snapshot)

// ErrorFunc consumes one delivered transport error.
type ErrorFunc func(*TransportError)

// Handle identifies one live subscription owned by a Manager. Handles are
// returned by Start and passed back to Stop.
type Handle struct {
	id         string
	key        string
	collection string

	// live gates callback delivery. Cleared on Stop so snapshots already in
	// flight become no-ops instead of reaching a consumer that unsubscribed.
	live atomic.Bool
	sub  Subscription
	done chan struct{}
}

// ID returns the handle's unique id.
func (h *Handle) ID() string { return h.id }

// Collection returns the collection this handle subscribes to.
func (h *Handle) Collection() string { return h.collection }

// Manager tracks live subscriptions keyed by (collection, query key).
type Manager struct {
	source Source
	log    logger.Logger

	mu   sync.Mutex
	subs map[string]*Handle
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithLogger sets a custom logger for the manager.
func WithLogger(log logger.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// NewManager creates a Manager over the given source.
func NewManager(source Source, opts ...Option) *Manager {
	m := &Manager{
		source: source,
		subs:   make(map[string]*Handle),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start subscribes to (collection, q) and dispatches snapshots and errors to
// the callbacks. If a live subscription already exists for the same key the
// existing handle is returned and no new subscription is created.
//
// Transport errors reach onError but never tear the subscription down; that
// decision stays with the caller.
func (m *Manager) Start(ctx context.Context, collection string, q Query, onSnapshot SnapshotFunc, onError ErrorFunc) (*Handle, error) {
	key := subscriptionKey(collection, q)

	m.mu.Lock()
	if h, ok := m.subs[key]; ok {
		m.mu.Unlock()
		return h, nil
	}

	sub, err := m.source.Subscribe(collection, q)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}

	h := &Handle{
		id:         uuid.NewString(),
		key:        key,
		collection: collection,
		sub:        sub,
		done:       make(chan struct{}),
	}
	h.live.Store(true)
	m.subs[key] = h
	m.mu.Unlock()

	if m.log != nil {
		m.log.Debug(ctx, "subscription started",
			logger.String("collection", collection),
			logger.String("query", q.Key()),
			logger.String("handle", h.id),
		)
	}

	go m.dispatch(ctx, h, onSnapshot, onError)
	return h, nil
}

// Stop cancels delivery for the handle and releases its key. Stopping twice,
// or stopping a handle that already ended, is a no-op. Stop blocks until the
// dispatch loop drains, so it must not be called from inside a callback.
func (m *Manager) Stop(h *Handle) {
	if h == nil {
		return
	}
	// CompareAndSwap makes double-Stop observably identical to single Stop.
	if !h.live.CompareAndSwap(true, false) {
		return
	}

	m.mu.Lock()
	if cur, ok := m.subs[h.key]; ok && cur == h {
		delete(m.subs, h.key)
	}
	m.mu.Unlock()

	h.sub.Cancel()
	<-h.done
}

// StopAll stops every live subscription.
func (m *Manager) StopAll() {
	m.mu.Lock()
	handles := make([]*Handle, 0, len(m.subs))
	for _, h := range m.subs {
		handles = append(handles, h)
	}
	m.mu.Unlock()

	for _, h := range handles {
		m.Stop(h)
	}
}

// Active returns the number of live subscriptions.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// dispatch pumps the subscription's channels into the callbacks until both
// close. The liveness check happens per delivery so a Stop that lands while
// a snapshot sits in the channel suppresses it.
func (m *Manager) dispatch(ctx context.Context, h *Handle, onSnapshot SnapshotFunc, onError ErrorFunc) {
	defer close(h.done)

	snaps := h.sub.Snapshots()
	errs := h.sub.Errors()
	for snaps != nil || errs != nil {
		select {
		case snap, ok := <-snaps:
			if !ok {
				snaps = nil
				continue
			}
			if !h.live.Load() {
				continue
			}
			metrics.RecordSnapshotReceived(h.collection)
			if onSnapshot != nil {
				onSnapshot(snap)
			}
		case terr, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if !h.live.Load() {
				continue
			}
			metrics.RecordFeedError(h.collection)
			if m.log != nil {
				m.log.Warn(ctx, "feed transport error",
					logger.String("collection", h.collection),
					logger.Error(terr),
				)
			}
			if onError != nil {
				onError(terr)
			}
		}
	}
}
