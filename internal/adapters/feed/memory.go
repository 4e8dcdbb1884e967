package feed

import (
	"sync"

	"github.com/hireloop/jobsync/internal/domain/model"
)

// Default memory source configuration constants.
const (
	defaultChannelBuffer = 16
)

// MemorySource implements Source in memory. It backs tests and the feed
// simulator: documents are upserted per collection and every mutation emits a
// fresh full snapshot to all matching subscribers.
type MemorySource struct {
	mu          sync.Mutex
	collections map[string][]model.Document
	subs        map[*memorySub]struct{}
	closed      bool
}

// NewMemorySource creates an empty in-memory source.
func NewMemorySource() *MemorySource {
	return &MemorySource{
		collections: make(map[string][]model.Document),
		subs:        make(map[*memorySub]struct{}),
	}
}

// Subscribe registers a live query and immediately delivers the current
// snapshot.
func (s *MemorySource) Subscribe(collection string, q Query) (Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSourceClosed
	}

	sub := &memorySub{
		src:        s,
		collection: collection,
		query:      q,
		snaps:      make(chan Snapshot, defaultChannelBuffer),
		errs:       make(chan *TransportError, defaultChannelBuffer),
	}
	s.subs[sub] = struct{}{}
	sub.deliver(s.snapshotLocked(collection, q))
	return sub, nil
}

// Publish upserts a document (keyed by its "id" field) into a collection and
// emits snapshots.
func (s *MemorySource) Publish(collection string, doc model.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	id := doc.StringField("id")
	replaced := false
	for i, d := range docs {
		if id != "" && d.StringField("id") == id {
			docs[i] = doc
			replaced = true
			break
		}
	}
	if !replaced {
		docs = append(docs, doc)
	}
	s.collections[collection] = docs
	s.broadcastLocked(collection)
}

// Remove deletes a document by id and emits snapshots. Removing an unknown id
// is a no-op.
func (s *MemorySource) Remove(collection, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	for i, d := range docs {
		if d.StringField("id") == id {
			s.collections[collection] = append(docs[:i:i], docs[i+1:]...)
			s.broadcastLocked(collection)
			return
		}
	}
}

// Fail injects a transport error into every subscriber of the collection.
// The subscriptions stay live.
func (s *MemorySource) Fail(collection string, err error, recoverable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	terr := &TransportError{Collection: collection, Recoverable: recoverable, Err: err}
	for sub := range s.subs {
		if sub.collection == collection {
			sub.deliverErr(terr)
		}
	}
}

// Close cancels every subscription and rejects new ones.
func (s *MemorySource) Close() {
	s.mu.Lock()
	subs := make([]*memorySub, 0, len(s.subs))
	for sub := range s.subs {
		subs = append(subs, sub)
	}
	s.closed = true
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}
}

func (s *MemorySource) broadcastLocked(collection string) {
	for sub := range s.subs {
		if sub.collection == collection {
			sub.deliver(s.snapshotLocked(collection, sub.query))
		}
	}
}

func (s *MemorySource) snapshotLocked(collection string, q Query) Snapshot {
	var docs []model.Document
	for _, d := range s.collections[collection] {
		if q.Matches(d) {
			docs = append(docs, d)
		}
	}
	return Snapshot{Collection: collection, Documents: docs}
}

func (s *MemorySource) drop(sub *memorySub) {
	s.mu.Lock()
	delete(s.subs, sub)
	s.mu.Unlock()
}

type memorySub struct {
	src        *MemorySource
	collection string
	query      Query
	snaps      chan Snapshot
	errs       chan *TransportError
	cancel     sync.Once
}

func (s *memorySub) Snapshots() <-chan Snapshot     { return s.snaps }
func (s *memorySub) Errors() <-chan *TransportError { return s.errs }

func (s *memorySub) Cancel() {
	s.cancel.Do(func() {
		s.src.drop(s)
		close(s.snaps)
		close(s.errs)
	})
}

// deliver pushes a snapshot without ever blocking a publisher; when the
// subscriber lags, the oldest buffered snapshot is discarded. Only the latest
// state matters to consumers.
func (s *memorySub) deliver(snap Snapshot) {
	for {
		select {
		case s.snaps <- snap:
			return
		default:
			select {
			case <-s.snaps:
			default:
			}
		}
	}
}

func (s *memorySub) deliverErr(terr *TransportError) {
	select {
	case s.errs <- terr:
	default:
	}
}
