// Package feed defines the live-subscription capability over named
// collections and the manager that owns subscription lifecycles.
//
// A Source is the external black box: subscribing to a collection yields a
// stream of full snapshots plus asynchronous transport errors. The Manager
// guarantees at most one live subscription per (collection, query key) pair
// and deterministic teardown.
package feed

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hireloop/jobsync/internal/domain/model"
)

// Well-known collection names served by the sources in this system.
const (
	CollectionListings      = "listings"
	CollectionOrganizations = "organizations"
)

// Snapshot is the current full state of one live-subscribed collection,
// delivered as a single event. Documents keep the source's order.
type Snapshot struct {
	Collection string
	Documents  []model.Document
}

// Query describes a live query against a collection. The zero value selects
// the whole collection.
type Query struct {
	// Where holds equality constraints on top-level string fields.
	Where map[string]string
}

// Key returns a deterministic identity for the query, used to collapse
// duplicate subscriptions.
func (q Query) Key() string {
	if len(q.Where) == 0 {
		return "*"
	}
	parts := make([]string, 0, len(q.Where))
	for k, v := range q.Where {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, "&")
}

// Matches reports whether a document satisfies every equality constraint.
func (q Query) Matches(doc model.Document) bool {
	for k, v := range q.Where {
		if doc.StringField(k) != v {
			return false
		}
	}
	return true
}

// Subscription is one live stream handed out by a Source. Cancel releases
// the stream; after Cancel both channels are closed.
type Subscription interface {
	// Snapshots delivers full collection states in source order.
	Snapshots() <-chan Snapshot

	// Errors delivers transport failures. An error does not terminate the
	// subscription; stopping and retrying is the caller's policy.
	Errors() <-chan *TransportError

	// Cancel releases the stream. Idempotent.
	Cancel()
}

// Source is the external live-subscription capability.
type Source interface {
	Subscribe(collection string, q Query) (Subscription, error)
}

// subscriptionKey builds the manager's dedupe key.
func subscriptionKey(collection string, q Query) string {
	return fmt.Sprintf("%s|%s", collection, q.Key())
}
