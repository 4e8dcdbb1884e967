package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/hireloop/jobsync/internal/adapters/feed"
	"github.com/hireloop/jobsync/internal/adapters/location"
	"github.com/hireloop/jobsync/internal/adapters/repository"
	"github.com/hireloop/jobsync/internal/domain/model"
)

// resultCollector records every emitted view for polling assertions.
type resultCollector struct {
	mu    sync.Mutex
	views [][]model.EnrichedListing
}

func (c *resultCollector) sink(view []model.EnrichedListing) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views = append(c.views, view)
}

func (c *resultCollector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.views)
}

func (c *resultCollector) last() []model.EnrichedListing {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.views) == 0 {
		return nil
	}
	return c.views[len(c.views)-1]
}

func waitUntil(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func listingDoc(id, title, orgID, category string) model.Document {
	return model.Document{
		"id":              id,
		"title":           title,
		"organization_id": orgID,
		"category":        category,
	}
}

func orgDoc(id, name string, verified bool) model.Document {
	return model.Document{
		"id":           id,
		"display_name": name,
		"verified":     verified,
	}
}

func TestSynchronizerLifecycle(t *testing.T) {
	Convey("Given a synchronizer over a populated source", t, func() {
		src := feed.NewMemorySource()
		src.Publish(feed.CollectionListings, listingDoc("j1", "Go Backend Engineer", "o1", "engineering"))
		src.Publish(feed.CollectionOrganizations, orgDoc("o1", "Acme Robotics", true))

		col := &resultCollector{}
		svc := New(
			WithSource(src),
			WithResultSink(col.sink),
		)

		Convey("State starts as Idle", func() {
			So(svc.State(), ShouldEqual, StateIdle)
		})

		Convey("Subscribe emits the joined and enriched view", func() {
			So(svc.Subscribe(context.Background()), ShouldBeNil)
			defer svc.Unsubscribe()

			ok := waitUntil(2*time.Second, func() bool {
				view := col.last()
				return len(view) == 1 && view[0].ResolvedOrgName == "Acme Robotics"
			})
			So(ok, ShouldBeTrue)
			So(svc.State(), ShouldEqual, StateSubscribed)
			So(col.last()[0].Verified, ShouldBeTrue)

			Convey("and upstream changes re-emit", func() {
				before := col.count()
				src.Publish(feed.CollectionListings, listingDoc("j2", "SRE", "o1", "engineering"))

				ok := waitUntil(2*time.Second, func() bool {
					return col.count() > before && len(col.last()) == 2
				})
				So(ok, ShouldBeTrue)
			})

			Convey("and Results returns the current filtered view", func() {
				view := svc.Results()
				So(len(view), ShouldEqual, 1)
				So(view[0].ID, ShouldEqual, "j1")
			})
		})

		Convey("Subscribe without a source fails", func() {
			bare := New(WithResultSink(col.sink))
			So(bare.Subscribe(context.Background()), ShouldEqual, ErrSourceRequired)
		})

		Convey("Unsubscribe twice is observably identical to once", func() {
			So(svc.Subscribe(context.Background()), ShouldBeNil)
			waitUntil(2*time.Second, func() bool { return col.count() > 0 })

			svc.Unsubscribe()
			So(svc.State(), ShouldEqual, StateUnsubscribed)
			after := col.count()

			svc.Unsubscribe()
			So(svc.State(), ShouldEqual, StateUnsubscribed)

			src.Publish(feed.CollectionListings, listingDoc("j9", "Ghost", "o1", "engineering"))
			time.Sleep(50 * time.Millisecond)
			So(col.count(), ShouldEqual, after)
		})

		Convey("A fresh Subscribe after Unsubscribe resumes emission", func() {
			So(svc.Subscribe(context.Background()), ShouldBeNil)
			waitUntil(2*time.Second, func() bool { return col.count() > 0 })
			svc.Unsubscribe()

			So(svc.Subscribe(context.Background()), ShouldBeNil)
			defer svc.Unsubscribe()

			before := col.count()
			src.Publish(feed.CollectionListings, listingDoc("j3", "Data Engineer", "o1", "engineering"))
			ok := waitUntil(2*time.Second, func() bool { return col.count() > before })
			So(ok, ShouldBeTrue)
			So(svc.State(), ShouldEqual, StateSubscribed)
		})
	})
}

func TestSynchronizerFilter(t *testing.T) {
	Convey("Given a subscribed synchronizer with mixed listings", t, func() {
		src := feed.NewMemorySource()
		src.Publish(feed.CollectionListings, model.Document{
			"id": "j1", "title": "Backend Engineer", "organization_id": "o1",
			"category": "engineering", "lat": 19.076, "lon": 72.8777,
		})
		src.Publish(feed.CollectionListings, model.Document{
			"id": "j2", "title": "Product Designer", "organization_id": "o1",
			"category": "design", "lat": 28.7041, "lon": 77.1025,
		})
		src.Publish(feed.CollectionOrganizations, orgDoc("o1", "Acme Robotics", false))

		col := &resultCollector{}

		Convey("Text and category filters narrow the view", func() {
			svc := New(WithSource(src), WithResultSink(col.sink))
			So(svc.Subscribe(context.Background()), ShouldBeNil)
			defer svc.Unsubscribe()
			waitUntil(2*time.Second, func() bool { return len(col.last()) == 2 })

			svc.SetFilter(context.Background(), "designer", "", 0)
			ok := waitUntil(2*time.Second, func() bool {
				view := col.last()
				return len(view) == 1 && view[0].ID == "j2"
			})
			So(ok, ShouldBeTrue)

			svc.SetFilter(context.Background(), "", "engineering", 0)
			ok = waitUntil(2*time.Second, func() bool {
				view := col.last()
				return len(view) == 1 && view[0].ID == "j1"
			})
			So(ok, ShouldBeTrue)
		})

		Convey("Radius filtering uses the provider position", func() {
			// Viewer in Mumbai; j2 is in Delhi, well past 50km.
			svc := New(
				WithSource(src),
				WithResultSink(col.sink),
				WithLocationProvider(location.Static{Position: model.Coordinate{Lat: 19.0896, Lon: 72.8656}}),
			)
			So(svc.Subscribe(context.Background()), ShouldBeNil)
			defer svc.Unsubscribe()
			waitUntil(2*time.Second, func() bool { return len(col.last()) == 2 })

			svc.SetFilter(context.Background(), "", "", 50)
			So(svc.RadiusAvailable(), ShouldBeTrue)
			ok := waitUntil(2*time.Second, func() bool {
				view := col.last()
				return len(view) == 1 && view[0].ID == "j1"
			})
			So(ok, ShouldBeTrue)
		})

		Convey("Radius with no usable location leaves the view intact", func() {
			svc := New(WithSource(src), WithResultSink(col.sink))
			So(svc.Subscribe(context.Background()), ShouldBeNil)
			defer svc.Unsubscribe()
			waitUntil(2*time.Second, func() bool { return len(col.last()) == 2 })

			svc.SetFilter(context.Background(), "", "", 50)
			So(svc.RadiusAvailable(), ShouldBeFalse)
			ok := waitUntil(2*time.Second, func() bool { return len(col.last()) == 2 })
			So(ok, ShouldBeTrue)
		})
	})
}

func TestSynchronizerApply(t *testing.T) {
	Convey("Given an idle synchronizer", t, func() {
		store := repository.NewMemoryStore()
		svc := New(WithStore(store))

		identity := model.Identity{
			UserID:      "u1",
			DisplayName: "Priya Sharma",
			Email:       "priya@example.com",
		}

		Convey("Apply succeeds regardless of subscription state", func() {
			app, err := svc.Apply(context.Background(), "j1", identity)
			So(err, ShouldBeNil)
			So(app.ID, ShouldNotBeEmpty)
			So(app.ListingID, ShouldEqual, "j1")
			So(app.Profile.Name, ShouldEqual, "Priya Sharma")

			stored, err := store.GetApplication(context.Background(), app.ID)
			So(err, ShouldBeNil)
			So(stored.ApplicantID, ShouldEqual, "u1")
		})

		Convey("Each Apply is an independent submission", func() {
			a1, err := svc.Apply(context.Background(), "j1", identity)
			So(err, ShouldBeNil)
			a2, err := svc.Apply(context.Background(), "j1", identity)
			So(err, ShouldBeNil)
			So(a1.ID, ShouldNotEqual, a2.ID)

			n, err := store.CountApplications(context.Background(), "j1")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)
		})

		Convey("An empty listing id is rejected", func() {
			_, err := svc.Apply(context.Background(), "", identity)
			So(err, ShouldEqual, ErrListingRequired)
		})

		Convey("Persistence failure is the only error path", func() {
			store.Fail(errors.New("disk full"))
			_, err := svc.Apply(context.Background(), "j1", identity)
			So(errors.Is(err, ErrApplicationFailed), ShouldBeTrue)
		})

		Convey("A nameless identity still yields a populated profile", func() {
			app, err := svc.Apply(context.Background(), "j1", model.Identity{UserID: "u2"})
			So(err, ShouldBeNil)
			So(app.Profile.Name, ShouldEqual, "Unknown User")
		})
	})
}
