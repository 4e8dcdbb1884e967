package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/hireloop/jobsync/internal/adapters/http/api"
	"github.com/hireloop/jobsync/internal/app"
	"github.com/hireloop/jobsync/internal/domain/model"
)

// Mock implementation of the handler dependency bundle.
type mockSync struct {
	results         []model.EnrichedListing
	radiusAvailable bool
	applyErr        error

	lastText     string
	lastCategory string
	lastRadius   float64
	applied      []string
}

func (m *mockSync) SetFilter(ctx context.Context, text, category string, radiusKm float64) {
	m.lastText = text
	m.lastCategory = category
	m.lastRadius = radiusKm
}

func (m *mockSync) Results() []model.EnrichedListing {
	return m.results
}

func (m *mockSync) RadiusAvailable() bool {
	return m.radiusAvailable
}

func (m *mockSync) Apply(ctx context.Context, listingID string, identity model.Identity) (model.Application, error) {
	if m.applyErr != nil {
		return model.Application{}, m.applyErr
	}
	m.applied = append(m.applied, listingID)
	return model.Application{
		ID:          "app-1",
		ListingID:   listingID,
		ApplicantID: identity.UserID,
		SubmittedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}, nil
}

func (m *mockSync) Stats() map[string]any {
	return map[string]any{"state": "subscribed", "viewSize": len(m.results)}
}

func newTestServer(deps *mockSync) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(deps).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func sampleResults() []model.EnrichedListing {
	return []model.EnrichedListing{
		{
			Listing:         model.Listing{ID: "j1", Title: "Backend Engineer", Category: "engineering"},
			ResolvedOrgName: "Acme Robotics",
			Verified:        true,
		},
		{
			Listing:         model.Listing{ID: "j2", Title: "Product Designer", Category: "design"},
			ResolvedOrgName: "Initech",
		},
	}
}

func TestGetListings(t *testing.T) {
	Convey("Given a listings endpoint", t, func() {
		deps := &mockSync{results: sampleResults(), radiusAvailable: true}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("A plain GET returns the current view", func() {
			resp, err := http.Get(srv.URL + "/listings")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var body struct {
				Count           int                     `json:"count"`
				RadiusAvailable bool                    `json:"radius_available"`
				Listings        []model.EnrichedListing `json:"listings"`
			}
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
			So(body.Count, ShouldEqual, 2)
			So(body.RadiusAvailable, ShouldBeTrue)
			So(body.Listings[0].ResolvedOrgName, ShouldEqual, "Acme Robotics")
		})

		Convey("Query parameters replace the active filter", func() {
			resp, err := http.Get(srv.URL + "/listings?q=designer&category=design&radius_km=25")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(deps.lastText, ShouldEqual, "designer")
			So(deps.lastCategory, ShouldEqual, "design")
			So(deps.lastRadius, ShouldEqual, 25.0)
		})

		Convey("A malformed radius is rejected", func() {
			resp, err := http.Get(srv.URL + "/listings?radius_km=nearby")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("A negative radius is rejected", func() {
			resp, err := http.Get(srv.URL + "/listings?radius_km=-5")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("POST is not found", func() {
			resp, err := http.Post(srv.URL+"/listings", "application/json", strings.NewReader("{}"))
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestPostApplication(t *testing.T) {
	Convey("Given an applications endpoint", t, func() {
		deps := &mockSync{}
		srv := newTestServer(deps)
		defer srv.Close()

		post := func(body string) *http.Response {
			resp, err := http.Post(srv.URL+"/applications", "application/json", strings.NewReader(body))
			So(err, ShouldBeNil)
			return resp
		}

		Convey("A valid submission is acknowledged with 201", func() {
			resp := post(`{"listing_id":"j1","user_id":"u1","display_name":"Priya Sharma","email":"priya@example.com"}`)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusCreated)

			var body struct {
				ApplicationID string `json:"application_id"`
				ListingID     string `json:"listing_id"`
				Status        string `json:"status"`
			}
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
			So(body.ApplicationID, ShouldEqual, "app-1")
			So(body.ListingID, ShouldEqual, "j1")
			So(body.Status, ShouldEqual, "submitted")
			So(deps.applied, ShouldResemble, []string{"j1"})
		})

		Convey("A missing listing_id fails validation", func() {
			resp := post(`{"user_id":"u1"}`)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("A malformed email fails validation", func() {
			resp := post(`{"listing_id":"j1","email":"not-an-email"}`)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Invalid JSON is a bad request", func() {
			resp := post(`{listing_id:`)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("A persistence failure maps to 500", func() {
			deps.applyErr = errors.New("disk full")
			resp := post(`{"listing_id":"j1"}`)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusInternalServerError)
		})

		Convey("A listing-required failure maps to 400", func() {
			deps.applyErr = app.ErrListingRequired
			resp := post(`{"listing_id":"j1"}`)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("GET is not found", func() {
			resp, err := http.Get(srv.URL + "/applications")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestHealthAndStats(t *testing.T) {
	Convey("Given the service endpoints", t, func() {
		deps := &mockSync{results: sampleResults()}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("Health reports ok", func() {
			resp, err := http.Get(srv.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var body map[string]string
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
			So(body["status"], ShouldEqual, "ok")
		})

		Convey("Stats exposes synchronizer statistics", func() {
			resp, err := http.Get(srv.URL + "/stats")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var body map[string]any
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
			So(body["state"], ShouldEqual, "subscribed")
		})

		Convey("Metrics are exposed in Prometheus format", func() {
			resp, err := http.Get(srv.URL + "/metrics")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})
	})
}
