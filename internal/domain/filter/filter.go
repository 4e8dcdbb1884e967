// Package filter applies the compound listing filters: free-text search,
// category equality, and a geodesic radius constraint around the viewer.
package filter

import (
	"strings"

	"github.com/hireloop/jobsync/internal/domain/geo"
	"github.com/hireloop/jobsync/internal/domain/model"
)

// AllCategories is the sentinel category value that bypasses the category
// predicate entirely.
const AllCategories = "all"

// Pipeline is an immutable set of predicates combined by logical AND. Apply
// preserves the input's relative order; it filters, it never re-sorts.
type Pipeline struct {
	text     string
	category string

	radiusKm  float64
	hasRadius bool
	viewer    model.ViewerLocation
}

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithText sets the case-insensitive free-text query. An empty query matches
// everything.
func WithText(q string) Option {
	return func(p *Pipeline) {
		p.text = strings.ToLower(strings.TrimSpace(q))
	}
}

// WithCategory sets the exact-match category. AllCategories and "" disable
// the predicate.
func WithCategory(c string) Option {
	return func(p *Pipeline) {
		p.category = c
	}
}

// WithRadius constrains listings to radiusKm around the viewer's location.
// Non-positive radii are ignored.
func WithRadius(radiusKm float64) Option {
	return func(p *Pipeline) {
		if radiusKm > 0 {
			p.radiusKm = radiusKm
			p.hasRadius = true
		}
	}
}

// WithViewerLocation supplies the viewer's device position for the radius
// predicate.
func WithViewerLocation(loc model.ViewerLocation) Option {
	return func(p *Pipeline) {
		p.viewer = loc
	}
}

// New builds a Pipeline from options.
func New(opts ...Option) Pipeline {
	var p Pipeline
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// RadiusAvailable reports whether the radius predicate can run: a radius was
// requested and the viewer location is known. When it returns false the
// radius constraint is disabled rather than excluding every listing, so a UI
// should present the toggle as unavailable instead of showing zero results.
func (p Pipeline) RadiusAvailable() bool {
	return p.hasRadius && p.viewer.Valid
}

// Apply returns the stable-ordered subsequence of view passing all predicates.
func (p Pipeline) Apply(view []model.EnrichedListing) []model.EnrichedListing {
	out := make([]model.EnrichedListing, 0, len(view))
	for _, l := range view {
		if p.matches(l) {
			out = append(out, l)
		}
	}
	return out
}

func (p Pipeline) matches(l model.EnrichedListing) bool {
	if p.text != "" && !matchesText(l, p.text) {
		return false
	}
	if p.category != "" && p.category != AllCategories && l.Category != p.category {
		return false
	}
	if p.RadiusAvailable() {
		if l.Coordinates == nil {
			return false
		}
		if geo.DistanceKm(*l.Coordinates, p.viewer.Coordinate) > p.radiusKm {
			return false
		}
	}
	return true
}

// matchesText reports whether any of the searchable fields contains the
// lowercased query.
func matchesText(l model.EnrichedListing, q string) bool {
	return strings.Contains(strings.ToLower(l.Title), q) ||
		strings.Contains(strings.ToLower(l.ResolvedOrgName), q) ||
		strings.Contains(strings.ToLower(l.Description), q)
}
