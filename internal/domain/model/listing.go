// Package model contains domain models passed between layers.
package model

// Coordinate is a WGS84 latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Listing represents one posted opportunity as delivered by the listings feed.
// The core only reads listings; the posting workflow owns their lifecycle.
type Listing struct {
	ID             string // opaque, stable id
	Title          string
	OrganizationID string      // foreign key; empty for legacy unlinked records
	RawOrgName     string      // denormalized fallback name
	Locality       string      // free-text city or "Remote"
	Coordinates    *Coordinate // nil unless the listing was geocoded
	Description    string
	Requirements   []string
	Compensation   string // free text, e.g. "90k-110k USD"
	Category       string
}

// Organization represents one employer record from the organizations feed.
type Organization struct {
	ID          string
	DisplayName string
	Verified    bool
	LogoRef     string // optional storage reference
}

// EnrichedListing is the derived join of a Listing with its Organization.
// It is ephemeral: recomputed from the latest snapshots, never persisted.
type EnrichedListing struct {
	Listing
	ResolvedOrgName string
	Verified        bool
}

// ViewerLocation is the viewer's device position. Valid is false when the
// location capability failed or was denied; consumers must treat an invalid
// location as "unknown", not as coordinate (0,0).
type ViewerLocation struct {
	Coordinate
	Valid bool
}
