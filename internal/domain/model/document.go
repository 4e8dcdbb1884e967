package model

// Document is one loosely-shaped record delivered by a live feed or a
// single-document read. Field names and shapes are the producer's concern;
// the accessors here tolerate missing or differently-typed values.
type Document map[string]any

// StringField returns the named field as a string, or "" when absent or not
// a string.
func (d Document) StringField(key string) string {
	v, ok := d[key].(string)
	if !ok {
		return ""
	}
	return v
}

// BoolField returns the named field as a bool, defaulting to false.
func (d Document) BoolField(key string) bool {
	v, ok := d[key].(bool)
	if !ok {
		return false
	}
	return v
}

// FloatField returns the named field as a float64 and whether it was present
// as a number. JSON decoding yields float64 for all numbers.
func (d Document) FloatField(key string) (float64, bool) {
	v, ok := d[key].(float64)
	return v, ok
}

// StringsField returns the named field as a string slice. Both []string and
// []any-of-strings shapes are accepted; anything else yields nil.
func (d Document) StringsField(key string) []string {
	switch v := d[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// ListingFromDocument decodes a loose listings-feed document. Missing fields
// decode to zero values; coordinates are kept only when both lat and lon are
// present as numbers.
func ListingFromDocument(d Document) Listing {
	l := Listing{
		ID:             d.StringField("id"),
		Title:          d.StringField("title"),
		OrganizationID: d.StringField("organization_id"),
		RawOrgName:     d.StringField("organization_name"),
		Locality:       d.StringField("locality"),
		Description:    d.StringField("description"),
		Requirements:   d.StringsField("requirements"),
		Compensation:   d.StringField("compensation"),
		Category:       d.StringField("category"),
	}
	lat, okLat := d.FloatField("lat")
	lon, okLon := d.FloatField("lon")
	if okLat && okLon {
		l.Coordinates = &Coordinate{Lat: lat, Lon: lon}
	}
	return l
}

// OrganizationFromDocument decodes a loose organizations-feed document.
func OrganizationFromDocument(d Document) Organization {
	return Organization{
		ID:          d.StringField("id"),
		DisplayName: d.StringField("display_name"),
		Verified:    d.BoolField("verified"),
		LogoRef:     d.StringField("logo_ref"),
	}
}
