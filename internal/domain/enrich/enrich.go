// Package enrich resolves a best-effort candidate profile before an
// application is submitted.
//
// Resolution is an ordered fallback chain: authenticated identity first, then
// an optional extended profile document. Every step may fail independently;
// failure degrades the result to a thinner profile and is never surfaced as
// an error. A submission must not be blocked by a missing profile.
package enrich

import (
	"context"
	"strings"

	"github.com/hireloop/jobsync/internal/adapters/profile"
	"github.com/hireloop/jobsync/internal/domain/model"
	"github.com/hireloop/jobsync/pkg/logger"
	"github.com/hireloop/jobsync/pkg/metrics"
)

// DefaultName substitutes a missing display name so the profile is never
// partially populated.
const DefaultName = "Unknown User"

// Resolver builds candidate profiles. A nil fetcher is allowed and simply
// skips the extended-profile step.
type Resolver struct {
	fetcher profile.Fetcher
	log     logger.Logger
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithFetcher sets the extended-profile data source.
func WithFetcher(f profile.Fetcher) Option {
	return func(r *Resolver) {
		r.fetcher = f
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve produces a fully populated CandidateProfile for the identity. It
// never returns an error: any sub-fetch failure is logged and the chain
// continues with what it has.
func (r *Resolver) Resolve(ctx context.Context, id model.Identity) model.CandidateProfile {
	p := model.CandidateProfile{
		Name:   strings.TrimSpace(id.DisplayName),
		Email:  strings.TrimSpace(id.Email),
		Phone:  strings.TrimSpace(id.Phone),
		Skills: []string{},
	}
	if p.Name == "" {
		p.Name = DefaultName
	}

	if r.fetcher == nil || id.UserID == "" {
		return p
	}

	doc, err := r.fetcher.Fetch(ctx, id.UserID)
	if err != nil {
		metrics.RecordEnrichmentFallback()
		if r.log != nil {
			r.log.Debug(ctx, "profile fetch failed; continuing with identity defaults",
				logger.String("user_id", id.UserID),
				logger.Error(err),
			)
		}
		return p
	}

	if skills := NormalizeSkills(doc["skills"]); len(skills) > 0 {
		p.Skills = skills
	}
	if v := doc.StringField("experience"); v != "" {
		p.Experience = v
	}
	if v := doc.StringField("education"); v != "" {
		p.Education = v
	}
	if v := doc.StringField("resume_ref"); v != "" {
		p.ResumeRef = v
	}
	return p
}

// NormalizeSkills accepts the skills field in any of its wire shapes, a
// string slice, an []any of strings, or a comma/semicolon-delimited string,
// and returns a trimmed, deduplicated list preserving first-seen order.
func NormalizeSkills(v any) []string {
	var raw []string
	switch s := v.(type) {
	case []string:
		raw = s
	case []any:
		for _, e := range s {
			if str, ok := e.(string); ok {
				raw = append(raw, str)
			}
		}
	case string:
		raw = strings.FieldsFunc(s, func(r rune) bool {
			return r == ',' || r == ';'
		})
	default:
		return nil
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
