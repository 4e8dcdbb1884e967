// Package location supplies the viewer's one-shot device coordinates for the
// radius filter. Failure to locate is non-fatal by contract: providers return
// an invalid ViewerLocation instead of an error, and the radius filter is
// presented as unavailable rather than excluding everything.
package location

import (
	"context"

	"github.com/hireloop/jobsync/internal/domain/model"
	"github.com/hireloop/jobsync/pkg/logger"
)

// Provider yields the viewer's current position. Implementations never
// return an error; any failure produces ViewerLocation{Valid: false}.
// Providers are one-shot: no automatic retry, re-invocation is the caller's
// choice.
type Provider interface {
	Locate(ctx context.Context) model.ViewerLocation
}

// Static always returns the same fixed position, typically sourced from
// configuration.
type Static struct {
	Position model.Coordinate
}

// Locate returns the fixed position.
func (s Static) Locate(ctx context.Context) model.ViewerLocation {
	return model.ViewerLocation{Coordinate: s.Position, Valid: true}
}

// Unavailable models a device without a usable location capability.
type Unavailable struct{}

// Locate always reports an unknown position.
func (Unavailable) Locate(ctx context.Context) model.ViewerLocation {
	return model.ViewerLocation{}
}

// Func adapts a plain function to the Provider interface.
type Func func(ctx context.Context) model.ViewerLocation

// Locate invokes the wrapped function.
func (f Func) Locate(ctx context.Context) model.ViewerLocation {
	return f(ctx)
}

// Logged wraps a provider and logs lookup failures so callers can stay on
// the happy path.
type Logged struct {
	Provider Provider
	Log      logger.Logger
}

// Locate delegates to the wrapped provider, logging an invalid result.
func (l Logged) Locate(ctx context.Context) model.ViewerLocation {
	loc := l.Provider.Locate(ctx)
	if !loc.Valid && l.Log != nil {
		l.Log.Debug(ctx, "viewer location unavailable; radius filter disabled")
	}
	return loc
}
