// Package routeerr defines the closed set of error kinds that flow out of
// the routing core (fetcher, builder, search, orchestrator) up to the
// external adapters, per the error handling design in SPEC_FULL.md §7.
package routeerr

import (
	"errors"
	"fmt"
)

// Kind identifies the origin and surfacing policy of a routing error.
type Kind string

const (
	InvalidCoordinates   Kind = "invalid_coordinates"
	EmptyArea            Kind = "empty_area"
	UpstreamTimeout      Kind = "upstream_timeout"
	UpstreamRateLimited  Kind = "upstream_rate_limited"
	UpstreamServerError  Kind = "upstream_server_error"
	UpstreamBadShape     Kind = "upstream_bad_shape"
	NoNearbyIntersection Kind = "no_nearby_intersection"
	Unreachable          Kind = "unreachable"
	SearchAborted        Kind = "search_aborted"
	ReconstructionFailed Kind = "reconstruction_failed"
)

// Error is the typed error carried through the routing core. Callers that
// need to branch on the kind use errors.As, mirroring the teacher's
// errors.Is(err, routing.ErrPointTooFar) dispatch pattern.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds a bare routing error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds a routing error of the given kind around a lower-level cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Kind == kind
	}
	return false
}
