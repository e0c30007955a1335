package ports

import (
	"errors"
	"fmt"

	"github.com/ewilliams-labs/resonate/internal/core/domain"
)

// Validation errors, detected before any catalog call is made.
var (
	// ErrInvalidRequest marks request validation failures that carry no
	// more specific sentinel.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrMissingSource indicates none of track, artist or playlist id was supplied.
	ErrMissingSource = errors.New("at least one of track_id, artist_id, or playlist_id must be provided")

	// ErrIncompatibleStrategyScope is the sentinel matched by IncompatibleStrategyError.
	ErrIncompatibleStrategyScope = errors.New("strategy is incompatible with the requested scope")

	// ErrMissingActionParam is the sentinel matched by MissingActionParamError.
	ErrMissingActionParam = errors.New("missing action parameter")

	// ErrMissingScopeID is the sentinel matched by MissingScopeIDError.
	ErrMissingScopeID = errors.New("scope_id is required for this scope")
)

// Result errors: resolution or scoring produced an empty usable set.
var (
	ErrNoGenresFound  = errors.New("no genres found for the source track, artist, or playlist")
	ErrNoMatchesFound = errors.New("no similar tracks found matching the criteria")
)

// MissingScopeIDError reports which scope required an identifier.
type MissingScopeIDError struct {
	Scope string
}

func (e *MissingScopeIDError) Error() string {
	return fmt.Sprintf("scope_id is required for scope %q", e.Scope)
}

func (e *MissingScopeIDError) Is(target error) bool {
	return target == ErrMissingScopeID
}

// IncompatibleStrategyError reports a strategy/scope combination the
// engine cannot serve, such as genre_match against the catalog scope.
type IncompatibleStrategyError struct {
	Strategy string
	Scope    string
}

func (e *IncompatibleStrategyError) Error() string {
	return fmt.Sprintf("strategy %q requires an enumerable scope, not %q", e.Strategy, e.Scope)
}

func (e *IncompatibleStrategyError) Is(target error) bool {
	return target == ErrIncompatibleStrategyScope
}

// MissingActionParamError reports a post-scoring action invoked without
// its required parameter.
type MissingActionParamError struct {
	Action string
	Param  string
}

func (e *MissingActionParamError) Error() string {
	return fmt.Sprintf("%s is required for the %q action", e.Param, e.Action)
}

func (e *MissingActionParamError) Is(target error) bool {
	return target == ErrMissingActionParam
}

// PlaylistPartialError reports that a playlist was created but adding
// tracks to it failed. The catalog offers no transactional guarantee, so
// the created playlist is surfaced rather than rolled back.
type PlaylistPartialError struct {
	Playlist domain.PlaylistRef
	Err      error
}

func (e *PlaylistPartialError) Error() string {
	return fmt.Sprintf("playlist %q was created but adding tracks failed: %v", e.Playlist.Name, e.Err)
}

func (e *PlaylistPartialError) Unwrap() error {
	return e.Err
}
