package services

import (
	"fmt"

	"github.com/ewilliams-labs/resonate/internal/core/domain"
	"github.com/ewilliams-labs/resonate/internal/core/ports"
	"github.com/ewilliams-labs/resonate/internal/core/similarity"
)

// Scope is the pool of tracks eligible for comparison against the source.
type Scope string

const (
	ScopeCatalog     Scope = "catalog"
	ScopePlaylist    Scope = "playlist"
	ScopeArtist      Scope = "artist"
	ScopeAlbum       Scope = "album"
	ScopeSavedTracks Scope = "saved_tracks"
)

var scopes = map[Scope]struct{}{
	ScopeCatalog:     {},
	ScopePlaylist:    {},
	ScopeArtist:      {},
	ScopeAlbum:       {},
	ScopeSavedTracks: {},
}

// ParseScope validates a scope name. The empty string parses to the
// default catalog scope.
func ParseScope(s string) (Scope, error) {
	if s == "" {
		return ScopeCatalog, nil
	}
	scope := Scope(s)
	if _, ok := scopes[scope]; !ok {
		return "", fmt.Errorf("engine: unknown scope %q", s)
	}
	return scope, nil
}

// Action is what to do with the ranked result.
type Action string

const (
	ActionReturnTracks   Action = "return_tracks"
	ActionCreatePlaylist Action = "create_playlist"
	ActionAddToPlaylist  Action = "add_to_playlist"
)

var actions = map[Action]struct{}{
	ActionReturnTracks:   {},
	ActionCreatePlaylist: {},
	ActionAddToPlaylist:  {},
}

// ParseAction validates an action name. The empty string parses to
// return_tracks.
func ParseAction(s string) (Action, error) {
	if s == "" {
		return ActionReturnTracks, nil
	}
	action := Action(s)
	if _, ok := actions[action]; !ok {
		return "", fmt.Errorf("engine: unknown action %q", s)
	}
	return action, nil
}

const (
	defaultResultLimit = 20
	maxResultLimit     = 100
)

// FindSimilarRequest configures one similarity search.
type FindSimilarRequest struct {
	// Source: at least one required.
	TrackID    string
	ArtistID   string
	PlaylistID string

	Strategy similarity.Strategy
	Weights  similarity.Weights // only used by the weighted strategy

	Scope   Scope
	ScopeID string // required for every scope except catalog

	Limit         int      // 1-100, default 20
	MinSimilarity *float64 // optional threshold, candidates below are dropped

	Action           Action
	PlaylistName     string // required for create_playlist
	TargetPlaylistID string // required for add_to_playlist
}

// withDefaults fills zero values with the documented defaults.
func (r FindSimilarRequest) withDefaults() FindSimilarRequest {
	if r.Strategy == "" {
		r.Strategy = similarity.StrategyEuclidean
	}
	if r.Scope == "" {
		r.Scope = ScopeCatalog
	}
	if r.Action == "" {
		r.Action = ActionReturnTracks
	}
	if r.Limit == 0 {
		r.Limit = defaultResultLimit
	}
	return r
}

// validate fails fast, before any catalog call is made.
func (r FindSimilarRequest) validate() error {
	if r.TrackID == "" && r.ArtistID == "" && r.PlaylistID == "" {
		return ports.ErrMissingSource
	}
	if _, ok := scopes[r.Scope]; !ok {
		return fmt.Errorf("%w: unknown scope %q", ports.ErrInvalidRequest, r.Scope)
	}
	if _, ok := actions[r.Action]; !ok {
		return fmt.Errorf("%w: unknown action %q", ports.ErrInvalidRequest, r.Action)
	}
	if _, err := similarity.ParseStrategy(string(r.Strategy)); err != nil {
		return fmt.Errorf("%w: %v", ports.ErrInvalidRequest, err)
	}
	if r.Scope != ScopeCatalog && r.ScopeID == "" {
		return &ports.MissingScopeIDError{Scope: string(r.Scope)}
	}
	if r.Strategy.UsesGenres() && r.Scope == ScopeCatalog {
		return &ports.IncompatibleStrategyError{Strategy: string(r.Strategy), Scope: string(r.Scope)}
	}
	if r.Action == ActionCreatePlaylist && r.PlaylistName == "" {
		return &ports.MissingActionParamError{Action: string(r.Action), Param: "playlist_name"}
	}
	if r.Action == ActionAddToPlaylist && r.TargetPlaylistID == "" {
		return &ports.MissingActionParamError{Action: string(r.Action), Param: "target_playlist_id"}
	}
	if r.Limit < 1 || r.Limit > maxResultLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d, got %d", ports.ErrInvalidRequest, maxResultLimit, r.Limit)
	}
	if r.MinSimilarity != nil && (*r.MinSimilarity < 0 || *r.MinSimilarity > 1) {
		return fmt.Errorf("%w: min_similarity must be in [0,1], got %g", ports.ErrInvalidRequest, *r.MinSimilarity)
	}
	if err := r.Weights.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ports.ErrInvalidRequest, err)
	}
	return nil
}

// ScoredTrack pairs a candidate with its similarity to the source.
type ScoredTrack struct {
	Track      domain.Track
	Similarity float64
	Genres     []string // resolved genre set, populated for genre_match only
}

// FindSimilarResult is the ranked outcome of a similarity search.
type FindSimilarResult struct {
	Strategy similarity.Strategy
	Scope    Scope
	Tracks   []ScoredTrack

	// Materialization outcome, set when the action mutated a playlist.
	Action      Action
	Playlist    *domain.PlaylistRef
	SnapshotID  string
	TracksAdded int
}
