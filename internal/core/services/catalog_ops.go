package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ewilliams-labs/resonate/internal/core/domain"
	"github.com/ewilliams-labs/resonate/internal/core/ports"
)

// Validation errors for the catalog pass-through operations.
var (
	ErrNoSeeds             = errors.New("at least one seed (track, artist, or genre) must be provided")
	ErrTooManySeeds        = errors.New("a maximum of 5 seeds is allowed across all seed types")
	ErrCollaborativePublic = errors.New("a playlist cannot be both collaborative and public")
)

const maxSeeds = 5

// RecommendRequest configures a catalog-wide recommendation query.
type RecommendRequest struct {
	SeedTracks  []string
	SeedArtists []string
	SeedGenres  []string
	Limit       int
	Tunables    map[string]ports.Tunable
}

// Recommend fetches catalog recommendations biased by up to five seeds
// and optional tunable attribute constraints.
func (e *Engine) Recommend(ctx context.Context, req RecommendRequest) ([]domain.Track, error) {
	total := len(req.SeedTracks) + len(req.SeedArtists) + len(req.SeedGenres)
	if total == 0 {
		return nil, ErrNoSeeds
	}
	if total > maxSeeds {
		return nil, ErrTooManySeeds
	}
	if req.Limit == 0 {
		req.Limit = defaultResultLimit
	}
	if req.Limit < 1 || req.Limit > maxResultLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d, got %d", ports.ErrInvalidRequest, maxResultLimit, req.Limit)
	}

	return e.catalog.Recommendations(ctx, ports.RecommendationQuery{
		SeedTracks:  req.SeedTracks,
		SeedArtists: req.SeedArtists,
		SeedGenres:  req.SeedGenres,
		Limit:       req.Limit,
		Tunables:    req.Tunables,
	})
}

// GetTrack fetches full detail for one track.
func (e *Engine) GetTrack(ctx context.Context, id string) (domain.Track, error) {
	if id == "" {
		return domain.Track{}, fmt.Errorf("%w: track id is required", ports.ErrInvalidRequest)
	}
	return e.catalog.Track(ctx, id)
}

// SearchTracks searches the catalog by free text.
func (e *Engine) SearchTracks(ctx context.Context, query string, limit, offset int) (ports.TrackPage, error) {
	if query == "" {
		return ports.TrackPage{}, fmt.Errorf("%w: search query is required", ports.ErrInvalidRequest)
	}
	if limit == 0 {
		limit = defaultResultLimit
	}
	return e.catalog.SearchTracks(ctx, query, limit, offset)
}

// AudioFeatures fetches feature vectors for up to 100 tracks, using the
// same cache-aware, degradation-tolerant path as the scoring pipeline.
func (e *Engine) AudioFeatures(ctx context.Context, ids []string) (map[string]domain.Features, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one track id is required", ports.ErrInvalidRequest)
	}
	if len(ids) > featureBatchSize {
		return nil, fmt.Errorf("%w: at most %d track ids per request, got %d", ports.ErrInvalidRequest, featureBatchSize, len(ids))
	}
	return e.audioFeaturesFor(ctx, ids)
}

// UserPlaylists lists the authenticated user's playlists.
func (e *Engine) UserPlaylists(ctx context.Context, limit, offset int) (ports.PlaylistPage, error) {
	if limit == 0 {
		limit = defaultResultLimit
	}
	return e.catalog.UserPlaylists(ctx, limit, offset)
}

// PlaylistTracks lists tracks in a playlist.
func (e *Engine) PlaylistTracks(ctx context.Context, playlistID string, limit, offset int) (ports.TrackPage, error) {
	if playlistID == "" {
		return ports.TrackPage{}, fmt.Errorf("%w: playlist id is required", ports.ErrInvalidRequest)
	}
	if limit == 0 {
		limit = defaultResultLimit
	}
	return e.catalog.PlaylistTracks(ctx, playlistID, limit, offset)
}

// CreatePlaylist creates an empty playlist for the authenticated user.
func (e *Engine) CreatePlaylist(ctx context.Context, spec ports.PlaylistSpec) (domain.PlaylistRef, error) {
	if spec.Name == "" {
		return domain.PlaylistRef{}, fmt.Errorf("%w: playlist name is required", ports.ErrInvalidRequest)
	}
	if spec.Collaborative && spec.Public {
		return domain.PlaylistRef{}, ErrCollaborativePublic
	}
	return e.catalog.CreatePlaylist(ctx, spec)
}

// AddTracks adds tracks to an existing playlist, preserving uri order,
// and returns the new snapshot id.
func (e *Engine) AddTracks(ctx context.Context, playlistID string, uris []string, position *int) (string, error) {
	if playlistID == "" {
		return "", fmt.Errorf("%w: playlist id is required", ports.ErrInvalidRequest)
	}
	if len(uris) == 0 {
		return "", fmt.Errorf("%w: at least one track uri is required", ports.ErrInvalidRequest)
	}
	if len(uris) > 100 {
		return "", fmt.Errorf("%w: at most 100 track uris per request, got %d", ports.ErrInvalidRequest, len(uris))
	}
	return e.catalog.AddTracks(ctx, playlistID, uris, position)
}
