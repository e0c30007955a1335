// Package ports defines the interfaces the core engine depends on and
// the error taxonomy shared across the boundary.
package ports

import (
	"context"

	"github.com/ewilliams-labs/resonate/internal/core/domain"
)

// TrackEntry wraps one entry of a paginated track listing. Track is nil
// for entries with no resolvable track, such as removed or local tracks.
type TrackEntry struct {
	Track *domain.Track
}

// TrackPage is one page of a paginated track listing.
type TrackPage struct {
	Items []TrackEntry
	Total int
}

// PlaylistPage is one page of the user's playlist library.
type PlaylistPage struct {
	Items []domain.Playlist
	Total int
}

// Tunable constrains one recommendation attribute. All fields optional.
type Tunable struct {
	Min    *float64
	Max    *float64
	Target *float64
}

// RecommendationQuery shapes a catalog-wide recommendation request.
type RecommendationQuery struct {
	SeedTracks  []string
	SeedArtists []string
	SeedGenres  []string
	Limit       int
	Tunables    map[string]Tunable
}

// PlaylistSpec describes a playlist to create.
type PlaylistSpec struct {
	Name          string
	Description   string
	Public        bool
	Collaborative bool
}

// Catalog is the external music catalog service. Implementations handle
// transport, authentication and rate limiting; the engine only sees the
// operation shapes below. Every method may fail with an *UpstreamError.
type Catalog interface {
	Track(ctx context.Context, id string) (domain.Track, error)
	Artist(ctx context.Context, id string) (domain.Artist, error)
	ArtistTopTracks(ctx context.Context, id string) ([]domain.Track, error)
	ArtistAlbums(ctx context.Context, id string, limit int) ([]domain.AlbumRef, error)
	AlbumTracks(ctx context.Context, id string, limit int) ([]domain.TrackRef, error)

	// AudioFeatures fetches the feature vector for one track.
	AudioFeatures(ctx context.Context, id string) (domain.Features, error)
	// AudioFeaturesBatch fetches features for up to 100 tracks. Entries
	// for unavailable tracks are absent from the result, not nil-filled.
	AudioFeaturesBatch(ctx context.Context, ids []string) (map[string]domain.Features, error)

	PlaylistTracks(ctx context.Context, playlistID string, limit, offset int) (TrackPage, error)
	SavedTracks(ctx context.Context, limit, offset int) (TrackPage, error)
	SearchTracks(ctx context.Context, query string, limit, offset int) (TrackPage, error)
	UserPlaylists(ctx context.Context, limit, offset int) (PlaylistPage, error)

	Recommendations(ctx context.Context, q RecommendationQuery) ([]domain.Track, error)

	CreatePlaylist(ctx context.Context, spec PlaylistSpec) (domain.PlaylistRef, error)
	// AddTracks appends or inserts tracks and returns the new snapshot id.
	// Insertion order of uris is preserved.
	AddTracks(ctx context.Context, playlistID string, uris []string, position *int) (string, error)
}

// FeatureStore caches audio feature vectors by track id.
type FeatureStore interface {
	// Get returns the cached features for the given ids. Missing or
	// expired entries are simply absent from the result.
	Get(ctx context.Context, ids []string) (map[string]domain.Features, error)
	Put(ctx context.Context, id string, features domain.Features) error
}
