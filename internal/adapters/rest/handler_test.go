package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	json "github.com/goccy/go-json"

	"github.com/ewilliams-labs/resonate/internal/core/domain"
	"github.com/ewilliams-labs/resonate/internal/core/ports"
	"github.com/ewilliams-labs/resonate/internal/core/services"
)

// stubCatalog backs the handler tests with a tiny in-memory catalog.
type stubCatalog struct {
	tracks   map[string]domain.Track
	features map[string]domain.Features
	playlist []ports.TrackEntry
}

var _ ports.Catalog = (*stubCatalog)(nil)

func (s *stubCatalog) Track(ctx context.Context, id string) (domain.Track, error) {
	track, ok := s.tracks[id]
	if !ok {
		return domain.Track{}, &ports.UpstreamError{Kind: ports.UpstreamNotFound, Status: 404}
	}
	return track, nil
}

func (s *stubCatalog) Artist(ctx context.Context, id string) (domain.Artist, error) {
	return domain.Artist{}, &ports.UpstreamError{Kind: ports.UpstreamNotFound, Status: 404}
}

func (s *stubCatalog) ArtistTopTracks(ctx context.Context, id string) ([]domain.Track, error) {
	return nil, nil
}

func (s *stubCatalog) ArtistAlbums(ctx context.Context, id string, limit int) ([]domain.AlbumRef, error) {
	return nil, nil
}

func (s *stubCatalog) AlbumTracks(ctx context.Context, id string, limit int) ([]domain.TrackRef, error) {
	return nil, nil
}

func (s *stubCatalog) AudioFeatures(ctx context.Context, id string) (domain.Features, error) {
	features, ok := s.features[id]
	if !ok {
		return nil, &ports.UpstreamError{Kind: ports.UpstreamNotFound, Status: 404}
	}
	return features, nil
}

func (s *stubCatalog) AudioFeaturesBatch(ctx context.Context, ids []string) (map[string]domain.Features, error) {
	out := make(map[string]domain.Features)
	for _, id := range ids {
		if f, ok := s.features[id]; ok {
			out[id] = f
		}
	}
	return out, nil
}

func (s *stubCatalog) PlaylistTracks(ctx context.Context, playlistID string, limit, offset int) (ports.TrackPage, error) {
	if playlistID != "pl-1" {
		return ports.TrackPage{}, nil
	}
	page := ports.TrackPage{Total: len(s.playlist)}
	if offset < len(s.playlist) {
		end := min(offset+limit, len(s.playlist))
		page.Items = s.playlist[offset:end]
	}
	return page, nil
}

func (s *stubCatalog) SavedTracks(ctx context.Context, limit, offset int) (ports.TrackPage, error) {
	return ports.TrackPage{}, nil
}

func (s *stubCatalog) SearchTracks(ctx context.Context, query string, limit, offset int) (ports.TrackPage, error) {
	return ports.TrackPage{}, nil
}

func (s *stubCatalog) UserPlaylists(ctx context.Context, limit, offset int) (ports.PlaylistPage, error) {
	return ports.PlaylistPage{}, nil
}

func (s *stubCatalog) Recommendations(ctx context.Context, q ports.RecommendationQuery) ([]domain.Track, error) {
	return nil, nil
}

func (s *stubCatalog) CreatePlaylist(ctx context.Context, spec ports.PlaylistSpec) (domain.PlaylistRef, error) {
	return domain.PlaylistRef{ID: "pl-new", Name: spec.Name}, nil
}

func (s *stubCatalog) AddTracks(ctx context.Context, playlistID string, uris []string, position *int) (string, error) {
	return "snap-1", nil
}

func fullVector(energy float64) domain.Features {
	return domain.Features{
		domain.FeatureAcousticness:     0.5,
		domain.FeatureDanceability:     0.5,
		domain.FeatureEnergy:           energy,
		domain.FeatureInstrumentalness: 0.5,
		domain.FeatureLiveness:         0.5,
		domain.FeatureLoudness:         -30.0,
		domain.FeatureSpeechiness:      0.5,
		domain.FeatureValence:          0.5,
		domain.FeatureTempo:            120.0,
	}
}

func newTestHandler() *Handler {
	catalog := &stubCatalog{
		tracks:   map[string]domain.Track{},
		features: map[string]domain.Features{},
	}
	for i, energy := range []float64{0.5, 0.5, 0.9} {
		id := fmt.Sprintf("t%d", i)
		track := domain.Track{ID: id, Name: "track " + id, URI: "spotify:track:" + id}
		catalog.tracks[id] = track
		catalog.features[id] = fullVector(energy)
		if i > 0 {
			t := track
			catalog.playlist = append(catalog.playlist, ports.TrackEntry{Track: &t})
		}
	}
	engine := services.NewEngine(catalog)
	return NewHandler(engine, zerolog.Nop())
}

func doJSONRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	rec := doJSONRequest(t, newTestHandler(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestFindSimilarRejectsNonJSON(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/v1/similar", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestFindSimilarRejectsBadBody(t *testing.T) {
	rec := doJSONRequest(t, newTestHandler(), http.MethodPost, "/v1/similar", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFindSimilarRejectsUnknownStrategy(t *testing.T) {
	rec := doJSONRequest(t, newTestHandler(), http.MethodPost, "/v1/similar",
		`{"track_id": "t0", "strategy": "psychic_match"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFindSimilarRejectsMissingSource(t *testing.T) {
	rec := doJSONRequest(t, newTestHandler(), http.MethodPost, "/v1/similar", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, errCodeInvalidRequest, resp.Error.Code)
}

func TestFindSimilarReturnsRankedTracks(t *testing.T) {
	rec := doJSONRequest(t, newTestHandler(), http.MethodPost, "/v1/similar",
		`{"track_id": "t0", "scope": "playlist", "scope_id": "pl-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp findSimilarResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "euclidean", resp.Strategy)
	require.Len(t, resp.Tracks, 2)
	// t1 shares t0's vector, t2 differs in energy.
	assert.Equal(t, "t1", resp.Tracks[0].ID)
	assert.Equal(t, "t2", resp.Tracks[1].ID)
	assert.Greater(t, resp.Tracks[0].Similarity, resp.Tracks[1].Similarity)
}

func TestFindSimilarNoMatchesIs404(t *testing.T) {
	rec := doJSONRequest(t, newTestHandler(), http.MethodPost, "/v1/similar",
		`{"track_id": "t0", "scope": "playlist", "scope_id": "pl-empty"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, errCodeNoMatches, resp.Error.Code)
}

func TestFindSimilarCreatePlaylistIs201(t *testing.T) {
	rec := doJSONRequest(t, newTestHandler(), http.MethodPost, "/v1/similar",
		`{"track_id": "t0", "scope": "playlist", "scope_id": "pl-1", "action": "create_playlist", "playlist_name": "mix"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp findSimilarResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Playlist)
	assert.Equal(t, "pl-new", resp.Playlist.ID)
	assert.Equal(t, 2, resp.TracksAdded)
}

func TestGetTrack(t *testing.T) {
	rec := doJSONRequest(t, newTestHandler(), http.MethodGet, "/v1/tracks/t0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"track t0"`)

	rec = doJSONRequest(t, newTestHandler(), http.MethodGet, "/v1/tracks/none", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePlaylistValidation(t *testing.T) {
	h := newTestHandler()

	rec := doJSONRequest(t, h, http.MethodPost, "/v1/playlists", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSONRequest(t, h, http.MethodPost, "/v1/playlists",
		`{"name": "mix", "public": true, "collaborative": true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSONRequest(t, h, http.MethodPost, "/v1/playlists", `{"name": "mix"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/v1/playlists/pl-new", rec.Header().Get("Location"))
}

func TestAudioFeaturesValidation(t *testing.T) {
	rec := doJSONRequest(t, newTestHandler(), http.MethodPost, "/v1/audio-features", `{"track_ids": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSONRequest(t, newTestHandler(), http.MethodPost, "/v1/audio-features", `{"track_ids": ["t0"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"energy"`)
}

func TestRequestIDMiddleware(t *testing.T) {
	rec := doJSONRequest(t, newTestHandler(), http.MethodGet, "/healthz", "")
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "given-id")
	out := httptest.NewRecorder()
	h.ServeHTTP(out, req)
	assert.Equal(t, "given-id", out.Header().Get(requestIDHeader))
}
