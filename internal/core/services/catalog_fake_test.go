package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ewilliams-labs/resonate/internal/core/domain"
	"github.com/ewilliams-labs/resonate/internal/core/ports"
)

// fakeCatalog is an in-memory Catalog for engine tests.
type fakeCatalog struct {
	mu sync.Mutex

	tracks          map[string]domain.Track
	features        map[string]domain.Features
	artists         map[string]domain.Artist
	topTracks       map[string][]domain.Track
	artistAlbums    map[string][]domain.AlbumRef
	albumTracks     map[string][]domain.TrackRef
	playlists       map[string][]ports.TrackEntry
	saved           []ports.TrackEntry
	recommendations []domain.Track

	batchErr     error
	featuresErr  error
	addTracksErr error

	calls           atomic.Int64
	createdPlaylist *ports.PlaylistSpec
	addedTo         string
	addedURIs       []string
	lastRecQuery    *ports.RecommendationQuery
}

var _ ports.Catalog = (*fakeCatalog)(nil)

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		tracks:       map[string]domain.Track{},
		features:     map[string]domain.Features{},
		artists:      map[string]domain.Artist{},
		topTracks:    map[string][]domain.Track{},
		artistAlbums: map[string][]domain.AlbumRef{},
		albumTracks:  map[string][]domain.TrackRef{},
		playlists:    map[string][]ports.TrackEntry{},
	}
}

func (f *fakeCatalog) addTrack(id string, features domain.Features, artistIDs ...string) domain.Track {
	refs := make([]domain.ArtistRef, 0, len(artistIDs))
	for _, aid := range artistIDs {
		refs = append(refs, domain.ArtistRef{ID: aid, Name: "artist " + aid})
	}
	track := domain.Track{
		ID:      id,
		Name:    "track " + id,
		Artists: refs,
		URI:     "spotify:track:" + id,
	}
	f.tracks[id] = track
	if features != nil {
		f.features[id] = features
	}
	return track
}

func (f *fakeCatalog) Track(ctx context.Context, id string) (domain.Track, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	track, ok := f.tracks[id]
	if !ok {
		return domain.Track{}, &ports.UpstreamError{Kind: ports.UpstreamNotFound, Status: 404}
	}
	return track, nil
}

func (f *fakeCatalog) Artist(ctx context.Context, id string) (domain.Artist, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	artist, ok := f.artists[id]
	if !ok {
		return domain.Artist{}, &ports.UpstreamError{Kind: ports.UpstreamNotFound, Status: 404}
	}
	return artist, nil
}

func (f *fakeCatalog) ArtistTopTracks(ctx context.Context, id string) ([]domain.Track, error) {
	f.calls.Add(1)
	return f.topTracks[id], nil
}

func (f *fakeCatalog) ArtistAlbums(ctx context.Context, id string, limit int) ([]domain.AlbumRef, error) {
	f.calls.Add(1)
	albums := f.artistAlbums[id]
	if len(albums) > limit {
		albums = albums[:limit]
	}
	return albums, nil
}

func (f *fakeCatalog) AlbumTracks(ctx context.Context, id string, limit int) ([]domain.TrackRef, error) {
	f.calls.Add(1)
	stubs := f.albumTracks[id]
	if len(stubs) > limit {
		stubs = stubs[:limit]
	}
	return stubs, nil
}

func (f *fakeCatalog) AudioFeatures(ctx context.Context, id string) (domain.Features, error) {
	f.calls.Add(1)
	if f.featuresErr != nil {
		return nil, f.featuresErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	features, ok := f.features[id]
	if !ok {
		return nil, &ports.UpstreamError{Kind: ports.UpstreamNotFound, Status: 404}
	}
	return features, nil
}

func (f *fakeCatalog) AudioFeaturesBatch(ctx context.Context, ids []string) (map[string]domain.Features, error) {
	f.calls.Add(1)
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]domain.Features)
	for _, id := range ids {
		if features, ok := f.features[id]; ok {
			out[id] = features
		}
	}
	return out, nil
}

func pageOf(entries []ports.TrackEntry, limit, offset int) ports.TrackPage {
	page := ports.TrackPage{Total: len(entries)}
	if offset >= len(entries) {
		return page
	}
	end := min(offset+limit, len(entries))
	page.Items = entries[offset:end]
	return page
}

func (f *fakeCatalog) PlaylistTracks(ctx context.Context, playlistID string, limit, offset int) (ports.TrackPage, error) {
	f.calls.Add(1)
	entries, ok := f.playlists[playlistID]
	if !ok {
		return ports.TrackPage{}, &ports.UpstreamError{Kind: ports.UpstreamNotFound, Status: 404}
	}
	return pageOf(entries, limit, offset), nil
}

func (f *fakeCatalog) SavedTracks(ctx context.Context, limit, offset int) (ports.TrackPage, error) {
	f.calls.Add(1)
	return pageOf(f.saved, limit, offset), nil
}

func (f *fakeCatalog) SearchTracks(ctx context.Context, query string, limit, offset int) (ports.TrackPage, error) {
	f.calls.Add(1)
	var entries []ports.TrackEntry
	for id := range f.tracks {
		track := f.tracks[id]
		entries = append(entries, ports.TrackEntry{Track: &track})
	}
	return pageOf(entries, limit, offset), nil
}

func (f *fakeCatalog) UserPlaylists(ctx context.Context, limit, offset int) (ports.PlaylistPage, error) {
	f.calls.Add(1)
	return ports.PlaylistPage{}, nil
}

func (f *fakeCatalog) Recommendations(ctx context.Context, q ports.RecommendationQuery) ([]domain.Track, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastRecQuery = &q
	return f.recommendations, nil
}

func (f *fakeCatalog) CreatePlaylist(ctx context.Context, spec ports.PlaylistSpec) (domain.PlaylistRef, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdPlaylist = &spec
	return domain.PlaylistRef{ID: "pl-new", Name: spec.Name, URL: "https://open.spotify.com/playlist/pl-new"}, nil
}

func (f *fakeCatalog) AddTracks(ctx context.Context, playlistID string, uris []string, position *int) (string, error) {
	f.calls.Add(1)
	if f.addTracksErr != nil {
		return "", f.addTracksErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addedTo = playlistID
	f.addedURIs = append([]string(nil), uris...)
	return fmt.Sprintf("snapshot-%d", len(uris)), nil
}

// fakeStore is an in-memory FeatureStore.
type fakeStore struct {
	mu      sync.Mutex
	data    map[string]domain.Features
	getErr  error
	putErr  error
	getIDs  [][]string
	putSeen []string
}

var _ ports.FeatureStore = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]domain.Features{}}
}

func (s *fakeStore) Get(ctx context.Context, ids []string) (map[string]domain.Features, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	s.getIDs = append(s.getIDs, ids)
	out := make(map[string]domain.Features)
	for _, id := range ids {
		if f, ok := s.data[id]; ok {
			out[id] = f
		}
	}
	return out, nil
}

func (s *fakeStore) Put(ctx context.Context, id string, features domain.Features) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	s.data[id] = features
	s.putSeen = append(s.putSeen, id)
	return nil
}
