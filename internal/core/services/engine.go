// Package services contains the similarity engine: it resolves a source
// feature vector or genre set, assembles a candidate pool for the
// requested scope, scores and ranks candidates, and optionally
// materializes the result as a playlist.
package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/resonate/internal/core/domain"
	"github.com/ewilliams-labs/resonate/internal/core/ports"
	"github.com/ewilliams-labs/resonate/internal/core/similarity"
)

const (
	defaultCandidatePool = 500
	defaultFanOut        = 5
)

// Engine orchestrates catalog access and similarity scoring.
type Engine struct {
	catalog ports.Catalog
	store   ports.FeatureStore
	warm    func(id string, features domain.Features)
	log     zerolog.Logger

	candidatePool int
	fanOut        int
}

// Option configures an Engine.
type Option func(*Engine)

// WithFeatureStore attaches a read-through cache for audio features.
func WithFeatureStore(store ports.FeatureStore) Option {
	return func(e *Engine) { e.store = store }
}

// WithWarmFunc registers a hook invoked for every freshly fetched
// feature vector, typically to persist it off the request path.
func WithWarmFunc(fn func(id string, features domain.Features)) Option {
	return func(e *Engine) { e.warm = fn }
}

// WithLogger sets the engine logger.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithCandidatePool overrides the internal candidate pool size used for
// non-catalog scopes.
func WithCandidatePool(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.candidatePool = n
		}
	}
}

// WithFanOut caps the number of concurrent catalog calls issued for
// independent item fetches.
func WithFanOut(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.fanOut = n
		}
	}
}

// NewEngine constructs an Engine backed by the given catalog.
func NewEngine(catalog ports.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:       catalog,
		log:           zerolog.Nop(),
		candidatePool: defaultCandidatePool,
		fanOut:        defaultFanOut,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FindSimilar runs the full similarity pipeline: validate, resolve the
// source, collect candidates, score, filter, rank, truncate, and
// optionally materialize the result as a playlist.
//
// Validation failures are reported before any catalog call. Upstream
// failures abort the request; no partial result is returned. Playlist
// mutation happens last, only after a non-empty ranked result exists.
func (e *Engine) FindSimilar(ctx context.Context, req FindSimilarRequest) (FindSimilarResult, error) {
	req = req.withDefaults()
	if err := req.validate(); err != nil {
		return FindSimilarResult{}, err
	}

	var (
		scored []ScoredTrack
		err    error
	)
	if req.Strategy.UsesGenres() {
		scored, err = e.findByGenre(ctx, req)
	} else {
		scored, err = e.findByFeatures(ctx, req)
	}
	if err != nil {
		return FindSimilarResult{}, err
	}

	// Stable sort keeps equal-score candidates in collection order, so
	// identical inputs always rank identically.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	if len(scored) > req.Limit {
		scored = scored[:req.Limit]
	}
	if len(scored) == 0 {
		return FindSimilarResult{}, ports.ErrNoMatchesFound
	}

	result := FindSimilarResult{
		Strategy: req.Strategy,
		Scope:    req.Scope,
		Action:   req.Action,
		Tracks:   scored,
	}
	if req.Action == ActionReturnTracks {
		return result, nil
	}
	if err := e.materialize(ctx, req, &result); err != nil {
		return FindSimilarResult{}, err
	}
	return result, nil
}

func (e *Engine) findByGenre(ctx context.Context, req FindSimilarRequest) ([]ScoredTrack, error) {
	sourceGenres, err := e.sourceGenres(ctx, req.TrackID, req.ArtistID, req.PlaylistID)
	if err != nil {
		return nil, err
	}
	if len(sourceGenres) == 0 {
		return nil, ports.ErrNoGenresFound
	}

	candidates, err := e.collectCandidates(ctx, req.Scope, req.ScopeID, e.candidatePool)
	if err != nil {
		return nil, err
	}
	e.log.Debug().
		Int("candidates", len(candidates)).
		Strs("source_genres", sourceGenres).
		Msg("scoring candidates by genre overlap")

	return e.scoreByGenre(ctx, sourceGenres, candidates, req.MinSimilarity)
}

func (e *Engine) findByFeatures(ctx context.Context, req FindSimilarRequest) ([]ScoredTrack, error) {
	sourceFeatures, err := e.sourceFeatures(ctx, req.TrackID, req.ArtistID, req.PlaylistID)
	if err != nil {
		return nil, err
	}

	var candidates []domain.Track
	if req.Scope == ScopeCatalog {
		// The recommendation query does the candidate generation for
		// catalog scope; every returned track is still re-scored locally
		// so reported scores are consistent across scopes.
		candidates, err = e.catalogCandidates(ctx, req, sourceFeatures)
	} else {
		candidates, err = e.collectCandidates(ctx, req.Scope, req.ScopeID, e.candidatePool)
	}
	if err != nil {
		return nil, err
	}
	e.log.Debug().
		Int("candidates", len(candidates)).
		Str("strategy", req.Strategy.String()).
		Msg("scoring candidates by audio features")

	return e.scoreByFeatures(ctx, sourceFeatures, candidates, req)
}

// catalogCandidates issues one recommendation query seeded by the source
// id, with the source's feature values as tunable targets.
func (e *Engine) catalogCandidates(ctx context.Context, req FindSimilarRequest, source domain.Features) ([]domain.Track, error) {
	q := ports.RecommendationQuery{
		Limit:    req.Limit,
		Tunables: map[string]ports.Tunable{},
	}
	if req.TrackID != "" {
		q.SeedTracks = []string{req.TrackID}
	} else if req.ArtistID != "" {
		q.SeedArtists = []string{req.ArtistID}
	}

	for _, dim := range []string{
		domain.FeatureAcousticness,
		domain.FeatureDanceability,
		domain.FeatureEnergy,
		domain.FeatureInstrumentalness,
		domain.FeatureValence,
		domain.FeatureTempo,
	} {
		if v, ok := source[dim]; ok {
			target := v
			q.Tunables[dim] = ports.Tunable{Target: &target}
		}
	}

	return e.catalog.Recommendations(ctx, q)
}

func (e *Engine) scoreByFeatures(ctx context.Context, source domain.Features, candidates []domain.Track, req FindSimilarRequest) ([]ScoredTrack, error) {
	ids := make([]string, len(candidates))
	for i, t := range candidates {
		ids[i] = t.ID
	}
	featureMap, err := e.audioFeaturesFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	scored := make([]ScoredTrack, 0, len(candidates))
	for _, t := range candidates {
		features, ok := featureMap[t.ID]
		if !ok {
			// Candidates lacking features are excluded, not scored zero.
			continue
		}
		score, err := similarity.Score(source, features, req.Strategy, req.Weights)
		if err != nil {
			return nil, err
		}
		if req.MinSimilarity != nil && score < *req.MinSimilarity {
			continue
		}
		scored = append(scored, ScoredTrack{Track: t, Similarity: score})
	}
	return scored, nil
}

func (e *Engine) materialize(ctx context.Context, req FindSimilarRequest, result *FindSimilarResult) error {
	uris := make([]string, len(result.Tracks))
	for i, st := range result.Tracks {
		uris[i] = st.Track.URI
	}

	switch req.Action {
	case ActionCreatePlaylist:
		ref, err := e.catalog.CreatePlaylist(ctx, ports.PlaylistSpec{
			Name:        req.PlaylistName,
			Description: fmt.Sprintf("Similar tracks found using the %s strategy", req.Strategy),
			Public:      false,
		})
		if err != nil {
			return err
		}
		snapshot, err := e.catalog.AddTracks(ctx, ref.ID, uris, nil)
		if err != nil {
			// The playlist exists but is empty; the catalog offers no
			// rollback, so surface the partial outcome.
			return &ports.PlaylistPartialError{Playlist: ref, Err: err}
		}
		result.Playlist = &ref
		result.SnapshotID = snapshot
		result.TracksAdded = len(uris)

	case ActionAddToPlaylist:
		snapshot, err := e.catalog.AddTracks(ctx, req.TargetPlaylistID, uris, nil)
		if err != nil {
			return err
		}
		result.SnapshotID = snapshot
		result.TracksAdded = len(uris)
	}
	return nil
}
