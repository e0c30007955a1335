package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ewilliams-labs/resonate/internal/core/domain"
)

const featureBatchSize = 100 // catalog maximum per batch call

// audioFeaturesFor fetches feature vectors for the given track ids,
// consulting the feature store first when one is attached. Uncached ids
// are fetched in batches; a failed batch falls back to per-track
// fetches so one bad id cannot void the whole batch. Tracks whose
// features remain unavailable are simply absent from the result.
func (e *Engine) audioFeaturesFor(ctx context.Context, ids []string) (map[string]domain.Features, error) {
	features := make(map[string]domain.Features, len(ids))

	missing := ids
	if e.store != nil {
		cached, err := e.store.Get(ctx, ids)
		if err != nil {
			e.log.Warn().Err(err).Msg("feature cache read failed")
		} else {
			missing = make([]string, 0, len(ids))
			for _, id := range ids {
				if f, ok := cached[id]; ok {
					features[id] = f
				} else {
					missing = append(missing, id)
				}
			}
		}
	}

	for start := 0; start < len(missing); start += featureBatchSize {
		batch := missing[start:min(start+featureBatchSize, len(missing))]

		fetched, err := e.catalog.AudioFeaturesBatch(ctx, batch)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			e.log.Warn().
				Err(err).
				Int("batch_size", len(batch)).
				Msg("feature batch failed, retrying per track")
			fetched, err = e.featuresPerTrack(ctx, batch)
			if err != nil {
				return nil, err
			}
		}

		for id, f := range fetched {
			features[id] = f
			if e.warm != nil {
				e.warm(id, f)
			}
		}
	}

	return features, nil
}

// featuresPerTrack fetches features one track at a time with a bounded
// fan-out, skipping tracks that fail. Only cancellation aborts.
func (e *Engine) featuresPerTrack(ctx context.Context, ids []string) (map[string]domain.Features, error) {
	results := make([]domain.Features, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.fanOut)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			f, err := e.catalog.AudioFeatures(gctx, id)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				e.log.Debug().Err(err).Str("track_id", id).Msg("skipping track features")
				return nil
			}
			results[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fetched := make(map[string]domain.Features, len(ids))
	for i, id := range ids {
		if results[i] != nil {
			fetched[id] = results[i]
		}
	}
	return fetched, nil
}
