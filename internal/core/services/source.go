package services

import (
	"context"

	"github.com/ewilliams-labs/resonate/internal/core/domain"
	"github.com/ewilliams-labs/resonate/internal/core/ports"
)

const (
	sourceTopTrackMax      = 10 // artist source: top tracks averaged
	sourcePlaylistTrackMax = 20 // playlist source: leading tracks averaged
)

// sourceFeatures derives the representative feature vector for the
// source entity: direct features for a track, the average over the
// artist's top tracks, or the average over the playlist's leading
// tracks. Exactly one id is used, in track > artist > playlist order.
func (e *Engine) sourceFeatures(ctx context.Context, trackID, artistID, playlistID string) (domain.Features, error) {
	switch {
	case trackID != "":
		return e.catalog.AudioFeatures(ctx, trackID)

	case artistID != "":
		top, err := e.catalog.ArtistTopTracks(ctx, artistID)
		if err != nil {
			return nil, err
		}
		if len(top) > sourceTopTrackMax {
			top = top[:sourceTopTrackMax]
		}
		return e.averageTrackFeatures(ctx, top)

	case playlistID != "":
		page, err := e.catalog.PlaylistTracks(ctx, playlistID, sourcePlaylistTrackMax, 0)
		if err != nil {
			return nil, err
		}
		tracks := make([]domain.Track, 0, len(page.Items))
		for _, item := range page.Items {
			if item.Track != nil {
				tracks = append(tracks, *item.Track)
			}
		}
		return e.averageTrackFeatures(ctx, tracks)
	}

	return nil, ports.ErrMissingSource
}

func (e *Engine) averageTrackFeatures(ctx context.Context, tracks []domain.Track) (domain.Features, error) {
	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	featureMap, err := e.audioFeaturesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	// Sum in collection order so the average is bit-identical across runs.
	list := make([]domain.Features, 0, len(featureMap))
	seen := make(map[string]bool, len(featureMap))
	for _, id := range ids {
		if f, ok := featureMap[id]; ok && !seen[id] {
			seen[id] = true
			list = append(list, f)
		}
	}
	return domain.AverageFeatures(list)
}
