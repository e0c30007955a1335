package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ewilliams-labs/resonate/internal/core/domain"
	"github.com/ewilliams-labs/resonate/internal/core/ports"
	"github.com/ewilliams-labs/resonate/internal/core/similarity"
)

const sourceGenreTrackMax = 20 // playlist source: leading tracks unioned

// sourceGenres derives the deduplicated genre set for the source
// entity. For a track, it unions the genres of every artist on the
// track; for an artist, the artist's own genre list; for a playlist,
// the union over its leading tracks.
func (e *Engine) sourceGenres(ctx context.Context, trackID, artistID, playlistID string) ([]string, error) {
	switch {
	case trackID != "":
		track, err := e.catalog.Track(ctx, trackID)
		if err != nil {
			return nil, err
		}
		return e.trackGenres(ctx, track), nil

	case artistID != "":
		artist, err := e.catalog.Artist(ctx, artistID)
		if err != nil {
			return nil, err
		}
		return dedupeGenres(artist.Genres), nil

	case playlistID != "":
		page, err := e.catalog.PlaylistTracks(ctx, playlistID, sourceGenreTrackMax, 0)
		if err != nil {
			return nil, err
		}
		var all []string
		for _, item := range page.Items {
			if item.Track == nil {
				continue
			}
			all = append(all, e.trackGenres(ctx, *item.Track)...)
		}
		return dedupeGenres(all), nil
	}

	return nil, ports.ErrMissingSource
}

// trackGenres unions the genre lists of every artist on the track.
// An artist whose fetch fails contributes no genres; partial data is
// acceptable here, so failures are skipped rather than propagated.
func (e *Engine) trackGenres(ctx context.Context, track domain.Track) []string {
	var all []string
	for _, ref := range track.Artists {
		artist, err := e.catalog.Artist(ctx, ref.ID)
		if err != nil {
			e.log.Debug().
				Err(err).
				Str("artist_id", ref.ID).
				Str("track_id", track.ID).
				Msg("skipping artist genre fetch")
			continue
		}
		all = append(all, artist.Genres...)
	}
	return dedupeGenres(all)
}

// scoreByGenre resolves each candidate's genre set and scores it
// against the source genres. Candidates that yield no genres are
// excluded, not scored zero. Genre resolution fans out with a bounded
// concurrency cap; output order follows candidate order.
func (e *Engine) scoreByGenre(ctx context.Context, sourceGenres []string, candidates []domain.Track, minSimilarity *float64) ([]ScoredTrack, error) {
	genreSets := make([][]string, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.fanOut)
	for i, track := range candidates {
		i, track := i, track
		g.Go(func() error {
			genreSets[i] = e.trackGenres(gctx, track)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scored := make([]ScoredTrack, 0, len(candidates))
	for i, track := range candidates {
		genres := genreSets[i]
		if len(genres) == 0 {
			continue
		}
		score := similarity.GenreSimilarity(sourceGenres, genres)
		if minSimilarity != nil && score < *minSimilarity {
			continue
		}
		scored = append(scored, ScoredTrack{Track: track, Similarity: score, Genres: genres})
	}
	return scored, nil
}

// dedupeGenres drops duplicates while preserving first-seen order, which
// keeps downstream partial-match tie-breaks deterministic.
func dedupeGenres(genres []string) []string {
	if len(genres) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(genres))
	deduped := make([]string, 0, len(genres))
	for _, g := range genres {
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		deduped = append(deduped, g)
	}
	return deduped
}
