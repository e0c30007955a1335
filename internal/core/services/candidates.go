package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ewilliams-labs/resonate/internal/core/domain"
	"github.com/ewilliams-labs/resonate/internal/core/ports"
)

const (
	trackPageSize   = 50 // catalog maximum per page
	artistAlbumMax  = 5  // albums drawn from an artist's discography
	albumTrackLimit = 50
)

// collectCandidates produces a bounded, deduplicated candidate pool for
// the given scope. Catalog scope returns an empty pool: its candidate
// generation is delegated to the recommendation query issued by the
// orchestrator.
func (e *Engine) collectCandidates(ctx context.Context, scope Scope, scopeID string, limit int) ([]domain.Track, error) {
	if scope != ScopeCatalog && scopeID == "" {
		return nil, &ports.MissingScopeIDError{Scope: string(scope)}
	}

	switch scope {
	case ScopeCatalog:
		return nil, nil

	case ScopePlaylist:
		return e.paginateTracks(ctx, limit, func(ctx context.Context, limit, offset int) (ports.TrackPage, error) {
			return e.catalog.PlaylistTracks(ctx, scopeID, limit, offset)
		})

	case ScopeSavedTracks:
		return e.paginateTracks(ctx, limit, e.catalog.SavedTracks)

	case ScopeArtist:
		return e.artistCandidates(ctx, scopeID, limit)

	case ScopeAlbum:
		return e.albumCandidates(ctx, scopeID)

	default:
		return nil, nil
	}
}

// paginateTracks walks a paginated listing until limit tracks are
// gathered or the listing is exhausted. Entries with no resolvable
// track (removed or local tracks) are skipped.
func (e *Engine) paginateTracks(ctx context.Context, limit int, fetch func(ctx context.Context, limit, offset int) (ports.TrackPage, error)) ([]domain.Track, error) {
	var tracks []domain.Track
	offset := 0
	for len(tracks) < limit {
		pageLimit := min(trackPageSize, limit-len(tracks))
		page, err := fetch(ctx, pageLimit, offset)
		if err != nil {
			return nil, err
		}
		if len(page.Items) == 0 {
			break
		}
		for _, item := range page.Items {
			if item.Track != nil {
				tracks = append(tracks, *item.Track)
			}
		}
		offset += len(page.Items)
	}
	return dedupeTracks(tracks), nil
}

// artistCandidates concatenates the artist's top tracks with tracks
// drawn from their first few albums, fetching full detail per album
// track, until limit is reached.
func (e *Engine) artistCandidates(ctx context.Context, artistID string, limit int) ([]domain.Track, error) {
	top, err := e.catalog.ArtistTopTracks(ctx, artistID)
	if err != nil {
		return nil, err
	}
	tracks := append([]domain.Track(nil), top...)

	albums, err := e.catalog.ArtistAlbums(ctx, artistID, 20)
	if err != nil {
		return nil, err
	}
	if len(albums) > artistAlbumMax {
		albums = albums[:artistAlbumMax]
	}

	for _, album := range albums {
		if len(tracks) >= limit {
			break
		}
		stubs, err := e.catalog.AlbumTracks(ctx, album.ID, albumTrackLimit)
		if err != nil {
			return nil, err
		}
		if remaining := limit - len(tracks); len(stubs) > remaining {
			stubs = stubs[:remaining]
		}
		full, err := e.fetchTrackDetails(ctx, stubs)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, full...)
	}

	if len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return dedupeTracks(tracks), nil
}

// albumCandidates fetches the album's track stubs and resolves each to
// full detail; album listings omit fields the scorer needs.
func (e *Engine) albumCandidates(ctx context.Context, albumID string) ([]domain.Track, error) {
	stubs, err := e.catalog.AlbumTracks(ctx, albumID, albumTrackLimit)
	if err != nil {
		return nil, err
	}
	tracks, err := e.fetchTrackDetails(ctx, stubs)
	if err != nil {
		return nil, err
	}
	return dedupeTracks(tracks), nil
}

// fetchTrackDetails resolves track stubs to full tracks with a bounded
// fan-out. Output order matches input order regardless of fetch
// completion order.
func (e *Engine) fetchTrackDetails(ctx context.Context, stubs []domain.TrackRef) ([]domain.Track, error) {
	results := make([]domain.Track, len(stubs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.fanOut)
	for i, stub := range stubs {
		i, stub := i, stub
		g.Go(func() error {
			track, err := e.catalog.Track(gctx, stub.ID)
			if err != nil {
				return err
			}
			results[i] = track
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// dedupeTracks drops duplicate track ids, keeping the first occurrence.
func dedupeTracks(tracks []domain.Track) []domain.Track {
	seen := make(map[string]struct{}, len(tracks))
	deduped := tracks[:0]
	for _, t := range tracks {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		deduped = append(deduped, t)
	}
	return deduped
}
