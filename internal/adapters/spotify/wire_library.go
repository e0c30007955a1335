package spotify

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/ewilliams-labs/resonate/internal/core/domain"
	"github.com/ewilliams-labs/resonate/internal/core/ports"
)

// SavedTracks fetches one page of the user's saved tracks library.
func (c *Client) SavedTracks(ctx context.Context, limit, offset int) (ports.TrackPage, error) {
	var wire struct {
		Items []playlistItemObject `json:"items"`
		Total int                  `json:"total"`
	}
	q := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
	if err := c.getJSON(ctx, "/me/tracks", q, &wire); err != nil {
		return ports.TrackPage{}, err
	}
	return mapTrackPage(wire.Items, wire.Total), nil
}

// Recommendations fetches catalog-wide recommendations for the given
// seeds and tunable attribute constraints.
func (c *Client) Recommendations(ctx context.Context, query ports.RecommendationQuery) ([]domain.Track, error) {
	q := url.Values{}
	if len(query.SeedTracks) > 0 {
		q.Set("seed_tracks", strings.Join(query.SeedTracks, ","))
	}
	if len(query.SeedArtists) > 0 {
		q.Set("seed_artists", strings.Join(query.SeedArtists, ","))
	}
	if len(query.SeedGenres) > 0 {
		q.Set("seed_genres", strings.Join(query.SeedGenres, ","))
	}
	if query.Limit > 0 {
		q.Set("limit", strconv.Itoa(query.Limit))
	}
	for attr, tunable := range query.Tunables {
		if tunable.Min != nil {
			q.Set("min_"+attr, formatTunable(*tunable.Min))
		}
		if tunable.Max != nil {
			q.Set("max_"+attr, formatTunable(*tunable.Max))
		}
		if tunable.Target != nil {
			q.Set("target_"+attr, formatTunable(*tunable.Target))
		}
	}

	var wire struct {
		Tracks []trackObject `json:"tracks"`
	}
	if err := c.getJSON(ctx, "/recommendations", q, &wire); err != nil {
		return nil, err
	}
	return derefTracks(mapTracks(wire.Tracks)), nil
}

func formatTunable(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
