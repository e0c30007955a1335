package spotify

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/ewilliams-labs/resonate/internal/core/domain"
	"github.com/ewilliams-labs/resonate/internal/core/ports"
)

// Track fetches full metadata for one track.
func (c *Client) Track(ctx context.Context, id string) (domain.Track, error) {
	var wire trackObject
	if err := c.getJSON(ctx, "/tracks/"+url.PathEscape(id), nil, &wire); err != nil {
		return domain.Track{}, err
	}
	return *mapTrack(wire), nil
}

// AudioFeatures fetches the feature vector for one track.
func (c *Client) AudioFeatures(ctx context.Context, id string) (domain.Features, error) {
	var wire audioFeaturesObject
	if err := c.getJSON(ctx, "/audio-features/"+url.PathEscape(id), nil, &wire); err != nil {
		return nil, err
	}
	return mapFeatures(wire), nil
}

// AudioFeaturesBatch fetches features for up to 100 tracks in one call.
// The API returns null entries for tracks without analysis; those are
// omitted from the result.
func (c *Client) AudioFeaturesBatch(ctx context.Context, ids []string) (map[string]domain.Features, error) {
	var wire struct {
		AudioFeatures []*audioFeaturesObject `json:"audio_features"`
	}
	q := url.Values{"ids": {strings.Join(ids, ",")}}
	if err := c.getJSON(ctx, "/audio-features", q, &wire); err != nil {
		return nil, err
	}

	out := make(map[string]domain.Features, len(wire.AudioFeatures))
	for _, f := range wire.AudioFeatures {
		if f == nil || f.ID == "" {
			continue
		}
		out[f.ID] = mapFeatures(*f)
	}
	return out, nil
}

// SearchTracks runs a track search with pagination.
func (c *Client) SearchTracks(ctx context.Context, query string, limit, offset int) (ports.TrackPage, error) {
	var wire struct {
		Tracks struct {
			Items []trackObject `json:"items"`
			Total int           `json:"total"`
		} `json:"tracks"`
	}
	q := url.Values{
		"q":      {query},
		"type":   {"track"},
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
	if err := c.getJSON(ctx, "/search", q, &wire); err != nil {
		return ports.TrackPage{}, err
	}

	page := ports.TrackPage{
		Items: make([]ports.TrackEntry, 0, len(wire.Tracks.Items)),
		Total: wire.Tracks.Total,
	}
	for _, t := range wire.Tracks.Items {
		page.Items = append(page.Items, ports.TrackEntry{Track: mapTrack(t)})
	}
	return page, nil
}
