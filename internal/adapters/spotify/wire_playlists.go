package spotify

import (
	"context"
	"net/url"
	"strconv"

	"github.com/ewilliams-labs/resonate/internal/core/domain"
	"github.com/ewilliams-labs/resonate/internal/core/ports"
)

// PlaylistTracks fetches one page of a playlist. Entries whose track is
// null (removed or local tracks) are surfaced with a nil Track so
// callers can account for them when paginating.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string, limit, offset int) (ports.TrackPage, error) {
	var wire struct {
		Items []playlistItemObject `json:"items"`
		Total int                  `json:"total"`
	}
	q := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
	if err := c.getJSON(ctx, "/playlists/"+url.PathEscape(playlistID)+"/tracks", q, &wire); err != nil {
		return ports.TrackPage{}, err
	}
	return mapTrackPage(wire.Items, wire.Total), nil
}

// UserPlaylists fetches one page of the current user's playlists.
func (c *Client) UserPlaylists(ctx context.Context, limit, offset int) (ports.PlaylistPage, error) {
	var wire struct {
		Items []playlistObject `json:"items"`
		Total int              `json:"total"`
	}
	q := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
	if err := c.getJSON(ctx, "/me/playlists", q, &wire); err != nil {
		return ports.PlaylistPage{}, err
	}

	page := ports.PlaylistPage{
		Items: make([]domain.Playlist, 0, len(wire.Items)),
		Total: wire.Total,
	}
	for _, p := range wire.Items {
		page.Items = append(page.Items, *mapPlaylist(p))
	}
	return page, nil
}

// CreatePlaylist creates a playlist owned by the current user. The API
// requires the owner id in the path, so the profile is resolved first.
func (c *Client) CreatePlaylist(ctx context.Context, spec ports.PlaylistSpec) (domain.PlaylistRef, error) {
	var me struct {
		ID string `json:"id"`
	}
	if err := c.getJSON(ctx, "/me", nil, &me); err != nil {
		return domain.PlaylistRef{}, err
	}

	body := map[string]any{
		"name":          spec.Name,
		"description":   spec.Description,
		"public":        spec.Public,
		"collaborative": spec.Collaborative,
	}
	var wire playlistObject
	if err := c.postJSON(ctx, "/users/"+url.PathEscape(me.ID)+"/playlists", body, &wire); err != nil {
		return domain.PlaylistRef{}, err
	}
	return domain.PlaylistRef{
		ID:   wire.ID,
		Name: wire.Name,
		URL:  wire.ExternalURLs.Spotify,
	}, nil
}

// AddTracks appends tracks to a playlist, or inserts them at position
// when given, and returns the playlist's new snapshot id.
func (c *Client) AddTracks(ctx context.Context, playlistID string, uris []string, position *int) (string, error) {
	body := map[string]any{"uris": uris}
	if position != nil {
		body["position"] = *position
	}
	var wire struct {
		SnapshotID string `json:"snapshot_id"`
	}
	if err := c.postJSON(ctx, "/playlists/"+url.PathEscape(playlistID)+"/tracks", body, &wire); err != nil {
		return "", err
	}
	return wire.SnapshotID, nil
}

func mapTrackPage(items []playlistItemObject, total int) ports.TrackPage {
	page := ports.TrackPage{
		Items: make([]ports.TrackEntry, 0, len(items)),
		Total: total,
	}
	for _, item := range items {
		entry := ports.TrackEntry{}
		if item.Track != nil {
			entry.Track = mapTrack(*item.Track)
		}
		page.Items = append(page.Items, entry)
	}
	return page
}
