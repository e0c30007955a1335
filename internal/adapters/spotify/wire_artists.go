package spotify

import (
	"context"
	"net/url"
	"strconv"

	"github.com/ewilliams-labs/resonate/internal/core/domain"
)

// Artist fetches artist metadata, including the genre tags the genre
// strategy works from.
func (c *Client) Artist(ctx context.Context, id string) (domain.Artist, error) {
	var wire artistObject
	if err := c.getJSON(ctx, "/artists/"+url.PathEscape(id), nil, &wire); err != nil {
		return domain.Artist{}, err
	}
	return *mapArtist(wire), nil
}

// ArtistTopTracks fetches an artist's most popular tracks.
func (c *Client) ArtistTopTracks(ctx context.Context, id string) ([]domain.Track, error) {
	var wire struct {
		Tracks []trackObject `json:"tracks"`
	}
	q := url.Values{"market": {"US"}}
	if err := c.getJSON(ctx, "/artists/"+url.PathEscape(id)+"/top-tracks", q, &wire); err != nil {
		return nil, err
	}
	return derefTracks(mapTracks(wire.Tracks)), nil
}

// ArtistAlbums lists an artist's albums and singles, newest first.
func (c *Client) ArtistAlbums(ctx context.Context, id string, limit int) ([]domain.AlbumRef, error) {
	var wire struct {
		Items []albumRefObject `json:"items"`
	}
	q := url.Values{
		"limit":          {strconv.Itoa(limit)},
		"include_groups": {"album,single"},
	}
	if err := c.getJSON(ctx, "/artists/"+url.PathEscape(id)+"/albums", q, &wire); err != nil {
		return nil, err
	}

	albums := make([]domain.AlbumRef, 0, len(wire.Items))
	for _, a := range wire.Items {
		albums = append(albums, domain.AlbumRef{ID: a.ID, Name: a.Name})
	}
	return albums, nil
}

// AlbumTracks lists the track ids on an album. The album tracks endpoint
// returns simplified objects, so only ids are surfaced; callers resolve
// full metadata per track.
func (c *Client) AlbumTracks(ctx context.Context, id string, limit int) ([]domain.TrackRef, error) {
	var wire struct {
		Items []trackStubObject `json:"items"`
	}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := c.getJSON(ctx, "/albums/"+url.PathEscape(id)+"/tracks", q, &wire); err != nil {
		return nil, err
	}

	refs := make([]domain.TrackRef, 0, len(wire.Items))
	for _, t := range wire.Items {
		refs = append(refs, domain.TrackRef{ID: t.ID})
	}
	return refs, nil
}

func derefTracks(list []*domain.Track) []domain.Track {
	out := make([]domain.Track, 0, len(list))
	for _, t := range list {
		out = append(out, *t)
	}
	return out
}
