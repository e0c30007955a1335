package rest

import (
	"github.com/ewilliams-labs/resonate/internal/core/domain"
	"github.com/ewilliams-labs/resonate/internal/core/ports"
	"github.com/ewilliams-labs/resonate/internal/core/services"
)

type artistRefResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type albumRefResponse struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type trackResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Artists     []artistRefResponse `json:"artists"`
	Album       albumRefResponse    `json:"album"`
	DurationMs  int                 `json:"duration_ms"`
	Popularity  *int                `json:"popularity,omitempty"`
	URI         string              `json:"uri"`
	ExternalURL string              `json:"external_url,omitempty"`
}

type scoredTrackResponse struct {
	trackResponse
	Similarity float64  `json:"similarity"`
	Genres     []string `json:"genres,omitempty"`
}

type playlistRefResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

type playlistResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Public        bool   `json:"public"`
	Collaborative bool   `json:"collaborative"`
	TrackCount    int    `json:"track_count"`
	Owner         string `json:"owner,omitempty"`
	ExternalURL   string `json:"external_url,omitempty"`
}

type trackPageResponse struct {
	Items []trackResponse `json:"items"`
	Total int             `json:"total"`
}

func toTrackResponse(t domain.Track) trackResponse {
	artists := make([]artistRefResponse, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, artistRefResponse{ID: a.ID, Name: a.Name})
	}
	return trackResponse{
		ID:          t.ID,
		Name:        t.Name,
		Artists:     artists,
		Album:       albumRefResponse{ID: t.Album.ID, Name: t.Album.Name},
		DurationMs:  t.DurationMs,
		Popularity:  t.Popularity,
		URI:         t.URI,
		ExternalURL: t.ExternalURL,
	}
}

func toScoredTrackResponses(list []services.ScoredTrack) []scoredTrackResponse {
	out := make([]scoredTrackResponse, 0, len(list))
	for _, st := range list {
		out = append(out, scoredTrackResponse{
			trackResponse: toTrackResponse(st.Track),
			Similarity:    st.Similarity,
			Genres:        st.Genres,
		})
	}
	return out
}

func toTrackPageResponse(page ports.TrackPage) trackPageResponse {
	out := trackPageResponse{
		Items: make([]trackResponse, 0, len(page.Items)),
		Total: page.Total,
	}
	for _, entry := range page.Items {
		if entry.Track == nil {
			continue
		}
		out.Items = append(out.Items, toTrackResponse(*entry.Track))
	}
	return out
}

func toPlaylistResponse(p domain.Playlist) playlistResponse {
	return playlistResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Public:        p.Public,
		Collaborative: p.Collaborative,
		TrackCount:    p.TrackCount,
		Owner:         p.Owner,
		ExternalURL:   p.ExternalURL,
	}
}
