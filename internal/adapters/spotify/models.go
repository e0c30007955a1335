package spotify

// Wire representations of Spotify API payloads. Only the fields the
// engine reads are declared.

type externalURLs struct {
	Spotify string `json:"spotify"`
}

type artistRefObject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type albumRefObject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type trackObject struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Artists      []artistRefObject `json:"artists"`
	Album        albumRefObject    `json:"album"`
	DurationMs   int               `json:"duration_ms"`
	Popularity   *int              `json:"popularity,omitempty"`
	URI          string            `json:"uri"`
	ExternalURLs externalURLs      `json:"external_urls"`
}

type trackStubObject struct {
	ID string `json:"id"`
}

type artistObject struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
}

// audioFeaturesObject is the full audio analysis summary for one track.
type audioFeaturesObject struct {
	ID               string  `json:"id"`
	Acousticness     float64 `json:"acousticness"`
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Instrumentalness float64 `json:"instrumentalness"`
	Liveness         float64 `json:"liveness"`
	Loudness         float64 `json:"loudness"`
	Speechiness      float64 `json:"speechiness"`
	Valence          float64 `json:"valence"`
	Tempo            float64 `json:"tempo"`
}

// playlistItemObject wraps a playlist or library entry. Track is null
// for removed or local tracks.
type playlistItemObject struct {
	Track *trackObject `json:"track"`
}

type playlistObject struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Public        bool         `json:"public"`
	Collaborative bool         `json:"collaborative"`
	Tracks        struct {
		Total int `json:"total"`
	} `json:"tracks"`
	Owner struct {
		DisplayName string `json:"display_name"`
	} `json:"owner"`
	ExternalURLs externalURLs `json:"external_urls"`
}
