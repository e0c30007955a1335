package domain

// PlaylistRef identifies a playlist created or mutated via the catalog.
type PlaylistRef struct {
	ID   string
	Name string
	URL  string
}

// Playlist carries playlist metadata as listed from the user's library.
type Playlist struct {
	ID            string
	Name          string
	Description   string
	Public        bool
	Collaborative bool
	TrackCount    int
	Owner         string
	ExternalURL   string
}
