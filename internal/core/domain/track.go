package domain

// ArtistRef is the artist reference carried on a track.
type ArtistRef struct {
	ID   string
	Name string
}

// AlbumRef is the album reference carried on a track.
type AlbumRef struct {
	ID   string
	Name string
}

// Track represents a catalog track in the domain layer.
// It is a read-only pass-through from the catalog service: the engine only
// inspects ID, URI and Artists for scoring and playlist mutation.
type Track struct {
	ID          string
	Name        string
	Artists     []ArtistRef
	Album       AlbumRef
	DurationMs  int
	Popularity  *int // 0-100, absent for some catalog entries
	URI         string
	ExternalURL string
}

// TrackRef is a partial track stub, as returned by album track listings.
// Full detail requires a separate track fetch.
type TrackRef struct {
	ID string
}

// Artist carries the full artist record, including genre tags.
type Artist struct {
	ID     string
	Name   string
	Genres []string
}
