package spotify

import (
	"github.com/ewilliams-labs/resonate/internal/core/domain"
)

func mapTrack(t trackObject) *domain.Track {
	artists := make([]domain.ArtistRef, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, domain.ArtistRef{ID: a.ID, Name: a.Name})
	}
	return &domain.Track{
		ID:          t.ID,
		Name:        t.Name,
		Artists:     artists,
		Album:       domain.AlbumRef{ID: t.Album.ID, Name: t.Album.Name},
		DurationMs:  t.DurationMs,
		Popularity:  t.Popularity,
		URI:         t.URI,
		ExternalURL: t.ExternalURLs.Spotify,
	}
}

func mapTracks(list []trackObject) []*domain.Track {
	out := make([]*domain.Track, 0, len(list))
	for _, t := range list {
		out = append(out, mapTrack(t))
	}
	return out
}

func mapArtist(a artistObject) *domain.Artist {
	return &domain.Artist{ID: a.ID, Name: a.Name, Genres: a.Genres}
}

func mapFeatures(f audioFeaturesObject) domain.Features {
	return domain.Features{
		domain.FeatureAcousticness:     f.Acousticness,
		domain.FeatureDanceability:     f.Danceability,
		domain.FeatureEnergy:           f.Energy,
		domain.FeatureInstrumentalness: f.Instrumentalness,
		domain.FeatureLiveness:         f.Liveness,
		domain.FeatureLoudness:         f.Loudness,
		domain.FeatureSpeechiness:      f.Speechiness,
		domain.FeatureValence:          f.Valence,
		domain.FeatureTempo:            f.Tempo,
	}
}

func mapPlaylist(p playlistObject) *domain.Playlist {
	return &domain.Playlist{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Public:        p.Public,
		Collaborative: p.Collaborative,
		TrackCount:    p.Tracks.Total,
		Owner:         p.Owner.DisplayName,
		ExternalURL:   p.ExternalURLs.Spotify,
	}
}
