package rest

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/ewilliams-labs/resonate/internal/core/services"
	"github.com/ewilliams-labs/resonate/internal/core/similarity"
)

type findSimilarRequest struct {
	TrackID    string `json:"track_id"`
	ArtistID   string `json:"artist_id"`
	PlaylistID string `json:"playlist_id"`

	Strategy string             `json:"strategy" validate:"omitempty,oneof=euclidean weighted cosine manhattan energy_match mood_match rhythm_match genre_match"`
	Weights  map[string]float64 `json:"weights"`

	Scope   string `json:"scope" validate:"omitempty,oneof=catalog playlist artist album saved_tracks"`
	ScopeID string `json:"scope_id"`

	Limit         int      `json:"limit" validate:"omitempty,min=1,max=100"`
	MinSimilarity *float64 `json:"min_similarity" validate:"omitempty,min=0,max=1"`

	Action           string `json:"action" validate:"omitempty,oneof=return_tracks create_playlist add_to_playlist"`
	PlaylistName     string `json:"playlist_name"`
	TargetPlaylistID string `json:"target_playlist_id"`
}

type findSimilarResponse struct {
	Strategy string                `json:"strategy"`
	Scope    string                `json:"scope"`
	Tracks   []scoredTrackResponse `json:"tracks"`

	Action      string               `json:"action"`
	Playlist    *playlistRefResponse `json:"playlist,omitempty"`
	SnapshotID  string               `json:"snapshot_id,omitempty"`
	TracksAdded int                  `json:"tracks_added,omitempty"`
}

// FindSimilar handles POST /v1/similar
func (h *Handler) FindSimilar(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req findSimilarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErrorWithCode(w, http.StatusBadRequest, err.Error(), errCodeInvalidRequest)
		return
	}

	result, err := h.engine.FindSimilar(r.Context(), services.FindSimilarRequest{
		TrackID:          req.TrackID,
		ArtistID:         req.ArtistID,
		PlaylistID:       req.PlaylistID,
		Strategy:         similarity.Strategy(req.Strategy),
		Weights:          similarity.Weights(req.Weights),
		Scope:            services.Scope(req.Scope),
		ScopeID:          req.ScopeID,
		Limit:            req.Limit,
		MinSimilarity:    req.MinSimilarity,
		Action:           services.Action(req.Action),
		PlaylistName:     req.PlaylistName,
		TargetPlaylistID: req.TargetPlaylistID,
	})
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	resp := findSimilarResponse{
		Strategy:    result.Strategy.String(),
		Scope:       string(result.Scope),
		Tracks:      toScoredTrackResponses(result.Tracks),
		Action:      string(result.Action),
		SnapshotID:  result.SnapshotID,
		TracksAdded: result.TracksAdded,
	}
	if result.Playlist != nil {
		resp.Playlist = &playlistRefResponse{
			ID:   result.Playlist.ID,
			Name: result.Playlist.Name,
			URL:  result.Playlist.URL,
		}
	}

	status := http.StatusOK
	if result.Playlist != nil {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}
