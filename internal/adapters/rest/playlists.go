package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/ewilliams-labs/resonate/internal/core/ports"
)

type playlistPageResponse struct {
	Items []playlistResponse `json:"items"`
	Total int                `json:"total"`
}

// UserPlaylists handles GET /v1/playlists
func (h *Handler) UserPlaylists(w http.ResponseWriter, r *http.Request) {
	page, err := h.engine.UserPlaylists(r.Context(), queryInt(r, "limit"), queryInt(r, "offset"))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	resp := playlistPageResponse{
		Items: make([]playlistResponse, 0, len(page.Items)),
		Total: page.Total,
	}
	for _, p := range page.Items {
		resp.Items = append(resp.Items, toPlaylistResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

// PlaylistTracks handles GET /v1/playlists/{id}/tracks
func (h *Handler) PlaylistTracks(w http.ResponseWriter, r *http.Request) {
	page, err := h.engine.PlaylistTracks(r.Context(), chi.URLParam(r, "id"), queryInt(r, "limit"), queryInt(r, "offset"))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTrackPageResponse(page))
}

type createPlaylistRequest struct {
	Name          string `json:"name" validate:"required"`
	Description   string `json:"description"`
	Public        bool   `json:"public"`
	Collaborative bool   `json:"collaborative"`
}

// CreatePlaylist handles POST /v1/playlists
func (h *Handler) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req createPlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErrorWithCode(w, http.StatusBadRequest, err.Error(), errCodeInvalidRequest)
		return
	}

	ref, err := h.engine.CreatePlaylist(r.Context(), ports.PlaylistSpec{
		Name:          req.Name,
		Description:   req.Description,
		Public:        req.Public,
		Collaborative: req.Collaborative,
	})
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	w.Header().Set("Location", "/v1/playlists/"+ref.ID)
	writeJSON(w, http.StatusCreated, playlistRefResponse{ID: ref.ID, Name: ref.Name, URL: ref.URL})
}

type addTracksRequest struct {
	URIs     []string `json:"uris" validate:"required,min=1,max=100"`
	Position *int     `json:"position" validate:"omitempty,min=0"`
}

type addTracksResponse struct {
	SnapshotID string `json:"snapshot_id"`
}

// AddTracks handles POST /v1/playlists/{id}/tracks
func (h *Handler) AddTracks(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	playlistID := chi.URLParam(r, "id")
	if playlistID == "" {
		writeError(w, http.StatusBadRequest, "playlist id is required")
		return
	}

	var req addTracksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErrorWithCode(w, http.StatusBadRequest, err.Error(), errCodeInvalidRequest)
		return
	}

	snapshot, err := h.engine.AddTracks(r.Context(), playlistID, req.URIs, req.Position)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, addTracksResponse{SnapshotID: snapshot})
}
