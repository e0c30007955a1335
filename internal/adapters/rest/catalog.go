package rest

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/ewilliams-labs/resonate/internal/core/domain"
	"github.com/ewilliams-labs/resonate/internal/core/ports"
	"github.com/ewilliams-labs/resonate/internal/core/services"
)

type tunableRequest struct {
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
	Target *float64 `json:"target"`
}

type recommendRequest struct {
	SeedTracks  []string                  `json:"seed_tracks"`
	SeedArtists []string                  `json:"seed_artists"`
	SeedGenres  []string                  `json:"seed_genres"`
	Limit       int                       `json:"limit" validate:"omitempty,min=1,max=100"`
	Tunables    map[string]tunableRequest `json:"tunables"`
}

type recommendResponse struct {
	Tracks []trackResponse `json:"tracks"`
}

// Recommend handles POST /v1/recommendations
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErrorWithCode(w, http.StatusBadRequest, err.Error(), errCodeInvalidRequest)
		return
	}

	tunables := make(map[string]ports.Tunable, len(req.Tunables))
	for attr, t := range req.Tunables {
		tunables[attr] = ports.Tunable{Min: t.Min, Max: t.Max, Target: t.Target}
	}

	tracks, err := h.engine.Recommend(r.Context(), services.RecommendRequest{
		SeedTracks:  req.SeedTracks,
		SeedArtists: req.SeedArtists,
		SeedGenres:  req.SeedGenres,
		Limit:       req.Limit,
		Tunables:    tunables,
	})
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	resp := recommendResponse{Tracks: make([]trackResponse, 0, len(tracks))}
	for _, t := range tracks {
		resp.Tracks = append(resp.Tracks, toTrackResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetTrack handles GET /v1/tracks/{id}
func (h *Handler) GetTrack(w http.ResponseWriter, r *http.Request) {
	track, err := h.engine.GetTrack(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTrackResponse(track))
}

// SearchTracks handles GET /v1/tracks/search?q=...
func (h *Handler) SearchTracks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := queryInt(r, "limit")
	offset := queryInt(r, "offset")

	page, err := h.engine.SearchTracks(r.Context(), query, limit, offset)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTrackPageResponse(page))
}

type audioFeaturesRequest struct {
	TrackIDs []string `json:"track_ids" validate:"required,min=1,max=100"`
}

type audioFeaturesResponse struct {
	Features map[string]domain.Features `json:"features"`
}

// AudioFeatures handles POST /v1/audio-features
func (h *Handler) AudioFeatures(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req audioFeaturesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErrorWithCode(w, http.StatusBadRequest, err.Error(), errCodeInvalidRequest)
		return
	}

	features, err := h.engine.AudioFeatures(r.Context(), req.TrackIDs)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, audioFeaturesResponse{Features: features})
}

func queryInt(r *http.Request, key string) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}
