// Package rest is the HTTP interface to the similarity engine.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/resonate/internal/core/services"
)

// Handler manages the HTTP interface for our application.
type Handler struct {
	engine   *services.Engine
	router   chi.Router
	validate *validator.Validate
	log      zerolog.Logger
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(engine *services.Engine, log zerolog.Logger) *Handler {
	h := &Handler{
		engine:   engine,
		router:   chi.NewRouter(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
	h.routes()
	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	h.router.Use(requestID)
	h.router.Use(h.logRequests)

	h.router.Get("/healthz", h.HealthCheck)

	h.router.Route("/v1", func(r chi.Router) {
		r.Post("/similar", h.FindSimilar)
		r.Post("/recommendations", h.Recommend)

		r.Get("/tracks/search", h.SearchTracks)
		r.Get("/tracks/{id}", h.GetTrack)
		r.Post("/audio-features", h.AudioFeatures)

		r.Get("/playlists", h.UserPlaylists)
		r.Post("/playlists", h.CreatePlaylist)
		r.Get("/playlists/{id}/tracks", h.PlaylistTracks)
		r.Post("/playlists/{id}/tracks", h.AddTracks)
	})
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
