package rest

import (
	"errors"
	"net/http"

	"github.com/ewilliams-labs/resonate/internal/core/ports"
	"github.com/ewilliams-labs/resonate/internal/core/services"
)

const (
	errCodeNoMatches      = "NO_MATCHES_FOUND"
	errCodeNoGenres       = "NO_GENRES_FOUND"
	errCodePartialWrite   = "PLAYLIST_PARTIAL_WRITE"
	errCodeInvalidRequest = "INVALID_REQUEST"
)

// writeEngineError maps engine failures onto HTTP status codes.
// Validation failures become 400, empty-result conditions 404, and
// classified catalog failures keep their upstream semantics.
func (h *Handler) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ports.ErrMissingSource),
		errors.Is(err, ports.ErrMissingScopeID),
		errors.Is(err, ports.ErrIncompatibleStrategyScope),
		errors.Is(err, ports.ErrMissingActionParam),
		errors.Is(err, ports.ErrInvalidRequest),
		errors.Is(err, services.ErrNoSeeds),
		errors.Is(err, services.ErrTooManySeeds),
		errors.Is(err, services.ErrCollaborativePublic):
		writeErrorWithCode(w, http.StatusBadRequest, err.Error(), errCodeInvalidRequest)
		return

	case errors.Is(err, ports.ErrNoMatchesFound):
		writeErrorWithCode(w, http.StatusNotFound, err.Error(), errCodeNoMatches)
		return

	case errors.Is(err, ports.ErrNoGenresFound):
		writeErrorWithCode(w, http.StatusNotFound, err.Error(), errCodeNoGenres)
		return
	}

	var partial *ports.PlaylistPartialError
	if errors.As(err, &partial) {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: errorBody{
			Message: partial.Error(),
			Code:    errCodePartialWrite,
			Details: map[string]string{
				"playlist_id":   partial.Playlist.ID,
				"playlist_name": partial.Playlist.Name,
				"playlist_url":  partial.Playlist.URL,
			},
		}})
		return
	}

	if upstream, ok := ports.IsUpstream(err); ok {
		writeError(w, statusFromUpstream(upstream.Kind), upstream.Error())
		return
	}

	h.log.Error().Err(err).Msg("unhandled engine error")
	writeError(w, http.StatusInternalServerError, err.Error())
}

func statusFromUpstream(kind ports.UpstreamKind) int {
	switch kind {
	case ports.UpstreamAuth:
		return http.StatusUnauthorized
	case ports.UpstreamPermission:
		return http.StatusForbidden
	case ports.UpstreamNotFound:
		return http.StatusNotFound
	case ports.UpstreamRateLimited:
		return http.StatusTooManyRequests
	case ports.UpstreamTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
