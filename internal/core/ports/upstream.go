package ports

import (
	"errors"
	"fmt"
	"net/http"
)

// UpstreamKind classifies catalog service failures.
type UpstreamKind string

const (
	UpstreamAuth        UpstreamKind = "auth"
	UpstreamPermission  UpstreamKind = "permission"
	UpstreamNotFound    UpstreamKind = "not_found"
	UpstreamRateLimited UpstreamKind = "rate_limited"
	UpstreamTimeout     UpstreamKind = "timeout"
	UpstreamUnknown     UpstreamKind = "unknown"
)

// UpstreamError is a classified catalog service failure. The engine does
// not retry these; it surfaces them upward unchanged.
type UpstreamError struct {
	Kind    UpstreamKind
	Status  int // HTTP-like status code, 0 when not applicable
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("catalog: %s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("catalog: %s (status %d)", e.Kind, e.Status)
}

// IsUpstream reports whether err is a classified catalog failure,
// returning it when so.
func IsUpstream(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// ClassifyStatus maps an HTTP status code to an upstream failure kind.
func ClassifyStatus(status int) UpstreamKind {
	switch status {
	case http.StatusUnauthorized:
		return UpstreamAuth
	case http.StatusForbidden:
		return UpstreamPermission
	case http.StatusNotFound:
		return UpstreamNotFound
	case http.StatusTooManyRequests:
		return UpstreamRateLimited
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return UpstreamTimeout
	default:
		return UpstreamUnknown
	}
}
