// Package spotify is the catalog adapter for the Spotify Web API. It
// handles transport, authentication, rate limiting and retries, and maps
// wire payloads to domain types.
package spotify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/ewilliams-labs/resonate/internal/core/ports"
)

const (
	defaultBaseURL  = "https://api.spotify.com/v1"
	defaultTokenURL = "https://accounts.spotify.com/api/token"
	defaultTimeout  = 30 * time.Second
)

// Config holds the adapter settings. Either AccessToken (a static user
// token) or ClientID/ClientSecret (client-credentials flow) must be set.
type Config struct {
	BaseURL      string
	AccessToken  string
	ClientID     string
	ClientSecret string

	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration

	// Client-side request rate cap, respecting the API's rate limits.
	RateLimitRPS   float64
	RateLimitBurst int
}

// Client is the HTTP client for the Spotify Web API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	limiter     *rate.Limiter
	maxRetries  int
	baseBackoff time.Duration
	log         zerolog.Logger
}

// compile-time interface assertion
var _ ports.Catalog = (*Client)(nil)

// NewClient constructs a Spotify client. The context governs background
// token refresh for the client-credentials flow.
func NewClient(ctx context.Context, cfg Config, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 10
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 5
	}

	var httpClient *http.Client
	switch {
	case cfg.AccessToken != "":
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken})
		httpClient = oauth2.NewClient(ctx, src)
	case cfg.ClientID != "":
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     defaultTokenURL,
		}
		httpClient = cc.Client(ctx)
	default:
		httpClient = &http.Client{}
	}
	httpClient.Timeout = cfg.Timeout

	return &Client{
		httpClient:  httpClient,
		baseURL:     cfg.BaseURL,
		limiter:     rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		maxRetries:  cfg.MaxRetries,
		baseBackoff: cfg.RetryBackoff,
		log:         log,
	}
}

// getJSON issues a GET and decodes the response body into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("spotify adapter: create request: %w", err)
	}
	return c.doJSON(req, out)
}

// postJSON issues a POST with a JSON body and decodes the response into
// out (which may be nil).
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("spotify adapter: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("spotify adapter: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doJSON(req, out)
}

func (c *Client) doJSON(req *http.Request, out any) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return classifyTransport(err)
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.errorFromResponse(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("spotify adapter: decode response: %w", err)
	}
	return nil
}

// errorFromResponse classifies a non-2xx response into the upstream
// error taxonomy, carrying the API's error message when present.
func (c *Client) errorFromResponse(resp *http.Response) error {
	var body struct {
		Error struct {
			Status  int    `json:"status"`
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)

	return &ports.UpstreamError{
		Kind:    ports.ClassifyStatus(resp.StatusCode),
		Status:  resp.StatusCode,
		Message: body.Error.Message,
	}
}

// classifyTransport maps transport-level failures into the upstream
// taxonomy. Caller-initiated cancellation passes through unclassified.
func classifyTransport(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &ports.UpstreamError{Kind: ports.UpstreamTimeout, Message: err.Error()}
	}
	return &ports.UpstreamError{Kind: ports.UpstreamUnknown, Message: err.Error()}
}
