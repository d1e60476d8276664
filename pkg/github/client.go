// Package github provides the GitHub gists client: listing a user's gists
// through the paginated API and fetching raw file contents, with typed
// errors for non-success responses.
package github

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/gistapi/gistapi/pkg/logging"
	"github.com/gistapi/gistapi/pkg/metrics"
)

// Endpoint labels used for metrics and logging.
const (
	endpointGists = "gists"
	endpointRaw   = "raw"
)

// Config holds the client configuration.
type Config struct {
	// BaseURL is the GitHub API root (default: https://api.github.com).
	BaseURL string

	// UserAgent header sent with every request.
	UserAgent string

	// Timeout applies per outbound request.
	Timeout time.Duration

	// HTTPClient overrides the default transport (used in tests).
	HTTPClient *http.Client
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:   "https://api.github.com",
		UserAgent: "gistapi/0.1.0",
		Timeout:   30 * time.Second,
	}
}

// Client is the GitHub gists client.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// New creates a new GitHub client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		httpClient: httpClient,
		config:     cfg,
		logger:     logging.NewLogger("github-client"),
	}, nil
}

// get performs a single GET request and returns the response body on 2xx.
// Non-success responses become an *APIError carrying the parsed body;
// transport failures become a *RequestError. No retries: a failed request
// aborts the enclosing operation.
func (c *Client) get(req *http.Request, endpoint string) ([]byte, error) {
	startTime := time.Now()
	defer func() {
		metrics.GithubRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		metrics.GithubErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		metrics.GithubRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return nil, &RequestError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("Failed to read response body")
		metrics.GithubErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, &RequestError{Endpoint: endpoint, Err: err}
	}

	metrics.GithubRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newAPIError(resp.StatusCode, body)
		metrics.GithubErrorsTotal.WithLabelValues(string(apiErr.ErrorClass)).Inc()

		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("error_class", string(apiErr.ErrorClass)).
			Msg("GitHub request error")

		return nil, apiErr
	}

	return body, nil
}
