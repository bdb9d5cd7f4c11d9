// Package sonarr is a client for the Sonarr v3 REST API, covering the
// surface importarr needs: system status, the series list, and the
// DownloadedEpisodesScan command.
package sonarr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
)

// Sentinel errors for Sonarr API responses.
var (
	ErrUnauthorized = errors.New("unauthorized: invalid API key")
	ErrNotFound     = errors.New("resource not found")
)

// Client is a Sonarr v3 API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger

	attempts   uint
	retryDelay time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log.With("component", "sonarr")
	}
}

// WithRetry sets the attempt count and base backoff delay for transient
// failures. Attempts includes the first try; 1 disables retries.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.retryDelay = delay
	}
}

// New creates a Sonarr client for the given base URL and API key.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		attempts:   3,
		retryDelay: time.Second,
	}
	for len(c.baseURL) > 0 && c.baseURL[len(c.baseURL)-1] == '/' {
		c.baseURL = c.baseURL[:len(c.baseURL)-1]
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ping checks connectivity and credentials via the system status endpoint.
func (c *Client) Ping(ctx context.Context) (*SystemStatus, error) {
	var status SystemStatus
	if err := c.do(ctx, http.MethodGet, "/api/v3/system/status", nil, &status); err != nil {
		return nil, err
	}
	if c.log != nil {
		c.log.Debug("sonarr reachable", "version", status.Version)
	}
	return &status, nil
}

// AllSeries fetches every series in the Sonarr library.
func (c *Client) AllSeries(ctx context.Context) ([]Series, error) {
	start := time.Now()

	var series []Series
	if err := c.do(ctx, http.MethodGet, "/api/v3/series", nil, &series); err != nil {
		return nil, err
	}

	if c.log != nil {
		c.log.Debug("fetched series", "count", len(series), "duration_ms", time.Since(start).Milliseconds())
	}
	return series, nil
}

// ScanDownloads submits a DownloadedEpisodesScan command for the given path.
// The path must be the path as Sonarr sees it. Returns the queued command.
func (c *Client) ScanDownloads(ctx context.Context, path string, mode ImportMode, downloadClientID string) (*Command, error) {
	req := scanRequest{
		Name:             "DownloadedEpisodesScan",
		Path:             path,
		ImportMode:       string(mode),
		DownloadClientID: downloadClientID,
	}

	var cmd Command
	if err := c.do(ctx, http.MethodPost, "/api/v3/command", req, &cmd); err != nil {
		return nil, err
	}

	if c.log != nil {
		c.log.Debug("scan command queued", "command_id", cmd.ID, "path", path, "mode", mode)
	}
	return &cmd, nil
}

// Command fetches the state of a previously submitted command.
func (c *Client) Command(ctx context.Context, id int64) (*Command, error) {
	var cmd Command
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v3/command/%d", id), nil, &cmd); err != nil {
		return nil, err
	}
	return &cmd, nil
}

// apiError carries a non-2xx status for retry classification.
type apiError struct {
	status int
	body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("sonarr API error: status %d: %s", e.status, e.body)
}

// do performs one API call with retry on transient failures.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	return retry.Do(
		func() error {
			return c.doOnce(ctx, method, endpoint, body, out)
		},
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.Context(ctx),
		retry.RetryIf(isTransient),
		retry.LastErrorOnly(true),
	)
}

func (c *Client) doOnce(ctx context.Context, method, endpoint string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func checkResponse(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	default:
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return &apiError{status: resp.StatusCode, body: buf.String()}
	}
}

// isTransient reports whether a failed call is worth retrying: transport
// errors, 5xx and 429. Auth and client errors are final.
func isTransient(err error) bool {
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotFound) {
		return false
	}
	var ae *apiError
	if errors.As(err, &ae) {
		return ae.status >= 500 || ae.status == http.StatusTooManyRequests
	}
	return true
}
