// Package fetch retrieves level records from the level service.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tristeng/heightmap/internal/level"
)

// DefaultBaseURL is the public level service endpoint. Levels live under
// <base>/<id>.
const DefaultBaseURL = "https://deaddropgames.com/stuntski/api/levels"

// ErrBadStatus reports a non-success response from the level service.
var ErrBadStatus = errors.New("level service returned non-success status")

// StatusError carries the failing URL and status code so callers can tell a
// missing level from a service outage.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}

// Unwrap lets errors.Is match ErrBadStatus.
func (e *StatusError) Unwrap() error { return ErrBadStatus }

// Client fetches level records by identifier. BaseURL is explicit
// configuration; there is no process-wide URL template.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a client for the service at baseURL. A zero timeout disables
// the client-side deadline.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Level fetches and parses the level record with the given identifier.
// Non-2xx responses fail with a StatusError; malformed payloads surface as
// level.ErrMalformed.
func (c *Client) Level(ctx context.Context, id int64) (*level.Level, error) {
	url := fmt.Sprintf("%s/%d", strings.TrimRight(c.BaseURL, "/"), id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}
	return level.Parse(body)
}
