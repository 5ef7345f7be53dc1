// Package coverart downloads front cover images from the Cover Art Archive.
package coverart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cdripper/internal/services"
)

const (
	// DefaultBaseURL is the Cover Art Archive root.
	DefaultBaseURL = "https://coverartarchive.org"
	// DefaultSize is the thumbnail width requested for the front image.
	DefaultSize = 250

	maxImageBytes = 16 << 20
)

// Fetcher defines the cover download used by the workflow.
type Fetcher interface {
	FetchFront(ctx context.Context, releaseID string) ([]byte, error)
}

// Client downloads release artwork.
type Client struct {
	baseURL    string
	size       int
	userAgent  string
	httpClient *http.Client
}

var _ Fetcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = strings.TrimSpace(ua)
	}
}

// New creates a cover art client. A zero size requests DefaultSize; a
// negative size requests the original image.
func New(baseURL string, size int, timeout time.Duration, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if size == 0 {
		size = DefaultSize
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		baseURL:    baseURL,
		size:       size,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FrontURL returns the image URL for releaseID.
func (c *Client) FrontURL(releaseID string) string {
	name := "front"
	if c.size > 0 {
		name += "-" + strconv.Itoa(c.size)
	}
	return fmt.Sprintf("%s/release/%s/%s", c.baseURL, releaseID, name)
}

// FetchFront returns the raw bytes of the release's front image.
func (c *Client) FetchFront(ctx context.Context, releaseID string) ([]byte, error) {
	releaseID = strings.TrimSpace(releaseID)
	if releaseID == "" {
		return nil, errors.New("release id required")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.FrontURL(releaseID), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "coverart", "fetch", releaseID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, services.Wrap(services.ErrNotFound, "coverart", "fetch", "no front image for "+releaseID, nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, services.Wrap(services.ErrTransient, "coverart", "fetch", fmt.Sprintf("%s returned %d", releaseID, resp.StatusCode), nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "coverart", "read", releaseID, err)
	}
	if len(data) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "coverart", "fetch", "empty image for "+releaseID, nil)
	}
	return data, nil
}
