package musicbrainz

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cdripper/internal/disc/fingerprint"
)

const (
	// DefaultBaseURL is the MusicBrainz web service root.
	DefaultBaseURL = "https://musicbrainz.org/ws/2"
	// DefaultUserAgent identifies this client to the service.
	DefaultUserAgent = "cdrip/0.3.0 ( https://github.com/cdripper/cdrip )"

	maxResponseBytes = 8 << 20
)

// Looker defines the lookup operation used by the workflow.
type Looker interface {
	Lookup(ctx context.Context, fp string) ([]ReleaseCandidate, error)
}

// ResponseObserver receives every raw response body, used for verbose echo.
type ResponseObserver func(url string, status int, body []byte)

// Client queries the disc ID endpoint.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
	observer   ResponseObserver
}

var _ Looker = (*Client)(nil)

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

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithResponseObserver registers a callback for raw responses.
func WithResponseObserver(fn ResponseObserver) Option {
	return func(c *Client) {
		c.observer = fn
	}
}

// New creates a MusicBrainz client. Empty values fall back to the defaults.
func New(baseURL, userAgent string, timeout time.Duration, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LookupURL returns the request URL for fp.
func (c *Client) LookupURL(fp string) string {
	return c.baseURL + "/discid/-?" + fingerprint.Query(fp)
}

// Lookup resolves fp into release candidates in the order the service
// returned them.
func (c *Client) Lookup(ctx context.Context, fp string) ([]ReleaseCandidate, error) {
	fp = strings.TrimSpace(fp)
	if fp == "" {
		return nil, errors.New("fingerprint must not be empty")
	}
	endpoint := c.LookupURL(fp)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, networkError(fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, networkError("read response", err)
	}
	c.logger.Debug("musicbrainz response",
		slog.String("url", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", latency),
	)
	if c.observer != nil {
		c.observer(endpoint, resp.StatusCode, body)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, networkError(fmt.Sprintf("service returned %d: %s", resp.StatusCode, snippet(body)), nil)
	}

	var payload discIDResponse
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&payload); err != nil {
		return nil, networkError("decode response", err)
	}

	if len(payload.Releases) > 0 {
		out := make([]ReleaseCandidate, 0, len(payload.Releases))
		for _, rel := range payload.Releases {
			out = append(out, rel.candidate())
		}
		return out, nil
	}

	noMatch := &NoMatchError{Fingerprint: fp}
	if len(payload.CDStub) > 0 {
		noMatch.Stub = true
		var stub cdStub
		if json.Unmarshal(payload.CDStub, &stub) == nil {
			noMatch.StubArtist = stub.Artist
			noMatch.StubTitle = stub.Title
		}
	}
	return nil, noMatch
}

type discIDResponse struct {
	Releases []release      `json:"releases"`
	CDStub   json.RawMessage `json:"cdstub"`
}

type cdStub struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

type release struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Date         string `json:"date"`
	ArtistCredit []struct {
		Name string `json:"name"`
	} `json:"artist-credit"`
	Media           []medium `json:"media"`
	MediaCount      int      `json:"media-count"`
	CoverArtArchive *struct {
		Front bool `json:"front"`
	} `json:"cover-art-archive"`
}

type medium struct {
	Position int `json:"position"`
	Tracks   []struct {
		Number   string `json:"number"`
		Position int    `json:"position"`
		Title    string `json:"title"`
	} `json:"tracks"`
}

func (r release) candidate() ReleaseCandidate {
	out := ReleaseCandidate{
		ID:        r.ID,
		Title:     r.Title,
		DiscCount: r.MediaCount,
	}
	if len(r.ArtistCredit) > 0 {
		out.Artist = r.ArtistCredit[0].Name
	}
	if year, _, _ := strings.Cut(strings.TrimSpace(r.Date), "-"); year != "" {
		out.Year = year
	}
	if r.CoverArtArchive != nil {
		out.HasFrontCoverArt = r.CoverArtArchive.Front
	}
	if len(r.Media) > 0 {
		media := r.Media[0]
		out.DiscNumber = media.Position
		out.Tracks = make([]Track, 0, len(media.Tracks))
		for i, tr := range media.Tracks {
			number, err := strconv.Atoi(strings.TrimSpace(tr.Number))
			if err != nil || number <= 0 {
				number = tr.Position
			}
			if number <= 0 {
				number = i + 1
			}
			out.Tracks = append(out.Tracks, Track{Number: number, Title: tr.Title})
		}
	}
	return out
}

func snippet(body []byte) string {
	const limit = 200
	text := strings.TrimSpace(string(body))
	if len(text) > limit {
		return text[:limit] + "..."
	}
	return text
}
