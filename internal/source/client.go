package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/wikicurator/artbot/internal/cache"
	"github.com/wikicurator/artbot/internal/model"
	"github.com/wikicurator/artbot/internal/util"
	"github.com/wikicurator/artbot/internal/worker"
)

// Client talks to the collection database API (the record source). Responses
// are cached so repeated loads of the same venue do not refetch everything.
type Client struct {
	httpClient *http.Client
	baseURL    string
	instance   string
	userAgent  string
	maxBytes   int64
	cache      cache.Cache // nil disables caching
	limiter    *worker.Limiter
}

// NewClient creates a record source client for the given database instance
// (prod or uat)
func NewClient(cfg model.HTTPConfig, baseURL, instance string, c cache.Cache, limiter *worker.Limiter) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
		},
		baseURL:   strings.TrimRight(baseURL, "/"),
		instance:  instance,
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		cache:     c,
		limiter:   limiter,
	}
}

// Venue resolves a venue id to its collection identity. Venue ids are upper
// case in the database.
func (c *Client) Venue(ctx context.Context, venueID string) (*model.Venue, error) {
	venueID = strings.ToUpper(strings.TrimSpace(venueID))

	var venues map[string]model.Venue
	if err := c.getJSON(ctx, "/venues", url.Values{"id": {venueID}}, &venues); err != nil {
		return nil, fmt.Errorf("fetch venue: %w", err)
	}

	venue, ok := venues[venueID]
	if !ok {
		return nil, fmt.Errorf("unknown venue %q", venueID)
	}
	if venue.CollectionQID == "" {
		return nil, fmt.Errorf("venue %q has no collection item", venueID)
	}

	return &venue, nil
}

// ArtworkQuery narrows an artwork listing
type ArtworkQuery struct {
	Filter    string // single artwork id
	WithImage bool
}

// Artworks returns the venue's artwork records keyed by artwork id
func (c *Client) Artworks(ctx context.Context, venueID string, q ArtworkQuery) (map[string]model.Artwork, error) {
	params := url.Values{"venue": {strings.ToLower(venueID)}}
	if q.Filter != "" {
		params.Set("filter", q.Filter)
	}
	if q.WithImage {
		params.Set("image", "true")
	}

	var artworks map[string]model.Artwork
	if err := c.getJSON(ctx, "/artworks", params, &artworks); err != nil {
		return nil, fmt.Errorf("fetch artworks: %w", err)
	}
	return artworks, nil
}

// ArtistQuery narrows an artist listing
type ArtistQuery struct {
	Filter string // single artist id
	Master bool   // master records only
}

// Artists returns artist records keyed by artist id
func (c *Client) Artists(ctx context.Context, venueID string, q ArtistQuery) (map[string]model.Artist, error) {
	params := url.Values{}
	if venueID != "" {
		params.Set("venue", strings.ToLower(venueID))
	}
	if q.Filter != "" {
		params.Set("filter", q.Filter)
	}
	if q.Master {
		params.Set("master", "true")
	}

	var artists map[string]model.Artist
	if err := c.getJSON(ctx, "/artists", params, &artists); err != nil {
		return nil, fmt.Errorf("fetch artists: %w", err)
	}
	return artists, nil
}

// getJSON performs a cached GET against the instance-scoped API
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := fmt.Sprintf("%s/%s%s", c.baseURL, c.instance, path)
	full := endpoint
	if encoded := params.Encode(); encoded != "" {
		full += "?" + encoded
	}

	key := cache.Key("source", full)
	if c.cache != nil {
		if data, found := c.cache.Get(key); found {
			return json.Unmarshal(data, out)
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, full); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if c.cache != nil {
		_ = c.cache.Set(key, body, 0)
	}

	return json.Unmarshal(body, out)
}
