package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wikicurator/artbot/internal/cache"
	"github.com/wikicurator/artbot/internal/worker"
)

// existingItemsQuery finds every item already linked to the collection
// through an id statement that is itself qualified with the collection.
// Works uploaded by hand without that qualifier will not be found, which
// is the safe direction: worst case is a skipped upload, not a duplicate.
const existingItemsQuery = `SELECT ?item ?id WHERE {
  ?item p:P195/ps:P195 wd:%s .
  ?item p:%s ?idstatement .
  ?idstatement pq:P195 wd:%s .
  ?idstatement ps:%s ?id . }`

// SPARQLClient resolves which accession numbers the registry already holds
type SPARQLClient struct {
	httpClient *http.Client
	endpoint   string
	userAgent  string
	cache      cache.Cache // nil disables caching
	cacheTTL   time.Duration
	limiter    *worker.Limiter
}

// NewSPARQLClient creates a query service client
func NewSPARQLClient(endpoint, userAgent string, timeout time.Duration, c cache.Cache, limiter *worker.Limiter) *SPARQLClient {
	return &SPARQLClient{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		userAgent:  userAgent,
		cache:      c,
		cacheTTL:   time.Hour,
		limiter:    limiter,
	}
}

type sparqlResponse struct {
	Results struct {
		Bindings []map[string]struct {
			Value string `json:"value"`
		} `json:"bindings"`
	} `json:"results"`
}

// ExistingItems returns accession number -> item id for every work of the
// collection that carries an id statement under idProperty. The result is
// the dedup map: an id present here is never created again.
func (s *SPARQLClient) ExistingItems(ctx context.Context, collectionQID, idProperty string) (map[string]string, error) {
	query := fmt.Sprintf(existingItemsQuery, collectionQID, idProperty, collectionQID, idProperty)

	body, err := s.run(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("existing items for %s: %w", collectionQID, err)
	}

	var parsed sparqlResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse sparql response: %w", err)
	}

	items := make(map[string]string, len(parsed.Results.Bindings))
	for _, binding := range parsed.Results.Bindings {
		item, id := binding["item"].Value, binding["id"].Value
		if item == "" || id == "" {
			continue
		}
		// Item values come back as full entity URIs
		if idx := strings.LastIndex(item, "/"); idx >= 0 {
			item = item[idx+1:]
		}
		items[id] = item
	}
	return items, nil
}

func (s *SPARQLClient) run(ctx context.Context, query string) ([]byte, error) {
	full := s.endpoint + "?" + url.Values{
		"query":  {query},
		"format": {"json"},
	}.Encode()

	key := cache.Key("sparql", full)
	if s.cache != nil {
		if data, found := s.cache.Get(key); found {
			return data, nil
		}
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, full); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/sparql-results+json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Set(key, body, s.cacheTTL)
	}
	return body, nil
}
