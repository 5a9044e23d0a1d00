package images

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/wikicurator/artbot/internal/util"
	"github.com/wikicurator/artbot/internal/worker"
)

const (
	// Below this size an image is never worth suggesting as a replacement
	minReplaceBytes = 500_000
	// A replacement must be at least this many times larger than what the
	// item already has
	replaceFactor = 4
)

// Prober checks candidate image URLs before they are suggested to the
// registry: robots.txt politeness, then a header-only size probe.
type Prober struct {
	httpClient *http.Client
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
	userAgent  string
}

// NewProber creates a prober sharing the run's rate limiter
func NewProber(timeout time.Duration, userAgent string, limiter *worker.Limiter) *Prober {
	return &Prober{
		httpClient: &http.Client{Timeout: timeout},
		robots:     util.NewRobotsChecker(userAgent, timeout),
		limiter:    limiter,
		userAgent:  userAgent,
	}
}

// Size returns the Content-Length of the image at rawURL without reading the
// body. Fails when robots.txt disallows the fetch or the server does not
// declare a length.
func (p *Prober) Size(ctx context.Context, rawURL string) (int64, error) {
	if !p.robots.Allowed(ctx, rawURL) {
		return 0, fmt.Errorf("robots.txt disallows %s", rawURL)
	}
	if err := p.limiter.Wait(ctx, rawURL); err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("probe image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	length := resp.Header.Get("Content-Length")
	if length == "" {
		return 0, fmt.Errorf("no content length for %s", rawURL)
	}
	size, err := strconv.ParseInt(length, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad content length %q: %w", length, err)
	}

	return size, nil
}

// ShouldReplace reports whether a candidate of newSize bytes is worth
// suggesting over an existing image of currentSize bytes
func ShouldReplace(newSize, currentSize int64) bool {
	if newSize < minReplaceBytes {
		return false
	}
	return newSize > currentSize*replaceFactor
}
