package registry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/wikicurator/artbot/internal/worker"
)

// Wayback requests archive snapshots of the source pages referenced from
// uploaded items, so references survive catalogue reshuffles
type Wayback struct {
	httpClient *http.Client
	saveURL    string
	userAgent  string
	limiter    *worker.Limiter
}

// NewWayback creates a snapshot client
func NewWayback(saveURL, userAgent string, timeout time.Duration, limiter *worker.Limiter) *Wayback {
	return &Wayback{
		httpClient: &http.Client{Timeout: timeout},
		saveURL:    saveURL,
		userAgent:  userAgent,
		limiter:    limiter,
	}
}

// Snapshot requests archival of each distinct URL. Archiving is best effort;
// failures are logged and never fail the upload.
func (w *Wayback) Snapshot(ctx context.Context, urls []string) {
	seen := make(map[string]bool, len(urls))
	for _, target := range urls {
		if target == "" || seen[target] {
			continue
		}
		seen[target] = true

		if err := w.save(ctx, target); err != nil {
			slog.Warn("archive snapshot failed", "url", target, "error", err)
		}
	}
}

func (w *Wayback) save(ctx context.Context, target string) error {
	full := w.saveURL + "/" + target

	if w.limiter != nil {
		if err := w.limiter.Wait(ctx, full); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, full, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", w.userAgent)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}
	return nil
}
