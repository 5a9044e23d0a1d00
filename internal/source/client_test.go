package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wikicurator/artbot/internal/cache"
	"github.com/wikicurator/artbot/internal/model"
)

func testHTTPConfig() model.HTTPConfig {
	return model.HTTPConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "Artbot/test",
		MaxBodyBytes: 1_000_000,
	}
}

func TestClient_Venue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/prod/venues" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("id"); got != "YCBA" {
			t.Errorf("id = %q, want YCBA", got)
		}
		_, _ = w.Write([]byte(`{"YCBA": {"venueId": "YCBA", "collectionQid": "Q6352575", "shortName": "YCBA"}}`))
	}))
	defer srv.Close()

	c := NewClient(testHTTPConfig(), srv.URL, "prod", nil, nil)

	venue, err := c.Venue(context.Background(), "ycba")
	if err != nil {
		t.Fatalf("Venue: %v", err)
	}
	if venue.CollectionQID != "Q6352575" {
		t.Errorf("collection = %q, want Q6352575", venue.CollectionQID)
	}
}

func TestClient_VenueWithoutCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"YCBA": {"venueId": "YCBA"}}`))
	}))
	defer srv.Close()

	c := NewClient(testHTTPConfig(), srv.URL, "prod", nil, nil)

	if _, err := c.Venue(context.Background(), "ycba"); err == nil {
		t.Error("expected error for venue without collection item")
	}
}

func TestClient_ArtworksCached(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`{"A1": {"artworkId": "A1", "accessionNumber": "B1981.25.51", "category": "Painting"}}`))
	}))
	defer srv.Close()

	mem := cache.NewMemoryCache(time.Minute, time.Minute)
	c := NewClient(testHTTPConfig(), srv.URL, "uat", mem, nil)

	for i := 0; i < 2; i++ {
		artworks, err := c.Artworks(context.Background(), "YCBA", ArtworkQuery{WithImage: true})
		if err != nil {
			t.Fatalf("Artworks: %v", err)
		}
		if len(artworks) != 1 || artworks["A1"].AccessionNumber != "B1981.25.51" {
			t.Errorf("unexpected artworks: %v", artworks)
		}
	}

	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("server hit %d times, want 1 (second read from cache)", got)
	}
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(testHTTPConfig(), srv.URL, "prod", nil, nil)

	if _, err := c.Artists(context.Background(), "ycba", ArtistQuery{Master: true}); err == nil {
		t.Error("expected error for server failure")
	}
}

func TestLoadLists(t *testing.T) {
	dir := t.TempDir()
	venueDir := filepath.Join(dir, "ycba")
	if err := os.MkdirAll(venueDir, 0755); err != nil {
		t.Fatal(err)
	}

	writeFile := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(venueDir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	writeFile("media_existing.json", `{"B1981.25.51": {"url": "https://media.example.org/w/123"}}`)
	writeFile("small_images.json", `["YCBA_B1977_14_4"]`)

	lists, err := LoadLists(dir, "ycba")
	if err != nil {
		t.Fatalf("LoadLists: %v", err)
	}

	if ref, ok := lists.ExistingMedia["B1981.25.51"]; !ok || ref.URL == "" {
		t.Errorf("missing existing media ref: %v", lists.ExistingMedia)
	}
	if !lists.SmallImages["YCBA_B1977_14_4"] {
		t.Error("missing small image id")
	}

	// Both lists are required
	if err := os.Remove(filepath.Join(venueDir, "small_images.json")); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadLists(dir, "ycba"); err == nil {
		t.Error("expected error for missing list file")
	}
}
