package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestWayback_SnapshotDeduplicates(t *testing.T) {
	var mu sync.Mutex
	var saved []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		mu.Lock()
		saved = append(saved, r.URL.Path)
		mu.Unlock()
	}))
	defer srv.Close()

	wb := NewWayback(srv.URL, "Artbot/test", 5*time.Second, nil)

	wb.Snapshot(context.Background(), []string{
		"https://collections.example.org/work/51",
		"https://collections.example.org/work/51",
		"",
		"https://gallery.example.org/mares-and-foals",
	})

	mu.Lock()
	defer mu.Unlock()
	if len(saved) != 2 {
		t.Errorf("saved %d urls, want 2 (duplicates and empties dropped): %v", len(saved), saved)
	}
}

func TestWayback_FailureDoesNotPanic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	wb := NewWayback(srv.URL, "Artbot/test", 5*time.Second, nil)
	wb.Snapshot(context.Background(), []string{"https://collections.example.org/work/51"})
}
