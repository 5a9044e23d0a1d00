package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	l := NewLimiter(1, 3)

	url := "https://query.example.org/sparql"
	for i := 0; i < 3; i++ {
		if !l.Allow(url) {
			t.Fatalf("request %d should be within burst", i+1)
		}
	}
	if l.Allow(url) {
		t.Error("request beyond burst should be denied")
	}
}

func TestLimiter_PerHostBudgets(t *testing.T) {
	l := NewLimiter(1, 1)

	if !l.Allow("https://api.example.org/artworks") {
		t.Error("first request to api host should be allowed")
	}
	// A different host has its own untouched budget
	if !l.Allow("https://query.example.org/sparql") {
		t.Error("first request to query host should be allowed")
	}
	if l.Allow("https://api.example.org/other") {
		t.Error("second request to api host should be denied")
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	l := NewLimiter(100, 100)
	l.SetHostRate("www.example.org", 1, 1)

	if !l.Allow("https://www.example.org/w/api.php") {
		t.Error("first request should be allowed")
	}
	if l.Allow("https://www.example.org/w/api.php") {
		t.Error("host override should cap the second request")
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	l := NewLimiter(0.01, 1)

	url := "https://slow.example.org/"
	if err := l.Wait(context.Background(), url); err != nil {
		t.Fatalf("first wait should pass immediately: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx, url); err == nil {
		t.Error("expected context deadline error while waiting for budget")
	}
}
