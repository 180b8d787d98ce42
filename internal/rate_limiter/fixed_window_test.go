package ratelimiter

import (
	"testing"
	"time"

	"github.com/dsnakex/Biotech-Dashboard/internal/config"
)

func TestFixedWindowRateLimiter(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(config.RateLimiterConfig{RequestsPerTimeFrame: 2, TimeFrame: time.Minute, Enabled: true}, nil)
	rl.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if ok, _ := rl.Allow("10.0.0.1"); !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	now = now.Add(20 * time.Second)
	ok, retryAfter := rl.Allow("10.0.0.1")
	if ok {
		t.Fatal("third request in the window should be rejected")
	}
	if retryAfter != 40*time.Second {
		t.Errorf("retryAfter = %s, want 40s", retryAfter)
	}

	if ok, _ := rl.Allow("10.0.0.2"); !ok {
		t.Error("other clients have their own window")
	}

	now = now.Add(40 * time.Second)
	if ok, _ := rl.Allow("10.0.0.1"); !ok {
		t.Error("a new window should allow the request")
	}
	if w := rl.clients["10.0.0.1"]; w.count != 1 || !w.start.Equal(now) {
		t.Errorf("window was not renewed: %+v", w)
	}

	now = now.Add(2 * time.Minute)
	rl.Allow("10.0.0.3")
	if len(rl.clients) != 1 {
		t.Errorf("expired windows should be swept, got %d clients", len(rl.clients))
	}
}

func TestDisabledRateLimiter(t *testing.T) {
	rl := NewRateLimiter(config.RateLimiterConfig{RequestsPerTimeFrame: 1, TimeFrame: time.Minute, Enabled: false}, nil)
	for i := 0; i < 5; i++ {
		if ok, _ := rl.Allow("10.0.0.1"); !ok {
			t.Fatal("disabled limiter must allow every request")
		}
	}
}
