package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	limiter := NewLimiter(1, 3)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("serpapi.com") {
			t.Errorf("Expected request %d within burst to be allowed", i)
		}
	}

	if limiter.Allow("serpapi.com") {
		t.Error("Expected request beyond burst to be denied")
	}
}

func TestLimiter_HostsAreIndependent(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("serpapi.com") {
		t.Error("Expected first request to serpapi.com to be allowed")
	}
	if !limiter.Allow("bsky.social") {
		t.Error("Expected first request to bsky.social to be allowed")
	}
	if limiter.Allow("serpapi.com") {
		t.Error("Expected second request to serpapi.com to be denied")
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	limiter := NewLimiter(1, 1)
	limiter.SetHostRate("serpapi.com", 100, 10)

	allowed := 0
	for i := 0; i < 10; i++ {
		if limiter.Allow("serpapi.com") {
			allowed++
		}
	}
	if allowed != 10 {
		t.Errorf("Expected custom burst of 10, got %d allowed", allowed)
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	limiter := NewLimiter(0.001, 1)

	// Drain the burst
	if err := limiter.Wait(context.Background(), "serpapi.com"); err != nil {
		t.Fatalf("First wait should clear immediately: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "serpapi.com"); err == nil {
		t.Error("Expected wait to fail once context deadline passed")
	}
}

func TestNewLimiter_DefaultBurst(t *testing.T) {
	limiter := NewLimiter(1, 0)
	if limiter.defaultBurst != 5 {
		t.Errorf("Expected default burst 5, got %d", limiter.defaultBurst)
	}
}
