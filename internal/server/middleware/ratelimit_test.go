package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// TestRateLimiter_Allow tests the token budget per IP.
func TestRateLimiter_Allow(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name          string
		limit         int
		requests      int
		expectedAllow int
	}{
		{"within limit", 10, 5, 5},
		{"at limit", 10, 10, 10},
		{"exceeds limit", 10, 15, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewRateLimiter(tt.limit, &logger)

			allowed := 0
			for i := 0; i < tt.requests; i++ {
				if rl.allow("192.0.2.1") {
					allowed++
				}
			}

			if allowed != tt.expectedAllow {
				t.Errorf("expected %d allowed, got %d", tt.expectedAllow, allowed)
			}
		})
	}
}

// TestRateLimiter_MultipleIPs tests that budgets are tracked per IP.
func TestRateLimiter_MultipleIPs(t *testing.T) {
	logger := zerolog.Nop()
	rl := NewRateLimiter(1, &logger)

	if !rl.allow("192.0.2.1") {
		t.Error("first request from first IP should pass")
	}
	if rl.allow("192.0.2.1") {
		t.Error("second request from first IP should be limited")
	}
	if !rl.allow("192.0.2.2") {
		t.Error("first request from second IP should pass")
	}
}

// TestRateLimiter_TokenRefresh tests that tokens come back after the
// interval.
func TestRateLimiter_TokenRefresh(t *testing.T) {
	logger := zerolog.Nop()
	rl := NewRateLimiter(1, &logger)
	rl.interval = 10 * time.Millisecond

	if !rl.allow("192.0.2.1") {
		t.Fatal("first request should pass")
	}
	if rl.allow("192.0.2.1") {
		t.Fatal("second request should be limited")
	}

	time.Sleep(20 * time.Millisecond)

	if !rl.allow("192.0.2.1") {
		t.Error("request after refresh interval should pass")
	}
}

// TestRateLimiter_Concurrent tests that concurrent requests never
// exceed the budget.
func TestRateLimiter_Concurrent(t *testing.T) {
	logger := zerolog.Nop()
	rl := NewRateLimiter(50, &logger)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.allow("192.0.2.1") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 50 {
		t.Errorf("expected exactly 50 allowed, got %d", allowed)
	}
}

// TestRateLimit_Middleware tests the HTTP behavior, including the
// X-Forwarded-For override and the 429 envelope.
func TestRateLimit_Middleware(t *testing.T) {
	logger := zerolog.Nop()
	rl := NewRateLimiter(1, &logger)

	handler := RateLimit(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest("GET", "/v1/reconcile", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest("GET", "/v1/reconcile", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", second.Code)
	}
	if !strings.Contains(second.Body.String(), "RATE_LIMITED") {
		t.Errorf("expected RATE_LIMITED envelope, got %s", second.Body.String())
	}

	// A different forwarded IP gets its own budget.
	forwarded := httptest.NewRequest("GET", "/v1/reconcile", nil)
	forwarded.Header.Set("X-Forwarded-For", "203.0.113.9")
	third := httptest.NewRecorder()
	handler.ServeHTTP(third, forwarded)
	if third.Code != http.StatusOK {
		t.Errorf("forwarded request: expected 200, got %d", third.Code)
	}
}
