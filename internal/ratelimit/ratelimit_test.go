package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/keithlinneman/linnemanlabs-api/internal/httpmw"
)

func serve(l *IPLimiter, ip string) int {
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req = req.WithContext(httpmw.WithClientIP(req.Context(), ip))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestAllowWithinBurst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := New(ctx, WithRate(1, 3))

	for i := 0; i < 3; i++ {
		if code := serve(l, "10.0.0.1"); code != http.StatusOK {
			t.Fatalf("request %d = %d, want 200", i, code)
		}
	}
	if code := serve(l, "10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("over-burst request = %d, want 429", code)
	}
}

func TestLimitIsPerIP(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := New(ctx, WithRate(1, 1))

	if code := serve(l, "10.0.0.1"); code != http.StatusOK {
		t.Fatalf("first ip = %d", code)
	}
	if code := serve(l, "10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("first ip second request = %d, want 429", code)
	}
	// a different address has its own bucket
	if code := serve(l, "10.0.0.2"); code != http.StatusOK {
		t.Fatalf("second ip = %d, want 200", code)
	}
}

func TestDenialCallbacks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var first, every atomic.Int64
	l := New(ctx,
		WithRate(1, 1),
		WithOnFirstDenied(func(ip string) { first.Add(1) }),
		WithOnDenied(func(ip string) { every.Add(1) }),
	)

	serve(l, "10.0.0.1")
	for i := 0; i < 3; i++ {
		if code := serve(l, "10.0.0.1"); code != http.StatusTooManyRequests {
			t.Fatalf("denial %d = %d", i, code)
		}
	}

	if got := first.Load(); got != 1 {
		t.Fatalf("OnFirstDenied fired %d times, want 1", got)
	}
	if got := every.Load(); got != 3 {
		t.Fatalf("OnDenied fired %d times, want 3", got)
	}
}

func TestDenialResponseShape(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := New(ctx, WithRate(1, 1))

	serve(l, "10.0.0.1")

	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run for a denied request")
	}))
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req = req.WithContext(httpmw.WithClientIP(req.Context(), "10.0.0.1"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("code = %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "30" {
		t.Fatalf("Retry-After = %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Fatalf("Content-Type = %q", got)
	}
}

func TestCleanupEvictsIdleVisitors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := New(ctx, WithRate(1, 1), WithTTL(20*time.Millisecond))

	serve(l, "10.0.0.1")
	serve(l, "10.0.0.1") // denied, marks logged

	deadline := time.Now().Add(2 * time.Second)
	for {
		l.mu.Lock()
		n := len(l.visitors)
		l.mu.Unlock()
		if n == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("visitor never evicted, %d entries remain", n)
		}
		time.Sleep(5 * time.Millisecond)
	}

	// re-created entry gets a fresh bucket and a fresh first-denial log
	if code := serve(l, "10.0.0.1"); code != http.StatusOK {
		t.Fatalf("post-eviction request = %d, want 200", code)
	}
}
