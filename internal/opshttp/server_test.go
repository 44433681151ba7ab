package opshttp

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/keithlinneman/linnemanlabs-api/internal/health"
	"github.com/keithlinneman/linnemanlabs-api/internal/log"
	"github.com/keithlinneman/linnemanlabs-api/internal/metrics"
)

func get(t *testing.T, mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, http.NoBody))
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	mux := NewMux(Options{
		Health:    health.Fixed(true, ""),
		Readiness: health.Fixed(true, ""),
	})

	if rec := get(t, mux, "/-/healthy"); rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Fatalf("/-/healthy = %d %q", rec.Code, rec.Body.String())
	}
	if rec := get(t, mux, "/-/ready"); rec.Code != http.StatusOK || rec.Body.String() != "ready\n" {
		t.Fatalf("/-/ready = %d %q", rec.Code, rec.Body.String())
	}
}

func TestReadyFlipsDuringDrain(t *testing.T) {
	var gate health.ShutdownGate
	mux := NewMux(Options{
		Health:    health.Fixed(true, ""),
		Readiness: health.All(gate.Probe()),
	})

	if rec := get(t, mux, "/-/ready"); rec.Code != http.StatusOK {
		t.Fatalf("open gate: /-/ready = %d", rec.Code)
	}

	gate.Set("draining")
	rec := get(t, mux, "/-/ready")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("closed gate: /-/ready = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "draining") {
		t.Fatalf("body = %q, want drain reason", rec.Body.String())
	}

	// liveness stays up through the drain
	if rec := get(t, mux, "/-/healthy"); rec.Code != http.StatusOK {
		t.Fatalf("closed gate: /-/healthy = %d", rec.Code)
	}
}

func TestNilProbesPass(t *testing.T) {
	mux := NewMux(Options{})
	if rec := get(t, mux, "/-/healthy"); rec.Code != http.StatusOK {
		t.Fatalf("nil health probe = %d", rec.Code)
	}
	if rec := get(t, mux, "/-/ready"); rec.Code != http.StatusOK {
		t.Fatalf("nil readiness probe = %d", rec.Code)
	}
}

func TestMetricsRoute(t *testing.T) {
	m := metrics.New()
	mux := NewMux(Options{Metrics: m.Handler()})

	rec := get(t, mux, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("/metrics = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Fatal("metrics output missing runtime collectors")
	}
}

func TestPprofToggle(t *testing.T) {
	on := NewMux(Options{EnablePprof: true})
	if rec := get(t, on, "/debug/pprof/"); rec.Code != http.StatusOK {
		t.Fatalf("pprof enabled: index = %d", rec.Code)
	}

	off := NewMux(Options{EnablePprof: false})
	if rec := get(t, off, "/debug/pprof/"); rec.Code != http.StatusNotFound {
		t.Fatalf("pprof disabled: index = %d", rec.Code)
	}
}

func TestStartAndShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop, err := Start(ctx, log.Nop(), Options{
		Port:      0, // 0 falls back to 9000; use a high port to avoid clashes
		Health:    health.Fixed(true, ""),
		Readiness: health.Fixed(true, ""),
	})
	if err != nil {
		t.Skipf("listen failed (port in use?): %v", err)
	}

	resp, err := http.Get("http://127.0.0.1:9000/-/healthy")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "ok\n" {
		t.Fatalf("healthy = %d %q", resp.StatusCode, body)
	}

	if err := stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	// stop is idempotent
	if err := stop(context.Background()); err != nil {
		t.Fatalf("second stop: %v", err)
	}
}
