package httpmw

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRequestID_Generates(t *testing.T) {
	var gotID string
	var gotState *State
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = RequestIDFromContext(r.Context())
		gotState = StateFromContext(r.Context())
	})

	rec := httptest.NewRecorder()
	RequestID("")(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	if gotID == "" {
		t.Fatal("no request ID in context")
	}
	if _, err := uuid.Parse(gotID); err != nil {
		t.Fatalf("generated ID %q is not a UUID: %v", gotID, err)
	}
	if rec.Header().Get(DefaultRequestIDHeader) != gotID {
		t.Fatalf("response header = %q, context = %q", rec.Header().Get(DefaultRequestIDHeader), gotID)
	}
	if gotState == nil || gotState.ID != gotID {
		t.Fatalf("state = %+v", gotState)
	}
}

func TestRequestID_PropagatesInbound(t *testing.T) {
	var gotID string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = RequestIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set(DefaultRequestIDHeader, "upstream-id-42")
	rec := httptest.NewRecorder()
	RequestID("")(h).ServeHTTP(rec, req)

	if gotID != "upstream-id-42" {
		t.Fatalf("request ID = %q, want propagated upstream-id-42", gotID)
	}
	if rec.Header().Get(DefaultRequestIDHeader) != "upstream-id-42" {
		t.Fatalf("echo header = %q", rec.Header().Get(DefaultRequestIDHeader))
	}
}

func TestRequestID_RejectsOversizedInbound(t *testing.T) {
	var gotID string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = RequestIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set(DefaultRequestIDHeader, strings.Repeat("x", maxRequestIDLen+1))
	RequestID("")(h).ServeHTTP(httptest.NewRecorder(), req)

	if strings.Contains(gotID, "xxx") {
		t.Fatalf("oversized inbound ID was propagated: %q", gotID)
	}
	if _, err := uuid.Parse(gotID); err != nil {
		t.Fatalf("replacement ID %q is not a UUID", gotID)
	}
}

func TestRequestID_CustomHeader(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set("X-Correlation-Id", "corr-1")
	rec := httptest.NewRecorder()
	RequestID("X-Correlation-Id")(h).ServeHTTP(rec, req)

	if rec.Header().Get("X-Correlation-Id") != "corr-1" {
		t.Fatalf("custom header = %q", rec.Header().Get("X-Correlation-Id"))
	}
}

func TestRequestIDFromContext_Empty(t *testing.T) {
	if got := RequestIDFromContext(t.Context()); got != "" {
		t.Fatalf("bare context produced ID %q", got)
	}
}
