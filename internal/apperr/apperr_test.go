package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/keithlinneman/linnemanlabs-api/internal/xerrors"
)

func TestKindDefaultStatus(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindValidation, 422},
		{KindBusiness, 400},
		{KindNotFound, 404},
		{KindDatabase, 500},
		{KindExternal, 502},
		{KindInternal, 500},
	}
	for _, c := range cases {
		if got := c.kind.DefaultStatus(); got != c.want {
			t.Fatalf("%s.DefaultStatus() = %d, want %d", c.kind, got, c.want)
		}
	}
}

func TestValidation_CarriesFieldAndIssue(t *testing.T) {
	e := Validation("email", "must be a valid address")
	if e.Kind != KindValidation || e.Status != http.StatusUnprocessableEntity {
		t.Fatalf("kind/status = %s/%d", e.Kind, e.Status)
	}
	if e.Details["field"] != "email" {
		t.Fatalf("details.field = %v", e.Details["field"])
	}
	if e.Details["issue"] != "must be a valid address" {
		t.Fatalf("details.issue = %v", e.Details["issue"])
	}
}

func TestClassify_DeclaredPassThrough(t *testing.T) {
	e := Business("quota exceeded", map[string]any{"limit": 10}).WithStatus(http.StatusConflict)
	got := Classify(e)
	if got.Kind != KindBusiness {
		t.Fatalf("kind = %s", got.Kind)
	}
	if got.Status != http.StatusConflict {
		t.Fatalf("status = %d, want declared 409", got.Status)
	}
	if got.Details["limit"] != 10 {
		t.Fatalf("details lost: %v", got.Details)
	}
}

func TestClassify_WrappedDeclared(t *testing.T) {
	base := NotFound("user")
	wrapped := fmt.Errorf("loading profile: %w", base)
	got := Classify(wrapped)
	if got.Kind != KindNotFound || got.Status != http.StatusNotFound {
		t.Fatalf("kind/status = %s/%d", got.Kind, got.Status)
	}
}

func TestClassify_UnknownBecomesInternal(t *testing.T) {
	got := Classify(errors.New("pq: connection reset"))
	if got.Kind != KindInternal {
		t.Fatalf("kind = %s, want InternalError", got.Kind)
	}
	if got.Status != http.StatusInternalServerError {
		t.Fatalf("status = %d", got.Status)
	}
	if got.Message != "an unexpected error occurred" {
		t.Fatalf("message leaked internals: %q", got.Message)
	}
	if got.Details != nil {
		t.Fatalf("internal error must not carry details: %v", got.Details)
	}
}

func TestClassify_Nil(t *testing.T) {
	if Classify(nil) != nil {
		t.Fatal("Classify(nil) should be nil")
	}
}

func TestDatabase_HidesCause(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.5:5432: connection refused")
	e := Database(cause)
	if e.Message == cause.Error() {
		t.Fatal("database error message exposes the cause")
	}
	if !errors.Is(e, cause) {
		t.Fatal("cause not reachable via Unwrap for logging")
	}
}

func TestClassify_StripsDetailsForUnsafeKinds(t *testing.T) {
	e := &Error{Kind: KindDatabase, Details: map[string]any{"dsn": "postgres://secret"}}
	got := Classify(e)
	if got.Details != nil {
		t.Fatalf("unsafe kind retained details: %v", got.Details)
	}
}

func TestFromPanic(t *testing.T) {
	e := FromPanic("index out of range")
	if e.Kind != KindInternal || e.Status != http.StatusInternalServerError {
		t.Fatalf("kind/status = %s/%d", e.Kind, e.Status)
	}
	hs, ok := e.Err.(interface{ StackPCs() []uintptr })
	if !ok || len(hs.StackPCs()) == 0 {
		t.Fatal("panic error lost its recovery-site stack")
	}

	cause := xerrors.New("wrapped panic cause")
	e2 := FromPanic(cause)
	if !errors.Is(e2, cause) {
		t.Fatal("error panic value not preserved as cause")
	}
}
