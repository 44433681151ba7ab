package httpmw

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// DefaultRequestIDHeader is the header checked for an inbound
// correlation ID and used to echo it back on the response.
const DefaultRequestIDHeader = "X-Request-Id"

// maxRequestIDLen caps inbound IDs so a hostile client cannot stuff
// the logs through the echo path.
const maxRequestIDLen = 128

type requestIDKey struct{}

// WithRequestID attaches a request ID to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext gets the request ID from context, or "" if none.
func RequestIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(requestIDKey{}).(string); ok {
		return s
	}
	return ""
}

// RequestID is the outermost stage of the chain. It propagates an
// inbound correlation ID when one is usable, mints a UUID otherwise,
// echoes the ID on the response, and plants the per-request State that
// the rest of the chain reports into.
func RequestID(headerName string) func(http.Handler) http.Handler {
	if headerName == "" {
		headerName = DefaultRequestIDHeader
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(headerName))
			if id == "" || len(id) > maxRequestIDLen {
				id = uuid.NewString()
			}

			st := &State{ID: id}
			ctx := WithRequestID(r.Context(), id)
			ctx = WithState(ctx, st)

			// echo the ID so clients and traces can correlate
			w.Header().Set(headerName, id)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
