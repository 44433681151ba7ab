package httpmw

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AnnotateRoute sets the OTel http.route attribute and span name from
// the chi route pattern, which is only known after routing ran.
func AnnotateRoute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)

		ctx := r.Context()
		routePat := RoutePattern(ctx, r)

		span := trace.SpanFromContext(ctx)
		if span == nil || !span.IsRecording() {
			return
		}
		span.SetAttributes(attribute.String("http.route", routePat))
		span.SetName(r.Method + " " + routePat)
	})
}

// RoutePattern returns the matched chi pattern, falling back to the
// raw path before routing has happened.
func RoutePattern(ctx context.Context, r *http.Request) string {
	if rc := chi.RouteContext(ctx); rc != nil {
		if pat := rc.RoutePattern(); pat != "" {
			return pat
		}
	}
	return r.URL.Path
}
