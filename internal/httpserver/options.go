package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/keithlinneman/linnemanlabs-api/internal/health"
	"github.com/keithlinneman/linnemanlabs-api/internal/httpmw"
	"github.com/keithlinneman/linnemanlabs-api/internal/identity"
	"github.com/keithlinneman/linnemanlabs-api/internal/log"
)

type Options struct {
	Logger log.Logger
	Port   int

	Health    health.Probe
	Readiness health.Probe

	// APIRoutes registers the application's routes on the router.
	APIRoutes func(chi.Router)

	// MetricsMW and RateLimitMW are injected so this package does not
	// depend on their packages directly.
	MetricsMW   func(http.Handler) http.Handler
	RateLimitMW func(http.Handler) http.Handler

	// OnPanic fires when the translation boundary recovers a panic.
	OnPanic func()

	// ObserveCredential receives every credential decode outcome.
	ObserveCredential func(identity.Status)

	AuthHeader      string
	RequestIDHeader string
	ClientIPOpts    httpmw.ClientIPOptions
	MaxBodyBytes    int64
}
