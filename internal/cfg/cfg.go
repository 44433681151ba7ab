// Package cfg holds the server configuration: flag registration with
// inline defaults, env-var fill for flags not set on the CLI, and
// whole-config validation with joined errors.
package cfg

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/keithlinneman/linnemanlabs-api/internal/log"
)

type App struct {
	LogJSON         bool
	LogLevel        string
	LogDest         string
	StacktraceLevel string

	HTTPPort  int
	AdminPort int

	AuthHeader      string
	RequestIDHeader string
	TrustedHops     int
	MaxBodyBytes    int64

	EnablePprof     bool
	EnableTracing   bool
	EnablePyroscope bool
	OTLPEndpoint    string
	TraceSample     float64
	PyroServer      string
	PyroTenantID    string

	RatePerSecond float64
	RateBurst     int
}

// Register binds all config fields to the given FlagSet with defaults inline
func Register(fs *flag.FlagSet, c *App) {
	fs.BoolVar(&c.LogJSON, "log-json", true, "JSON logs (true) or logfmt (false)")
	fs.StringVar(&c.LogLevel, "log-level", "info", "debug|info|warning|error|critical")
	fs.StringVar(&c.LogDest, "log-dest", "stdout", "log destination (stdout|stderr|file path)")
	fs.StringVar(&c.StacktraceLevel, "stacktrace-level", "error", "minimum level that captures stacks")
	fs.IntVar(&c.HTTPPort, "http-port", 8080, "listen TCP port (1..65535)")
	fs.IntVar(&c.AdminPort, "admin-port", 9000, "admin listen TCP port (1..65535)")
	fs.StringVar(&c.AuthHeader, "auth-header", "Authorization", "header carrying the bearer credential")
	fs.StringVar(&c.RequestIDHeader, "request-id-header", "X-Request-Id", "header carrying/echoing the correlation id")
	fs.IntVar(&c.TrustedHops, "trusted-hops", 0, "trusted reverse proxies for X-Forwarded-For (0 ignores the header)")
	fs.Int64Var(&c.MaxBodyBytes, "max-body-bytes", 1<<20, "request body size limit in bytes")
	fs.BoolVar(&c.EnablePprof, "enable-pprof", true, "Enable pprof profiling (on admin port only)")
	fs.BoolVar(&c.EnableTracing, "enable-tracing", false, "Enable OTLP tracing and push to otlp-endpoint")
	fs.BoolVar(&c.EnablePyroscope, "enable-pyroscope", false, "Enable pushing Pyroscope data to server set in -pyro-server")
	fs.StringVar(&c.OTLPEndpoint, "otlp-endpoint", "", "OTLP endpoint to push to (gRPC) (host:port)")
	fs.Float64Var(&c.TraceSample, "trace-sample", 0.0, "trace sampling ratio (0..1)")
	fs.StringVar(&c.PyroServer, "pyro-server", "", "pyroscope server url to push to")
	fs.StringVar(&c.PyroTenantID, "pyro-tenant", "", "tenant (x-scope-orgid) to use for pyro-server")
	fs.Float64Var(&c.RatePerSecond, "rate-per-second", 10, "per-IP request refill rate")
	fs.IntVar(&c.RateBurst, "rate-burst", 30, "per-IP request burst ceiling")
}

// FillFromEnv sets any flag not explicitly passed on the CLI from
// environment variables. Flag "foo-bar" maps to PREFIX_FOO_BAR.
// Precedence: cli flag > env var > default.
func FillFromEnv(fs *flag.FlagSet, prefix string, logf func(string, ...any)) {
	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	fs.VisitAll(func(f *flag.Flag) {
		key := prefix + strings.ReplaceAll(strings.ToUpper(f.Name), "-", "_")
		envVal, envSet := os.LookupEnv(key)
		if !envSet {
			return
		}
		if explicit[f.Name] {
			if logf != nil {
				logf("flag -%s: cli value %q overrides env %s=%q", f.Name, f.Value.String(), key, envVal)
			}
			return
		}
		prev := f.Value.String()
		if err := fs.Set(f.Name, envVal); err != nil {
			fs.Set(f.Name, prev)
			if logf != nil {
				logf("flag -%s: ignoring invalid env %s=%q: %v", f.Name, key, envVal, err)
			}
		}
	})
}

// Validate checks that config values are within expected ranges and formats.
// Returns an error describing all invalid fields, or nil if all valid.
func Validate(c App) error {
	var errs []error

	// Ports
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP_PORT %d (must be 1..65535)", c.HTTPPort))
	}
	if c.AdminPort < 1 || c.AdminPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid ADMIN_PORT %d (must be 1..65535)", c.AdminPort))
	}
	if c.AdminPort == c.HTTPPort {
		errs = append(errs, fmt.Errorf("ADMIN_PORT and HTTP_PORT must differ (both %d)", c.HTTPPort))
	}

	// Log levels
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err))
	}
	if c.StacktraceLevel != "" {
		if _, err := log.ParseLevel(c.StacktraceLevel); err != nil {
			errs = append(errs, fmt.Errorf("invalid STACKTRACE_LEVEL %q: %w", c.StacktraceLevel, err))
		}
	}
	if c.LogDest == "" {
		errs = append(errs, fmt.Errorf("LOG_DEST must be stdout, stderr, or a file path"))
	}

	// Header names: tokens only, no whitespace
	if !validHeaderName(c.AuthHeader) {
		errs = append(errs, fmt.Errorf("invalid AUTH_HEADER %q", c.AuthHeader))
	}
	if !validHeaderName(c.RequestIDHeader) {
		errs = append(errs, fmt.Errorf("invalid REQUEST_ID_HEADER %q", c.RequestIDHeader))
	}

	if c.TrustedHops < 0 || c.TrustedHops > 16 {
		errs = append(errs, fmt.Errorf("TRUSTED_HOPS must be 0..16 (got %d)", c.TrustedHops))
	}
	if c.MaxBodyBytes < 1 {
		errs = append(errs, fmt.Errorf("MAX_BODY_BYTES must be positive (got %d)", c.MaxBodyBytes))
	}

	// Tracing sample
	if c.TraceSample < 0 || c.TraceSample > 1 {
		errs = append(errs, fmt.Errorf("invalid TRACE_SAMPLE %.3f (must be 0..1)", c.TraceSample))
	}

	// OTLP tracing (grpc exporter wants host:port, no scheme)
	if c.EnableTracing {
		if c.OTLPEndpoint == "" {
			errs = append(errs, fmt.Errorf("OTLP_ENDPOINT required when ENABLE_TRACING=true"))
		} else if _, _, err := net.SplitHostPort(c.OTLPEndpoint); err != nil {
			errs = append(errs, fmt.Errorf("OTLP_ENDPOINT must be host:port (got %q): %v", c.OTLPEndpoint, err))
		}
	}

	// Pyroscope (URL, scheme, tenant)
	if c.EnablePyroscope {
		if c.PyroServer == "" {
			errs = append(errs, fmt.Errorf("PYRO_SERVER required when ENABLE_PYROSCOPE=true"))
		} else if u, err := url.Parse(c.PyroServer); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("PYRO_SERVER must be a URL (got %q)", c.PyroServer))
		}
		if c.PyroTenantID == "" {
			errs = append(errs, fmt.Errorf("PYRO_TENANT required when ENABLE_PYROSCOPE=true"))
		}
	}

	// Rate limiter
	if c.RatePerSecond <= 0 {
		errs = append(errs, fmt.Errorf("RATE_PER_SECOND must be positive (got %g)", c.RatePerSecond))
	}
	if c.RateBurst < 1 {
		errs = append(errs, fmt.Errorf("RATE_BURST must be at least 1 (got %d)", c.RateBurst))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func validHeaderName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
		default:
			return false
		}
	}
	return true
}
