package httpmw

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/keithlinneman/linnemanlabs-api/internal/apperr"
	"github.com/keithlinneman/linnemanlabs-api/internal/log"
)

// accessWriter captures status and bytes for the terminal event.
type accessWriter struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (aw *accessWriter) WriteHeader(code int) {
	if aw.status == 0 {
		aw.status = code
	}
	aw.ResponseWriter.WriteHeader(code)
}

func (aw *accessWriter) Write(b []byte) (int, error) {
	if aw.status == 0 {
		aw.status = http.StatusOK
	}
	n, err := aw.ResponseWriter.Write(b)
	aw.bytes += int64(n)
	return n, err
}

func (aw *accessWriter) Flush() {
	if f, ok := aw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (aw *accessWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := aw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("underlying ResponseWriter does not implement http.Hijacker")
	}
	return h.Hijack()
}

// WithLogger binds a request-scoped logger into the context so every
// event below this point carries the correlation ID. The active span,
// if any, is annotated the same way.
func WithLogger(base log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			reqID := RequestIDFromContext(ctx)

			clientAddr := ClientIPFromContext(ctx)
			if clientAddr == "" {
				clientAddr = r.RemoteAddr
				if host, _, err := net.SplitHostPort(clientAddr); err == nil {
					clientAddr = host
				}
			}

			if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
				span.SetAttributes(
					attribute.String("request_id", reqID),
					attribute.String("client.address", clientAddr),
				)
			}

			L := base.With(
				"request_id", reqID,
				"client.address", clientAddr,
			)
			ctx = log.WithContext(ctx, L)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccessLog emits exactly one terminal event per request: a completion
// line on the normal path, a failure line when the handler panicked.
// The panic is re-raised after logging so the translation boundary can
// still produce the wire envelope.
func AccessLog() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()
			st := StateFromContext(ctx)
			L := log.FromContext(ctx)

			L.Debug(ctx, "request started",
				"method", r.Method,
				"path", r.URL.Path,
			)

			aw := &accessWriter{ResponseWriter: w}

			defer func() {
				rec := recover()

				status := aw.status
				if rec != nil {
					status = http.StatusInternalServerError
					if rec != http.ErrAbortHandler {
						st.RecordError(apperr.FromPanic(rec))
					}
				}
				if status == 0 {
					status = http.StatusOK
				}

				if st == nil || st.claimTerminal() {
					fields := []any{
						"user_id", st.UserID(),
						"method", r.Method,
						"path", r.URL.Path,
						"status_code", status,
						"duration_ms", float64(time.Since(start)) / float64(time.Millisecond),
						"extra", st.ExtraFields(),
					}
					_, err := st.Outcome()
					switch {
					case status >= 500:
						L.Error(ctx, err, "request failed", fields...)
					case status >= 400:
						L.Warn(ctx, "request completed", fields...)
					default:
						L.Info(ctx, "request completed", fields...)
					}
				}

				if rec != nil {
					panic(rec)
				}
			}()

			next.ServeHTTP(aw, r)
		})
	}
}
