package httpmw

import (
	"bufio"
	"fmt"
	"net"
	"net/http"

	"github.com/keithlinneman/linnemanlabs-api/internal/apperr"
	"github.com/keithlinneman/linnemanlabs-api/internal/log"
)

// statusWriter tracks whether headers were sent, so the recovery path
// knows if an envelope can still be written.
type statusWriter struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (sw *statusWriter) WriteHeader(code int) {
	if !sw.wrote {
		sw.status = code
		sw.wrote = true
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if !sw.wrote {
		sw.status = http.StatusOK
		sw.wrote = true
	}
	return sw.ResponseWriter.Write(b)
}

func (sw *statusWriter) Flush() {
	if f, ok := sw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (sw *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := sw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("underlying ResponseWriter does not implement http.Hijacker")
	}
	return h.Hijack()
}

// Errors is the translation boundary: nothing escapes it except the
// wire envelope. Panics from anywhere inside the chain are converted
// to an internal error response, as long as headers have not gone out.
// The access log stage normally emits the terminal event and re-panics
// so the request still reaches this recovery; base is only used for
// the rare request that died before the logging stage could cover it.
func Errors(base log.Logger, onPanic func()) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w}

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					// net/http convention: let the server abort the connection
					panic(rec)
				}

				e := apperr.FromPanic(rec)
				st := StateFromContext(r.Context())
				reqID := RequestIDFromContext(r.Context())
				if st != nil {
					st.RecordError(e)
					reqID = st.ID
				}

				if !sw.wrote {
					apperr.Write(sw, e, reqID)
				}

				if onPanic != nil {
					onPanic()
				}

				if st.claimTerminal() {
					base.Error(r.Context(), e.Err, "request failed",
						"request_id", reqID,
						"method", r.Method,
						"path", r.URL.Path,
						"status_code", http.StatusInternalServerError,
					)
				}
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
