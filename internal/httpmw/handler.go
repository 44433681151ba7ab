package httpmw

import (
	"net/http"

	"github.com/keithlinneman/linnemanlabs-api/internal/apperr"
)

// HandlerFunc is a handler that declares failure by returning an error
// instead of writing its own error response.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// E adapts a HandlerFunc for the router. A returned error is
// classified, recorded on the request state, and written as the wire
// envelope; a nil return means the handler produced its own response.
func E(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			WriteError(w, r, err)
		}
	}
}

// WriteError translates err into the wire envelope. Handlers that
// cannot use the E adapter call this directly.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	e := apperr.Classify(err)
	if e == nil {
		return
	}

	reqID := RequestIDFromContext(r.Context())
	if st := StateFromContext(r.Context()); st != nil {
		st.RecordError(e)
		reqID = st.ID
	}

	apperr.Write(w, e, reqID)
}
