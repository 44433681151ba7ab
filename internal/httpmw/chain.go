package httpmw

import (
	"net/http"
)

// Chain wraps h so that the first middleware in the list runs
// outermost and the last runs closest to the handler.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	wrapped := h

	// Apply in reverse: last mw in the slice wraps the handler first.
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		wrapped = mws[i](wrapped)
	}

	return wrapped
}
