package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/keithlinneman/linnemanlabs-api/internal/apperr"
	"github.com/keithlinneman/linnemanlabs-api/internal/httpmw"
	"github.com/keithlinneman/linnemanlabs-api/internal/xerrors"
)

// Fault endpoints trigger each error kind on demand, so the whole
// translation path can be exercised against a running server.
func registerFaultRoutes(r chi.Router) {
	r.Get("/validation", httpmw.E(func(http.ResponseWriter, *http.Request) error {
		return apperr.Validation("email", "must be a valid email address")
	}))
	r.Get("/business", httpmw.E(func(http.ResponseWriter, *http.Request) error {
		return apperr.Business("insufficient balance", map[string]any{
			"required": 100,
			"balance":  42,
		})
	}))
	r.Get("/conflict", httpmw.E(func(http.ResponseWriter, *http.Request) error {
		// declared status overrides the kind's default 400
		return apperr.Business("resource already exists", nil).WithStatus(http.StatusConflict)
	}))
	r.Get("/notfound", httpmw.E(func(http.ResponseWriter, *http.Request) error {
		return apperr.NotFound("demo resource")
	}))
	r.Get("/database", httpmw.E(func(http.ResponseWriter, *http.Request) error {
		return apperr.Database(xerrors.New("connection refused: db:5432"))
	}))
	r.Get("/external", httpmw.E(func(http.ResponseWriter, *http.Request) error {
		return apperr.External(xerrors.New("upstream returned 503"))
	}))
	r.Get("/unexpected", httpmw.E(func(http.ResponseWriter, *http.Request) error {
		// a plain error, classified to InternalError by the translator
		return xerrors.New("something went sideways")
	}))
	r.Get("/panic", func(http.ResponseWriter, *http.Request) {
		panic("deliberate demo panic")
	})
}
