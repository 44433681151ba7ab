// Package api holds the demo API surface: users, items, and the fault
// endpoints used to exercise every error kind end to end. Storage is
// in-memory; the point of these routes is the pipeline around them.
package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/keithlinneman/linnemanlabs-api/internal/httpmw"
)

type API struct {
	mu    sync.Mutex
	users []User
	items []Item
}

// New returns an API seeded with sample data.
func New() *API {
	return &API{
		users: []User{
			{ID: 1, Name: "User 1", Email: "user1@example.com"},
			{ID: 2, Name: "User 2", Email: "user2@example.com"},
		},
		items: []Item{
			{ID: 1, Name: "Item 1", Description: "This is item 1"},
			{ID: 2, Name: "Item 2", Description: "This is item 2"},
		},
	}
}

// RegisterRoutes mounts the API under /api/v1.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Get("/", httpmw.E(a.listUsers))
			r.Post("/", httpmw.E(a.createUser))
			r.Get("/{id}", httpmw.E(a.getUser))
		})
		r.Route("/items", func(r chi.Router) {
			r.Get("/", httpmw.E(a.listItems))
			r.Post("/", httpmw.E(a.createItem))
			r.Get("/{id}", httpmw.E(a.getItem))
			r.Put("/{id}", httpmw.E(a.updateItem))
			r.Delete("/{id}", httpmw.E(a.deleteItem))
		})
		r.Route("/errors", func(r chi.Router) {
			registerFaultRoutes(r)
		})
	})
}

// writeJSON renders v with the given status. Encoding failures at this
// point cannot be reported to the client; they surface in the log via
// the returned error.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
