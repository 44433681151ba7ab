package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/keithlinneman/linnemanlabs-api/internal/apperr"
	"github.com/keithlinneman/linnemanlabs-api/internal/httpmw"
)

type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (a *API) listUsers(w http.ResponseWriter, r *http.Request) error {
	a.mu.Lock()
	out := make([]User, len(a.users))
	copy(out, a.users)
	a.mu.Unlock()

	httpmw.AddLogField(r.Context(), "users_returned", len(out))
	return writeJSON(w, http.StatusOK, out)
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request) error {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return apperr.Validation("id", "must be an integer")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, u := range a.users {
		if u.ID == id {
			return writeJSON(w, http.StatusOK, u)
		}
	}
	return apperr.NotFound("user")
}

func (a *API) createUser(w http.ResponseWriter, r *http.Request) error {
	var in struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return apperr.Validation("body", "request body is not valid JSON")
	}
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Validation("name", "must not be empty")
	}
	if !strings.Contains(in.Email, "@") {
		return apperr.Validation("email", "must be a valid email address")
	}

	a.mu.Lock()
	u := User{ID: len(a.users) + 1, Name: in.Name, Email: in.Email}
	a.users = append(a.users, u)
	a.mu.Unlock()

	return writeJSON(w, http.StatusCreated, u)
}
