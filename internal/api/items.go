package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/keithlinneman/linnemanlabs-api/internal/apperr"
)

type Item struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type itemInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func decodeItem(r *http.Request) (itemInput, error) {
	var in itemInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return in, apperr.Validation("body", "request body is not valid JSON")
	}
	if strings.TrimSpace(in.Name) == "" {
		return in, apperr.Validation("name", "must not be empty")
	}
	return in, nil
}

func itemID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, apperr.Validation("id", "must be an integer")
	}
	return id, nil
}

func (a *API) listItems(w http.ResponseWriter, r *http.Request) error {
	a.mu.Lock()
	out := make([]Item, len(a.items))
	copy(out, a.items)
	a.mu.Unlock()

	return writeJSON(w, http.StatusOK, out)
}

func (a *API) getItem(w http.ResponseWriter, r *http.Request) error {
	id, err := itemID(r)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, it := range a.items {
		if it.ID == id {
			return writeJSON(w, http.StatusOK, it)
		}
	}
	return apperr.NotFound("item")
}

func (a *API) createItem(w http.ResponseWriter, r *http.Request) error {
	in, err := decodeItem(r)
	if err != nil {
		return err
	}

	a.mu.Lock()
	it := Item{ID: len(a.items) + 1, Name: in.Name, Description: in.Description}
	a.items = append(a.items, it)
	a.mu.Unlock()

	return writeJSON(w, http.StatusCreated, it)
}

func (a *API) updateItem(w http.ResponseWriter, r *http.Request) error {
	id, err := itemID(r)
	if err != nil {
		return err
	}
	in, err := decodeItem(r)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for i, it := range a.items {
		if it.ID == id {
			a.items[i] = Item{ID: id, Name: in.Name, Description: in.Description}
			return writeJSON(w, http.StatusOK, a.items[i])
		}
	}
	return apperr.NotFound("item")
}

func (a *API) deleteItem(w http.ResponseWriter, r *http.Request) error {
	id, err := itemID(r)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for i, it := range a.items {
		if it.ID == id {
			a.items = append(a.items[:i], a.items[i+1:]...)
			return writeJSON(w, http.StatusOK, map[string]string{"message": "item deleted successfully"})
		}
	}
	return apperr.NotFound("item")
}
