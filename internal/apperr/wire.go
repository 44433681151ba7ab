package apperr

import (
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// Envelope is the wire body for every failed request. The schema is
// stable: clients and log tooling both key off it.
type Envelope struct {
	Error     string         `json:"error"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details"`
	Timestamp time.Time      `json:"timestamp"`
	RequestID string         `json:"request_id"`
}

// Envelope renders the error for the wire, stamping the current time
// and the request's correlation id.
func (e *Error) Envelope(requestID string) Envelope {
	return Envelope{
		Error:     string(e.Kind),
		Message:   e.Message,
		Details:   e.Details,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}

// Write serializes the envelope with the error's status code. Encoding
// an Envelope cannot fail in practice; a broken client connection is
// not recoverable here and is ignored.
func Write(w http.ResponseWriter, e *Error, requestID string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Status)
	_ = json.NewEncoder(w).Encode(e.Envelope(requestID))
}

// Decode parses a wire envelope, for clients and tests.
func Decode(r io.Reader) (Envelope, error) {
	var env Envelope
	err := json.NewDecoder(r).Decode(&env)
	return env, err
}
