package httpmw

import (
	"context"
	"sync"

	"github.com/keithlinneman/linnemanlabs-api/internal/apperr"
	"github.com/keithlinneman/linnemanlabs-api/internal/identity"
)

// State is the per-request scratchpad shared by the middleware chain.
// Contexts only flow downward, so the outermost middleware plants a
// pointer and inner stages write their results back through it.
type State struct {
	mu sync.Mutex

	// ID is the correlation ID assigned by RequestID.
	ID string

	// Identity is set by Credentials when a bearer token decoded.
	Identity identity.Identity

	// Error outcome recorded by WriteError or the panic recovery path.
	ErrKind   apperr.Kind
	ErrStatus int
	Err       error

	// loggedEnd flips once the terminal access event is emitted, so
	// recovery paths further out do not emit a second one.
	loggedEnd bool

	extra map[string]any
}

// RecordError notes the classified error so the access log can report
// the request's outcome. The first recorded error wins.
func (st *State) RecordError(e *apperr.Error) {
	if st == nil || e == nil {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.Err != nil {
		return
	}
	st.ErrKind = e.Kind
	st.ErrStatus = e.Status
	st.Err = e
}

// Outcome returns the recorded error, or nil for a clean request.
func (st *State) Outcome() (apperr.Kind, error) {
	if st == nil {
		return "", nil
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.ErrKind, st.Err
}

func (st *State) SetIdentity(id identity.Identity) {
	if st == nil {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.Identity = id
}

// UserID returns the decoded subject for the terminal event, or nil so
// the field serializes as null for anonymous requests.
func (st *State) UserID() any {
	if st == nil {
		return nil
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.Identity.Subject == "" {
		return nil
	}
	return st.Identity.Subject
}

// AddExtra attaches a handler-supplied field to the terminal event.
func (st *State) AddExtra(key string, value any) {
	if st == nil {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.extra == nil {
		st.extra = make(map[string]any)
	}
	st.extra[key] = value
}

// ExtraFields snapshots the handler-supplied fields. Never nil, so the
// terminal event always carries an extra object.
func (st *State) ExtraFields() map[string]any {
	out := make(map[string]any)
	if st == nil {
		return out
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	for k, v := range st.extra {
		out[k] = v
	}
	return out
}

// claimTerminal reports whether the caller is the one that should emit
// the terminal event. Exactly one caller per request gets true.
func (st *State) claimTerminal() bool {
	if st == nil {
		return false
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.loggedEnd {
		return false
	}
	st.loggedEnd = true
	return true
}

type stateKey struct{}

// WithState attaches the request state to the context.
func WithState(ctx context.Context, st *State) context.Context {
	if st == nil {
		return ctx
	}
	return context.WithValue(ctx, stateKey{}, st)
}

// StateFromContext returns the request state, or nil outside the chain.
func StateFromContext(ctx context.Context) *State {
	st, _ := ctx.Value(stateKey{}).(*State)
	return st
}

// AddLogField is the handler-facing way to decorate the terminal access
// event. Outside the middleware chain it is a no-op.
func AddLogField(ctx context.Context, key string, value any) {
	StateFromContext(ctx).AddExtra(key, value)
}
