package httpmw

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/keithlinneman/linnemanlabs-api/internal/log"
)

// newTestLogger returns a JSON logger writing into the buffer so tests
// can assert on emitted events.
func newTestLogger(t *testing.T, level slog.Level) (log.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	L, err := log.New(log.Options{
		App:             "test",
		JsonFormat:      true,
		Level:           level,
		StacktraceLevel: slog.LevelError,
		Writer:          &buf,
	})
	if err != nil {
		t.Fatalf("log.New: %v", err)
	}
	return L, &buf
}

// logLines decodes every JSON event in the buffer.
func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

// eventsWithMessage filters decoded events by their message field.
func eventsWithMessage(events []map[string]any, msg string) []map[string]any {
	var out []map[string]any
	for _, e := range events {
		if e["message"] == msg {
			out = append(out, e)
		}
	}
	return out
}

// pipeline composes the production middleware order around h.
func pipeline(L log.Logger, h http.Handler) http.Handler {
	return Chain(h,
		RequestID(""),
		ClientIP,
		Errors(L, nil),
		WithLogger(L),
		AccessLog(),
		Credentials("", nil),
	)
}
