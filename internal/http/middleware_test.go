package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"budgetai/internal/log"
)

func TestMiddlewareLogFields(t *testing.T) {
	srv, provider := newTestServer(t)
	cookie := sessionCookie(t, provider, "U1")

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	r := httptest.NewRequest(http.MethodGet, "/query/transactions", nil)
	r.AddCookie(cookie)
	if rec := do(srv, r); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var completed map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var record map[string]any
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			t.Fatalf("unmarshal log line %q: %v", line, err)
		}
		if record["msg"] == "Request completed" {
			completed = record
		}
	}
	if completed == nil {
		t.Fatal("no completion record logged")
	}
	for _, key := range []string{
		log.FieldRequestID, log.FieldMethod, log.FieldPath,
		log.FieldStatus, log.FieldDuration, log.FieldClientIP,
	} {
		if _, ok := completed[key]; !ok {
			t.Errorf("completion record missing %q", key)
		}
	}
}
