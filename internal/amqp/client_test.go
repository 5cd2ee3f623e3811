package amqp

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},  // capped at 30s
		{10, 30 * time.Second}, // capped at 30s
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			result := exponentialBackoff(tt.attempt)
			if result != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, result, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("connection refused"), true},
		{"connection closed", errors.New("connection closed"), true},
		{"unexpected EOF", errors.New("unexpected EOF"), true},
		{"broken pipe", errors.New("broken pipe"), true},
		{"closed network connection", errors.New("use of closed network connection"), true},
		{"consume channel closed", errors.New("message channel closed"), true},
		{"other error", errors.New("some other error"), false},
		{"validation error", errors.New("invalid input"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := isConnectionError(tt.err)
			if result != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, result, tt.expected)
			}
		})
	}
}

func TestNewBatchIngestedMessage(t *testing.T) {
	msg := NewBatchIngestedMessage("u1", 42)

	if msg.UserID != "u1" {
		t.Errorf("UserID = %q", msg.UserID)
	}
	if msg.Count != 42 {
		t.Errorf("Count = %d", msg.Count)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

func TestBatchIngestedMessage_JSON(t *testing.T) {
	msg := &BatchIngestedMessage{
		UserID:    "u1",
		Count:     3,
		Timestamp: time.Date(2024, 9, 30, 12, 0, 0, 0, time.UTC),
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := BatchIngestedMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("BatchIngestedMessageFromJSON() error = %v", err)
	}
	if parsed.UserID != msg.UserID || parsed.Count != msg.Count || !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("round trip mismatch: %+v", parsed)
	}
}

func TestBatchIngestedMessage_InvalidJSON(t *testing.T) {
	if _, err := BatchIngestedMessageFromJSON([]byte(`{"count": "three"}`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
