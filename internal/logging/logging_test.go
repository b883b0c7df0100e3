package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestWithContext_AddsTraceUserAndRole(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug", "test")

	ctx := WithTraceID(context.Background(), "trace-1")
	ctx = WithUserID(ctx, "user-1")
	ctx = WithRole(ctx, "admin")

	log.WithContext(ctx).Info("hello")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["trace_id"] != "trace-1" {
		t.Errorf("trace_id = %v, want trace-1", entry["trace_id"])
	}
	if entry["user_id"] != "user-1" {
		t.Errorf("user_id = %v, want user-1", entry["user_id"])
	}
	if entry["role"] != "admin" {
		t.Errorf("role = %v, want admin", entry["role"])
	}
	if entry["service"] != "test" {
		t.Errorf("service = %v, want test", entry["service"])
	}
}

func TestLogRequest_LevelsByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{200, "info"},
		{404, "warn"},
		{500, "error"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		log := New(&buf, "debug", "test")
		log.LogRequest(context.Background(), "GET", "/x", tt.status, time.Millisecond)

		var entry map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("unmarshal log line: %v", err)
		}
		if entry["level"] != tt.level {
			t.Errorf("status %d: level = %v, want %s", tt.status, entry["level"], tt.level)
		}
	}
}

func TestGetters_EmptyContext(t *testing.T) {
	ctx := context.Background()
	if GetTraceID(ctx) != "" || GetUserID(ctx) != "" || GetRole(ctx) != "" {
		t.Error("expected empty values from background context")
	}
}

func TestNewTraceID_Unique(t *testing.T) {
	if NewTraceID() == NewTraceID() {
		t.Error("trace IDs should be unique")
	}
}
