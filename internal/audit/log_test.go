package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"sociohub.org/internal/auth"
	"sociohub.org/internal/obs"
)

func TestLogEvent(t *testing.T) {
	logger := obs.Logger()
	original := logger.Writer()
	logger.SetFlags(0)
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(original)

	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-123")
	ctx = auth.ContextWithUser(ctx, "user-42")

	if err := LogEvent(ctx, "member.add", map[string]any{"community_id": "c1"}); err != nil {
		t.Fatalf("LogEvent failed: %v", err)
	}

	line := buf.String()
	if line == "" {
		t.Fatal("expected log output")
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(line), &got); err != nil {
		t.Fatalf("log not valid JSON: %v", err)
	}
	if got["type"] != "audit" {
		t.Fatalf("unexpected type: %v", got["type"])
	}
	if got["event"] != "member.add" {
		t.Fatalf("unexpected event: %v", got["event"])
	}
	if got["request_id"] != "req-123" {
		t.Fatalf("unexpected request id: %v", got["request_id"])
	}
	if got["actor_id"] != "user-42" {
		t.Fatalf("unexpected actor id: %v", got["actor_id"])
	}
	fields, ok := got["fields"].(map[string]any)
	if !ok || fields["community_id"] != "c1" {
		t.Fatalf("unexpected fields: %v", got["fields"])
	}
}

func TestLogEventRequiresName(t *testing.T) {
	if err := LogEvent(context.Background(), "  ", nil); err == nil {
		t.Fatal("expected error for blank event name")
	}
}
