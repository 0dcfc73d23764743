package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, DEBUG)

	l.Log(INFO, "user enrolled", "message_id", "msg-1", "bootcamp_id", 7)

	var entry map[string]string
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("entry is not JSON: %v (%q)", err, buf.String())
	}
	if entry["level"] != "INFO" || entry["msg"] != "user enrolled" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry["message_id"] != "msg-1" || entry["bootcamp_id"] != "7" {
		t.Fatalf("fields not recorded: %v", entry)
	}
	if entry["time"] == "" {
		t.Fatal("expected a timestamp")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, WARN)

	l.Log(DEBUG, "dropped")
	l.Log(INFO, "dropped")
	l.Log(WARN, "kept")
	l.Log(ERROR, "kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 entries, got %d: %q", len(lines), buf.String())
	}
}

func TestTrailingKeyDropped(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, DEBUG)

	l.Log(INFO, "msg", "key_without_value")

	var entry map[string]string
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("entry is not JSON: %v", err)
	}
	if _, ok := entry["key_without_value"]; ok {
		t.Fatal("trailing key must be dropped")
	}
}
