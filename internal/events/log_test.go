package events

import (
	"testing"
	"time"

	"github.com/smazurov/hsv-inspector/internal/logging"
)

func TestFromLogEntry(t *testing.T) {
	ev := FromLogEntry(logging.LogEntry{
		Timestamp:  time.Date(2025, 1, 27, 10, 30, 0, 500, time.UTC),
		Level:      "warn",
		Module:     "shm",
		Message:    "lock slow",
		Attributes: map[string]any{"wait": "3ms"},
	})

	if ev.Timestamp != "2025-01-27T10:30:00.0000005Z" {
		t.Errorf("Timestamp = %q", ev.Timestamp)
	}
	if ev.Level != "warn" || ev.Module != "shm" || ev.Message != "lock slow" || ev.Attributes["wait"] != "3ms" {
		t.Errorf("unexpected event %+v", ev)
	}
	if ev.Type() != TypeLogEntry {
		t.Errorf("Type() = %d, want %d", ev.Type(), TypeLogEntry)
	}
}
