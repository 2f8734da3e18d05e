package events

import (
	"time"

	"github.com/smazurov/hsv-inspector/internal/logging"
)

// FromLogEntry converts a log history entry into its bus event.
func FromLogEntry(e logging.LogEntry) LogEntryEvent {
	return LogEntryEvent{
		Timestamp:  e.Timestamp.Format(time.RFC3339Nano),
		Level:      e.Level,
		Module:     e.Module,
		Message:    e.Message,
		Attributes: e.Attributes,
	}
}
