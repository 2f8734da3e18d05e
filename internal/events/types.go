package events

// Event type constants for kelindar/event.
const (
	TypeControlChanged uint32 = iota + 1
	TypeFrameStats
	TypeLoopState
	TypePresetReloaded
	TypeLogEntry
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// ControlChangedEvent is published whenever a control takes a new value.
type ControlChangedEvent struct {
	Name      string `json:"name" example:"hue-min" doc:"Control slug"`
	Label     string `json:"label" example:"Hue (min)" doc:"Control label"`
	Value     int    `json:"value" example:"20" doc:"New value"`
	Min       int    `json:"min" example:"0" doc:"Lower bound"`
	Max       int    `json:"max" example:"179" doc:"Upper bound"`
	Source    string `json:"source" example:"api" doc:"Origin of the change: api, preset or reset"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for ControlChangedEvent.
func (e ControlChangedEvent) Type() uint32 { return TypeControlChanged }

// FrameStatsEvent carries periodic loop statistics.
type FrameStatsEvent struct {
	Frames     uint64 `json:"frames" example:"1200" doc:"Frames processed since start"`
	FPS        string `json:"fps" example:"29.97" doc:"Frames per second over the last interval"`
	CycleMs    string `json:"cycle_ms" example:"4.20" doc:"Duration of the last cycle in milliseconds"`
	LockHoldUs string `json:"lock_hold_us" example:"35" doc:"Duration the segment lock was last held in microseconds"`
	Coverage   string `json:"coverage" example:"0.1834" doc:"Fraction of pixels included by the mask"`
	Timestamp  string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for FrameStatsEvent.
func (e FrameStatsEvent) Type() uint32 { return TypeFrameStats }

// LoopStateEvent is published when the inspection loop changes state.
type LoopStateEvent struct {
	State     string `json:"state" example:"running" doc:"running or terminated"`
	Reason    string `json:"reason,omitempty" example:"cancelled" doc:"Why the state changed"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for LoopStateEvent.
func (e LoopStateEvent) Type() uint32 { return TypeLoopState }

// PresetReloadedEvent is published after a controls preset file was applied.
type PresetReloadedEvent struct {
	Path      string `json:"path" example:"controls.toml" doc:"Preset file"`
	Applied   int    `json:"applied" example:"3" doc:"Number of controls set from the file"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for PresetReloadedEvent.
func (e PresetReloadedEvent) Type() uint32 { return TypePresetReloaded }

// LogEntryEvent represents a log entry for SSE streaming.
type LogEntryEvent struct {
	Timestamp  string         `json:"timestamp" example:"2025-01-09T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"loop" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

// Type returns the event type identifier for LogEntryEvent.
func (e LogEntryEvent) Type() uint32 { return TypeLogEntry }
