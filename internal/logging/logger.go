package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Identifier is the SYSLOG_IDENTIFIER used for journal entries.
const Identifier = "hsv-inspector"

const historySize = 500

// Config is the [logging] section of the config file.
type Config struct {
	Level   string            `toml:"level"`
	Format  string            `toml:"format"`
	Modules map[string]string `toml:"modules"`
}

type registry struct {
	mu       sync.RWMutex
	config   Config
	ready    bool
	loggers  map[string]*slog.Logger
	levels   map[string]*slog.LevelVar
	root     *slog.LevelVar
	history  *RingBuffer
	onRecord LogCallback
}

var reg = newRegistry()

func newRegistry() *registry {
	return &registry{
		loggers: make(map[string]*slog.Logger),
		levels:  make(map[string]*slog.LevelVar),
		root:    &slog.LevelVar{},
		history: NewRingBuffer(historySize),
	}
}

// Initialize applies cfg to the default logger and every module logger,
// including ones handed out before the call.
func Initialize(cfg Config) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	reg.config = cfg
	reg.ready = true
	reg.root.Set(levelOr(cfg.Level, slog.LevelInfo))

	for module, lv := range reg.levels {
		lv.Set(reg.moduleLevel(module))
		reg.loggers[module] = slog.New(newHandler(cfg.Format, lv)).With("module", module)
	}

	slog.SetDefault(slog.New(newHandler(cfg.Format, reg.root)))
}

// GetLogger returns the logger for module. The returned logger follows later
// level changes made through Initialize or SetModuleLevel.
func GetLogger(module string) *slog.Logger {
	reg.mu.RLock()
	l, ok := reg.loggers[module]
	reg.mu.RUnlock()
	if ok {
		return l
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if l, ok := reg.loggers[module]; ok {
		return l
	}

	lv := &slog.LevelVar{}
	lv.Set(reg.moduleLevel(module))
	format := "text"
	if reg.ready {
		format = reg.config.Format
	}

	l = slog.New(newHandler(format, lv)).With("module", module)
	reg.loggers[module] = l
	reg.levels[module] = lv
	return l
}

// SetModuleLevel changes one module's level at runtime.
func SetModuleLevel(module, level string) error {
	lvl := parseLevel(level)
	if lvl == nil {
		return fmt.Errorf("unknown log level %q", level)
	}
	GetLogger(module)

	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.levels[module].Set(*lvl)
	if reg.config.Modules == nil {
		reg.config.Modules = make(map[string]string)
	}
	reg.config.Modules[module] = level
	return nil
}

// History returns the in-memory log history.
func History() *RingBuffer {
	return reg.history
}

// SetLogCallback registers the function that receives every buffered entry.
func SetLogCallback(cb LogCallback) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.onRecord = cb
}

func (r *registry) record(entry LogEntry) {
	r.history.Write(entry)

	r.mu.RLock()
	cb := r.onRecord
	r.mu.RUnlock()
	if cb != nil {
		cb(entry)
	}
}

// moduleLevel must be called with mu held.
func (r *registry) moduleLevel(module string) slog.Level {
	if !r.ready {
		return slog.LevelInfo
	}
	base := levelOr(r.config.Level, slog.LevelInfo)
	if s, ok := r.config.Modules[module]; ok {
		return levelOr(s, base)
	}
	return base
}

// newHandler builds the fan-out chain: stdout when attached, the journal when
// present, and always the history buffer.
func newHandler(format string, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}

	var stdout slog.Handler
	if format == "json" {
		stdout = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		stdout = slog.NewTextHandler(os.Stdout, opts)
	}

	handlers := make([]slog.Handler, 0, 3)
	if stdoutAttached() {
		handlers = append(handlers, stdout)
	}
	if IsJournalAvailable() {
		handlers = append(handlers, NewJournalHandler(level))
	}
	handlers = append(handlers, NewBufferHandler(level))

	if len(handlers) == 1 {
		return handlers[0]
	}
	return NewMultiHandler(handlers...)
}

// stdoutAttached is false when stdout is /dev/null or closed.
func stdoutAttached() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	m := fi.Mode()
	return m&os.ModeCharDevice != 0 || m&os.ModeNamedPipe != 0 || m&os.ModeSocket != 0 || m.IsRegular()
}

func levelOr(s string, fallback slog.Level) slog.Level {
	if l := parseLevel(s); l != nil {
		return *l
	}
	return fallback
}

func parseLevel(level string) *slog.Level {
	var l slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "warn", "warning":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		return nil
	}
	return &l
}
