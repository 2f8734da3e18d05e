package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/cobra"
)

type testOptions struct {
	Config string `help:"Config file path"`

	Name         string   `toml:"segment.name" env:"SEGMENT_NAME"`
	Width        int      `toml:"segment.width" env:"SEGMENT_WIDTH"`
	ShowRaw      bool     `toml:"display.show_raw" env:"DISPLAY_SHOW_RAW"`
	PollInterval string   `toml:"display.poll_interval" env:"DISPLAY_POLL_INTERVAL"`
	Views        []string `toml:"display.views" env:"DISPLAY_VIEWS"`
	LoggingLoop  string   `toml:"logging.modules.loop" env:"LOGGING_LOOP"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const sampleTOML = `
[segment]
name = "cam0"
width = 640

[display]
show_raw = true
poll_interval = "25ms"
views = ["mask-only", "raw-masked"]

[logging.modules]
loop = "debug"
`

func TestLoadConfigFromTOML(t *testing.T) {
	opts := &testOptions{Config: writeConfig(t, sampleTOML)}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	want := testOptions{
		Config:       opts.Config,
		Name:         "cam0",
		Width:        640,
		ShowRaw:      true,
		PollInterval: "25ms",
		Views:        []string{"mask-only", "raw-masked"},
		LoggingLoop:  "debug",
	}
	if !reflect.DeepEqual(*opts, want) {
		t.Errorf("got %+v, want %+v", *opts, want)
	}
}

func TestLoadConfigFromEnvVars(t *testing.T) {
	t.Setenv("HSVINSPECTOR_SEGMENT_NAME", "env-cam")
	t.Setenv("HSVINSPECTOR_SEGMENT_WIDTH", "320")
	t.Setenv("HSVINSPECTOR_DISPLAY_SHOW_RAW", "true")
	t.Setenv("HSVINSPECTOR_DISPLAY_VIEWS", " a , b ")

	opts := &testOptions{}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if opts.Name != "env-cam" || opts.Width != 320 || !opts.ShowRaw {
		t.Errorf("unexpected options %+v", opts)
	}
	if !reflect.DeepEqual(opts.Views, []string{"a", "b"}) {
		t.Errorf("Views = %v", opts.Views)
	}
}

func TestLoadConfigEnvOverridesTOML(t *testing.T) {
	t.Setenv("HSVINSPECTOR_SEGMENT_NAME", "from-env")

	opts := &testOptions{Config: writeConfig(t, sampleTOML)}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if opts.Name != "from-env" {
		t.Errorf("Name = %q, want from-env", opts.Name)
	}
	if opts.Width != 640 {
		t.Errorf("Width = %d, want 640 from TOML", opts.Width)
	}
}

func TestLoadConfigCLIFlagsWin(t *testing.T) {
	t.Setenv("HSVINSPECTOR_SEGMENT_WIDTH", "320")

	opts := &testOptions{Config: writeConfig(t, sampleTOML)}
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&opts.Name, "name", "", "")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "")
	if err := cmd.Flags().Parse([]string{"--name", "cli-cam", "--width", "800"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	if err := LoadConfig(opts, cmd); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if opts.Name != "cli-cam" || opts.Width != 800 {
		t.Errorf("CLI values overwritten: %+v", opts)
	}
	if opts.PollInterval != "25ms" {
		t.Errorf("PollInterval = %q, want 25ms from TOML", opts.PollInterval)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	opts := &testOptions{Config: filepath.Join(t.TempDir(), "nonexistent.toml")}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig should not fail for missing file: %v", err)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	opts := &testOptions{Config: writeConfig(t, "[segment\nwidth = ")}
	if err := LoadConfig(opts, nil); err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestLoadConfigTypeMismatch(t *testing.T) {
	opts := &testOptions{Config: writeConfig(t, "[segment]\nwidth = \"wide\"\n")}
	if err := LoadConfig(opts, nil); err == nil {
		t.Error("expected error for string in integer field")
	}

	t.Setenv("HSVINSPECTOR_SEGMENT_WIDTH", "wide")
	if err := LoadConfig(&testOptions{}, nil); err == nil {
		t.Error("expected error for non-numeric env value")
	}
}

func TestLoadConfigRejectsNonPointer(t *testing.T) {
	if err := LoadConfig(testOptions{}, nil); err == nil {
		t.Error("expected error for non-pointer options")
	}
}

func TestFieldNameToFlag(t *testing.T) {
	tests := map[string]string{
		"Name":         "name",
		"PollInterval": "poll-interval",
		"LoggingLoop":  "logging-loop",
		"ShowRaw":      "show-raw",
		"ControlsFile": "controls-file",
		"LoggingAPI":   "logging-api",
		"HTTPListen":   "http-listen",
	}
	for in, want := range tests {
		if got := fieldNameToFlag(in); got != want {
			t.Errorf("fieldNameToFlag(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetNestedValue(t *testing.T) {
	data := map[string]any{
		"display": map[string]any{
			"web": map[string]any{"listen": "127.0.0.1:8095"},
			"raw": true,
		},
		"root": "value",
	}

	tests := []struct {
		path string
		want any
	}{
		{"root", "value"},
		{"display.raw", true},
		{"display.web.listen", "127.0.0.1:8095"},
		{"missing", nil},
		{"display.missing", nil},
		{"root.child", nil},
	}
	for _, tt := range tests {
		if got := getNestedValue(data, tt.path); got != tt.want {
			t.Errorf("getNestedValue(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestLoadLoggingConfig(t *testing.T) {
	path := writeConfig(t, `
[logging]
level = "warn"
format = "json"

[logging.modules]
loop = "debug"
api = "error"
`)

	cfg := LoadLoggingConfig(path)
	if cfg.Level != "warn" || cfg.Format != "json" {
		t.Errorf("unexpected level/format %q/%q", cfg.Level, cfg.Format)
	}
	want := map[string]string{"loop": "debug", "api": "error"}
	if !reflect.DeepEqual(cfg.Modules, want) {
		t.Errorf("Modules = %v, want %v", cfg.Modules, want)
	}

	def := LoadLoggingConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if def.Level != "info" || def.Format != "text" {
		t.Errorf("expected defaults, got %+v", def)
	}
}
