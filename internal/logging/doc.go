// Package logging provides per-module slog loggers for hsv-inspector.
//
// Records fan out to stdout (when attached), the systemd journal (when
// journald is listening) and an in-memory history that feeds the
// /api/logs/stream endpoint.
//
// Initialize once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",
//		Format: "text",
//		Modules: map[string]string{
//			"loop": "debug",
//			"shm":  "warn",
//		},
//	})
//
// and take a logger per module:
//
//	logger := logging.GetLogger("loop")
//	logger.Info("Inspection loop started", "width", 640)
//
// Loggers obtained before Initialize pick up the configured level afterwards.
//
// Config file:
//
//	[logging]
//	level = "info"
//	format = "text"
//
//	[logging.modules]
//	loop = "debug"
//	api = "warn"
//
// Journal entries are tagged with the identifier "hsv-inspector":
//
//	journalctl -t hsv-inspector -f
//	journalctl -t hsv-inspector MODULE=loop
package logging
