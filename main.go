package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/smazurov/hsv-inspector/cmd"
	"github.com/smazurov/hsv-inspector/internal/app"
	"github.com/smazurov/hsv-inspector/internal/colorspace"
	"github.com/smazurov/hsv-inspector/internal/config"
	"github.com/smazurov/hsv-inspector/internal/logging"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Segment settings
	Name   string `help:"Shared frame segment (under /dev/shm unless it contains a slash)" short:"n" toml:"segment.name" env:"SEGMENT_NAME"`
	Width  int    `help:"Frame width in pixels" toml:"segment.width" env:"SEGMENT_WIDTH"`
	Height int    `help:"Frame height in pixels" toml:"segment.height" env:"SEGMENT_HEIGHT"`

	// Display settings
	Display string `help:"Display surface (web, gocv, none)" default:"web" toml:"display.surface" env:"DISPLAY_SURFACE"`
	Listen  string `help:"HTTP viewer address" default:"127.0.0.1:8095" toml:"display.listen" env:"DISPLAY_LISTEN"`
	ShowRaw bool   `help:"Also present the unbiased frame under the mask" default:"false" toml:"display.show_raw" env:"DISPLAY_SHOW_RAW"`

	// Loop settings
	PollInterval string `help:"Wait between inspection cycles" default:"10ms" toml:"loop.poll_interval" env:"LOOP_POLL_INTERVAL"`
	ClipMode     string `help:"Bias clipping (once, staged)" default:"once" toml:"loop.clip_mode" env:"LOOP_CLIP_MODE"`
	Controls     string `help:"Controls preset file, reloaded on change" toml:"controls.preset" env:"CONTROLS_PRESET"`

	// Auth settings
	AuthUsername string `help:"Basic auth username (auth is off when empty)" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Logging settings
	LoggingLevel  string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingLoop   string `help:"Inspection loop logging level" default:"info" toml:"logging.loop" env:"LOGGING_LOOP"`
	LoggingAPI    string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingHTTP   string `help:"HTTP request logging level" default:"info" toml:"logging.http" env:"LOGGING_HTTP"`
	LoggingConfig string `help:"Config watcher logging level" default:"info" toml:"logging.config" env:"LOGGING_CONFIG"`
}

func main() {
	var cli humacli.CLI

	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		// Load configuration automatically
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			fmt.Fprintln(os.Stderr, "Failed to load config:", loadErr)
			os.Exit(1)
		}

		// Initialize logging system
		loggingConfig := logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"loop":   opts.LoggingLoop,
				"api":    opts.LoggingAPI,
				"http":   opts.LoggingHTTP,
				"config": opts.LoggingConfig,
			},
		}
		logging.Initialize(loggingConfig)
		logger := logging.GetLogger("main")

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})

		// Runs for the root command only; subcommands share this callback for config and logging.
		hooks.OnStart(func() {
			defer close(done)

			runOpts, err := appOptions(opts)
			if err == nil {
				err = runOpts.Validate()
			}
			var argErr *app.ArgumentsError
			if errors.As(err, &argErr) {
				fmt.Fprintln(os.Stderr, "Error:", argErr)
				_ = cli.Root().Usage()
				os.Exit(1)
			}

			if err == nil {
				err = app.Run(ctx, runOpts)
			}
			if err != nil {
				logger.Error("Inspector stopped", "error", err)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down")
			cancel()
			<-done
		})
	})

	cli.Root().Use = "hsv-inspector --name <segment> --width <px> --height <px>"
	cli.Root().Short = "Live HSV range inspector for a shared-memory frame buffer"

	cli.Root().AddCommand(cmd.CreateTestPatternCmd())
	cli.Root().AddCommand(cmd.CreateControlsCmd())
	cli.Root().AddCommand(cmd.CreateVersionCmd())

	// Run the CLI
	cli.Run()
}

func appOptions(opts *Options) (app.Options, error) {
	poll, err := time.ParseDuration(opts.PollInterval)
	if err != nil {
		return app.Options{}, app.NewArgumentsError(app.ErrCodeInvalidArgument, "bad --poll-interval", err)
	}
	clip, err := colorspace.ParseClipMode(opts.ClipMode)
	if err != nil {
		return app.Options{}, app.NewArgumentsError(app.ErrCodeInvalidArgument, "bad --clip-mode", err)
	}

	return app.Options{
		Name:         opts.Name,
		Width:        opts.Width,
		Height:       opts.Height,
		Display:      opts.Display,
		Listen:       opts.Listen,
		PollInterval: poll,
		ControlsFile: opts.Controls,
		ClipMode:     clip,
		ShowRaw:      opts.ShowRaw,
		AuthUsername: opts.AuthUsername,
		AuthPassword: opts.AuthPassword,
	}, nil
}
