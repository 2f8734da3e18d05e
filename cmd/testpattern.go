package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/smazurov/hsv-inspector/internal/logging"
	"github.com/smazurov/hsv-inspector/internal/testpattern"
)

// CreateTestPatternCmd creates the testpattern command.
func CreateTestPatternCmd() *cobra.Command {
	var (
		width, height, fps int
		pattern            string
		keep               bool
		logJSON            bool
	)

	cmd := &cobra.Command{
		Use:   "testpattern <name>",
		Short: "Write a test pattern into a shared frame segment",
		Long: `Creates the named segment (under /dev/shm unless the name contains a slash) and repaints it ` +
			`at the given rate with colour bars or a scrolling hue sweep, taking the segment lock for every copy.`,
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			loggingConfig := logging.Config{Level: "info", Format: "text"}
			if logJSON {
				loggingConfig.Format = "json"
			}
			logging.Initialize(loggingConfig)
			logger := logging.GetLogger("testpattern")

			p, err := testpattern.ParsePattern(pattern)
			if err != nil {
				logger.Error("Invalid pattern", "error", err)
				os.Exit(1)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := testpattern.Run(ctx, testpattern.Options{
				Name:    args[0],
				Width:   width,
				Height:  height,
				FPS:     fps,
				Pattern: p,
				Remove:  !keep,
			}); err != nil {
				logger.Error("Test pattern failed", "error", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().IntVar(&width, "width", 640, "Frame width in pixels")
	cmd.Flags().IntVar(&height, "height", 480, "Frame height in pixels")
	cmd.Flags().IntVar(&fps, "fps", 30, "Frames written per second")
	cmd.Flags().StringVar(&pattern, "pattern", string(testpattern.Sweep), "Pattern: bars or sweep")
	cmd.Flags().BoolVar(&keep, "keep", false, "Leave the segment in place on exit")
	cmd.Flags().BoolVar(&logJSON, "log-json", false, "Output logs in JSON format")

	return cmd
}
