package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smazurov/hsv-inspector/internal/controls"
)

// CreateControlsCmd creates the controls command, which prints a preset with every default.
func CreateControlsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "controls",
		Short: "Print the default controls preset",
		Long:  `Prints a TOML preset holding the initial value of every control. Save it and pass it with --controls.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := controls.DefaultPreset()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
			return err
		},
		SilenceUsage: true,
	}
}

// exitOnError is used by commands that bypass cobra's error reporting.
func exitOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
