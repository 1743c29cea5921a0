package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCommand creates the dealership CLI. Without a subcommand it serves
// the API.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dealership",
		Short:         "Car dealership inventory API",
		Long:          "Car inventory backend: car catalogue with normalized images and contact emails.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewSeedCommand())

	return cmd
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
