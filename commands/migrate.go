package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"concesionaria-api/database"
)

func NewMigrateCommand() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			if reset {
				if err := database.Reset(a.db); err != nil {
					return fmt.Errorf("failed to reset database: %w", err)
				}
			}
			if err := database.Migrate(a.db); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database schema is up to date")
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "drop every table before migrating")
	return cmd
}
