package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/portfolio-admin/skills-backend/internal/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Применить миграции базы данных",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, err := openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			if err := db.RunMigrations(cmd.Context(), conn); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", cfg.DBDriver)
			return nil
		},
	}
}
