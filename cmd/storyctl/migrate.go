package main

import (
	"fmt"
	"strconv"

	"bedtime-server/internal/database"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{Use: "migrate", Short: "Manage the database schema"}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, err := resolveDSN()
			if err != nil {
				return err
			}
			if err := database.NewMigrator(dsn).Up(cmd.Context()); err != nil {
				return err
			}
			log.Info().Msg("Migrations applied")
			return nil
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back every migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, err := resolveDSN()
			if err != nil {
				return err
			}
			if err := database.NewMigrator(dsn).Down(cmd.Context()); err != nil {
				return err
			}
			log.Info().Msg("Migrations rolled back")
			return nil
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "steps N",
		Short: "Apply N migrations (negative N rolls back)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid step count %q: %w", args[0], err)
			}
			dsn, err := resolveDSN()
			if err != nil {
				return err
			}
			if err := database.NewMigrator(dsn).Steps(cmd.Context(), n); err != nil {
				return err
			}
			log.Info().Int("steps", n).Msg("Migration steps applied")
			return nil
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, err := resolveDSN()
			if err != nil {
				return err
			}
			version, dirty, err := database.NewMigrator(dsn).Version(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
			return nil
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "force N",
		Short: "Set the schema version without running migrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[0], err)
			}
			dsn, err := resolveDSN()
			if err != nil {
				return err
			}
			if err := database.NewMigrator(dsn).ForceVersion(cmd.Context(), uint(version)); err != nil {
				return err
			}
			log.Warn().Uint64("version", version).Msg("Schema version forced")
			return nil
		},
	})

	return migrateCmd
}
