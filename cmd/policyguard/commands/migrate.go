package commands

import (
	"fmt"
	"log/slog"

	"github.com/l3montree-dev/policyguard/database"
	"github.com/l3montree-dev/policyguard/shared"
	"github.com/spf13/cobra"
)

// withDB opens a dedicated pool for commands which only need the schema.
func withDB(fn func(db shared.DB) error) error {
	pool, err := database.NewPgxConnPool(runtimeConfig.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	db, err := database.NewGormDB(pool)
	if err != nil {
		return fmt.Errorf("could not open database: %w", err)
	}
	return fn(db)
}

func NewMigrateCommand() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	migrate.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(database.RunMigrationsWithDB)
			},
		},
		newMigrateDownCommand(),
		&cobra.Command{
			Use:   "version",
			Short: "Print the current migration version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(func(db shared.DB) error {
					version, dirty, err := database.GetMigrationVersionWithDB(db)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
					return nil
				})
			},
		},
	)
	return migrate
}

func newMigrateDownCommand() *cobra.Command {
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := cmd.Flags().GetInt("steps")
			if err != nil {
				return err
			}
			if steps <= 0 {
				return fmt.Errorf("--steps must be positive")
			}
			slog.Warn("rolling back migrations", "steps", steps)
			return withDB(func(db shared.DB) error {
				return database.RollbackMigrationsWithDB(db, steps)
			})
		},
	}
	down.Flags().Int("steps", 1, "Number of migrations to roll back")
	return down
}
