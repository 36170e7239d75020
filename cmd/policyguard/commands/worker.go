package commands

import (
	"fmt"
	"log/slog"

	"github.com/l3montree-dev/policyguard/daemons"
	"github.com/l3montree-dev/policyguard/database"
	"github.com/l3montree-dev/policyguard/router"
	"github.com/l3montree-dev/policyguard/shared"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func NewWorkerCommand() *cobra.Command {
	worker := &cobra.Command{
		Use:   "worker",
		Short: "Evaluate merge requests whenever a pipeline completes",
		Long: `Starts the evaluation daemon. It listens for pipeline completed and policy change
notifications and serves /health/, /info/ and /metrics/ on --metrics_addr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runtimeConfig.DisableAutoMigrate {
				slog.Info("automatic migrations disabled via POLICYGUARD_DISABLE_AUTOMIGRATE")
			} else {
				err := withDB(func(db shared.DB) error {
					slog.Info("running database migrations...")
					return database.RunMigrationsWithDB(db)
				})
				if err != nil {
					return err
				}
			}

			app := fx.New(appOptions(runtimeConfig,
				fx.Invoke(daemons.RegisterLifecycle),
				fx.Invoke(func(lc fx.Lifecycle, e *echo.Echo) {
					router.RegisterHealthRouter(lc, e, runtimeConfig.MetricsAddr)
				}),
			))
			if err := app.Err(); err != nil {
				return fmt.Errorf("could not wire the worker: %w", err)
			}
			app.Run()
			return nil
		},
	}
	worker.Flags().String("metrics_addr", ":9090", "Address of the health and metrics endpoint. Empty disables it.")
	return worker
}
