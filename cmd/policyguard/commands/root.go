// Copyright (C) 2025 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package commands

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/l3montree-dev/policyguard/config"
	"github.com/l3montree-dev/policyguard/shared"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

// runtimeConfig is resolved in PersistentPreRunE before any command runs
var runtimeConfig config.Config

var RootCmd = &cobra.Command{
	SilenceUsage:      true,
	Use:               "policyguard",
	Short:             "Enforce security approval policies on merge requests",
	Version:           config.Version,
	DisableAutoGenTag: true,
	Long: `policyguard evaluates the security reports of merge request pipelines against
the approval policies of a project. It requires approvals for newly introduced
findings and license violations and keeps a single policy violation comment on
every merge request up to date.

Configuration can be provided via a yaml file (--config) or environment variables
(prefix POLICYGUARD_, e.g. POLICYGUARD_EVALUATION_USE_MERGE_BASE_PIPELINE=false).
The database connection is read from POLICYGUARD_DATABASE_* or POSTGRES_* variables.`,
	Example: `  # run the evaluation worker
  policyguard worker

  # load the policies of project 42 and re-evaluate its merge requests
  policyguard policies load --project 42 policy.yml

  # store the reports of a pipeline and trigger the evaluation
  policyguard ingest --pipeline 100 --project 42 --ref feature --sha abc123 \
    --security-report gl-dependency-scanning-report.json --sbom gl-sbom.cdx.json --complete`,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v := config.New()
		if err := config.ReadFile(v, cfgFile); err != nil {
			return err
		}
		bindFlags(cmd, v)

		cfg, err := config.Load(v)
		if err != nil {
			return err
		}
		runtimeConfig = cfg

		shared.InitLogger(cfg.LogLevel)
		if cfg.ErrorTrackingDSN != "" {
			initSentry(cfg)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if runtimeConfig.ErrorTrackingDSN != "" {
			sentry.Flush(5 * time.Second)
		}
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.AddCommand(
		NewWorkerCommand(),
		NewEvaluateCommand(),
		NewSyncPreexistingCommand(),
		NewPoliciesCommand(),
		NewIngestCommand(),
		NewMigrateCommand(),
	)

	RootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to a yaml config file")
	RootCmd.PersistentFlags().StringP("log_level", "l", "info", "Set the log level. Options: debug, info, warn, error")
}

// bindFlags lets flags override the config file and the environment.
// Only flags sharing a name with a config key take part, e.g. --log_level.
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if !v.IsSet(f.Name) && !f.Changed {
			return
		}
		if f.Changed {
			if err := v.BindPFlag(f.Name, f); err != nil {
				slog.Error("could not bind flag to viper", "flag", f.Name, "err", err)
			}
			return
		}
		// apply the config value to the flag so commands reading the flag see it
		cmd.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name))) // nolint: errcheck
	})
}

func initSentry(cfg config.Config) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.ErrorTrackingDSN,
		Environment:      cfg.Environment,
		Release:          config.Version,
		Debug:            cfg.Environment == "dev",
		AttachStacktrace: true,
		SendDefaultPII:   false,
	})
	if err != nil {
		slog.Error("could not init error tracking", "err", err)
	}
}
