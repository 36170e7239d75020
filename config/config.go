package config

import (
	"fmt"
	"strings"

	"github.com/l3montree-dev/policyguard/daemons"
	"github.com/l3montree-dev/policyguard/database"
	"github.com/l3montree-dev/policyguard/integrations/gitlabint"
	"github.com/l3montree-dev/policyguard/services"
	"github.com/spf13/viper"
)

const EnvPrefix = "POLICYGUARD"

type Config struct {
	LogLevel    string `mapstructure:"log_level"`
	Environment string `mapstructure:"environment"`
	// sentry compatible dsn. Empty disables error tracking.
	ErrorTrackingDSN   string `mapstructure:"error_tracking_dsn"`
	DisableAutoMigrate bool   `mapstructure:"disable_automigrate"`
	// address of the health and metrics endpoint of the worker
	MetricsAddr string `mapstructure:"metrics_addr"`

	Database   database.PoolConfig       `mapstructure:"database"`
	Evaluation services.EvaluationConfig `mapstructure:"evaluation"`
	Daemon     daemons.Config            `mapstructure:"daemon"`
	Gitlab     gitlabint.Config          `mapstructure:"gitlab"`
}

// SetDefaults registers every key, so AutomaticEnv can resolve keys which only exist in the environment.
func SetDefaults(v *viper.Viper) {
	evaluation := services.DefaultEvaluationConfig()
	daemon := daemons.DefaultConfig()
	pool := database.DefaultPoolConfig()

	v.SetDefault("log_level", "info")
	v.SetDefault("environment", "dev")
	v.SetDefault("error_tracking_dsn", "")
	v.SetDefault("disable_automigrate", false)
	v.SetDefault("metrics_addr", ":9090")

	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", pool.Port)
	v.SetDefault("database.name", "")
	v.SetDefault("database.max_open_conns", pool.MaxOpenConns)
	v.SetDefault("database.min_conns", pool.MinConns)
	v.SetDefault("database.conn_max_lifetime", pool.ConnMaxLifetime)
	v.SetDefault("database.conn_max_idle_time", pool.ConnMaxIdleTime)

	v.SetDefault("evaluation.use_merge_base_pipeline", evaluation.UseMergeBasePipeline)
	v.SetDefault("evaluation.sync_preexisting_state", evaluation.SyncPreexistingState)
	v.SetDefault("evaluation.include_manual_to_pipeline_completion", evaluation.IncludeManualToPipelineCompletion)
	v.SetDefault("evaluation.fallback_behavior_enabled", evaluation.FallbackBehaviorEnabled)
	v.SetDefault("evaluation.comment_lock_timeout", evaluation.CommentLockTimeout)
	v.SetDefault("evaluation.rule_concurrency", evaluation.RuleConcurrency)
	v.SetDefault("evaluation.bot_user_id", evaluation.BotUserID)

	v.SetDefault("daemon.workers", daemon.Workers)
	v.SetDefault("daemon.preexisting_sync_interval", daemon.PreexistingSyncInterval)

	v.SetDefault("gitlab.url", "https://gitlab.com")
	v.SetDefault("gitlab.token", "")
	v.SetDefault("gitlab.requests_per_second", 10.0)
}

// New returns a viper instance reading POLICYGUARD_ prefixed environment variables.
// POLICYGUARD_EVALUATION_USE_MERGE_BASE_PIPELINE maps to evaluation.use_merge_base_pipeline.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	// the postgres image variables keep working next to the prefixed ones
	for key, env := range postgresEnv {
		_ = v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
	}
	return v
}

var postgresEnv = map[string]string{
	"database.user":     "POSTGRES_USER",
	"database.password": "POSTGRES_PASSWORD",
	"database.host":     "POSTGRES_HOST",
	"database.port":     "POSTGRES_PORT",
	"database.name":     "POSTGRES_DB",
}

// ReadFile merges a yaml config file into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("could not read config file %s: %w", path, err)
	}
	return nil
}

func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("could not parse config: %w", err)
	}
	if cfg.Daemon.Workers <= 0 {
		return cfg, fmt.Errorf("daemon.workers must be positive, got %d", cfg.Daemon.Workers)
	}
	if cfg.Evaluation.RuleConcurrency <= 0 {
		return cfg, fmt.Errorf("evaluation.rule_concurrency must be positive, got %d", cfg.Evaluation.RuleConcurrency)
	}
	return cfg, nil
}
