package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/l3montree-dev/policyguard/config"
	"github.com/l3montree-dev/policyguard/daemons"
	"github.com/l3montree-dev/policyguard/database"
	"github.com/l3montree-dev/policyguard/database/repositories"
	"github.com/l3montree-dev/policyguard/integrations"
	"github.com/l3montree-dev/policyguard/integrations/gitlabint"
	"github.com/l3montree-dev/policyguard/router"
	"github.com/l3montree-dev/policyguard/services"
	"github.com/l3montree-dev/policyguard/shared"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func newPool(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	pool, err := database.NewPgxConnPool(cfg.Database)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(pool.Close))
	return pool, nil
}

func newBroker(lc fx.Lifecycle, pool *pgxpool.Pool) *database.PostgreSQLBroker {
	broker := database.NewPostgreSQLBroker(pool)
	lc.Append(fx.StopHook(broker.Close))
	return broker
}

// newEvaluationConfig resolves the security bot through the gitlab api unless it is configured.
func newEvaluationConfig(cfg config.Config, client shared.GitlabClientFacade) (services.EvaluationConfig, error) {
	evaluation := cfg.Evaluation
	botUserID, err := gitlabint.ResolveBotUserID(context.Background(), client, evaluation.BotUserID)
	if err != nil {
		return evaluation, err
	}
	evaluation.BotUserID = botUserID
	return evaluation, nil
}

// appOptions wires the whole object graph. fx only constructs what the invoked functions need,
// so commands which never touch gitlab do not need a token.
func appOptions(cfg config.Config, opts ...fx.Option) fx.Option {
	return fx.Options(
		fx.WithLogger(func() fxevent.Logger {
			logger := &fxevent.SlogLogger{Logger: slog.Default()}
			logger.UseLogLevel(slog.LevelDebug)
			return logger
		}),
		fx.Supply(cfg, cfg.Daemon, cfg.Gitlab),
		fx.Provide(newPool),
		fx.Provide(database.NewGormDB),
		fx.Provide(newBroker),
		fx.Provide(func(broker *database.PostgreSQLBroker) shared.PubSubBroker { return broker }),
		fx.Provide(func(broker *database.PostgreSQLBroker) router.BrokerHealth { return broker }),
		fx.Provide(fx.Annotate(database.NewAdvisoryLocker, fx.As(new(shared.Locker)))),
		fx.Provide(newEvaluationConfig),
		repositories.Module,
		services.Module,
		integrations.Module,
		daemons.Module,
		router.Module,
		fx.Options(opts...),
	)
}

// withApp starts a short lived app, populates targets and runs fn.
func withApp(ctx context.Context, fn func() error, targets ...any) error {
	app := fx.New(appOptions(runtimeConfig, fx.Populate(targets...)))
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("could not start: %w", err)
	}
	defer func() {
		if err := app.Stop(context.Background()); err != nil {
			slog.Error("could not stop cleanly", "err", err)
		}
	}()
	return fn()
}
