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

package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/l3montree-dev/policyguard/config"
	"github.com/l3montree-dev/policyguard/database"
	"github.com/l3montree-dev/policyguard/monitoring"
	"github.com/l3montree-dev/policyguard/shared"
	"github.com/l3montree-dev/policyguard/utils"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

// BrokerHealth is the part of the broker the health endpoint inspects.
type BrokerHealth interface {
	IsHealthy(expected ...shared.PubSubChannel) bool
	GetActiveTopics() []shared.PubSubChannel
}

// the worker only listens on these
var expectedTopics = []shared.PubSubChannel{shared.PipelineCompleted, shared.PolicyChange}

var startedAt = time.Now()

// NewHealthRouter serves /health/, /info/ and /metrics/ of the worker.
// A nil db skips the database checks.
func NewHealthRouter(db shared.DB, broker BrokerHealth, leaderElector shared.LeaderElector) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.GET("/metrics/", echo.WrapHandler(promhttp.Handler()))

	e.GET("/health/", func(ctx echo.Context) error {
		if !broker.IsHealthy(expectedTopics...) {
			return ctx.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  "broker is not listening",
			})
		}
		if db != nil {
			sqlDB, err := db.DB()
			if err != nil {
				return ctx.JSON(http.StatusServiceUnavailable, map[string]string{
					"status": "unhealthy",
					"error":  "failed to get database instance",
				})
			}
			if err := sqlDB.PingContext(ctx.Request().Context()); err != nil {
				return ctx.JSON(http.StatusServiceUnavailable, map[string]string{
					"status": "unhealthy",
					"error":  "database ping failed",
				})
			}
		}
		return ctx.JSON(http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	e.GET("/info/", func(c echo.Context) error {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		resp := InfoResponse{
			Build: BuildInfo{
				Version:   config.Version,
				Commit:    config.Commit,
				Branch:    config.Branch,
				BuildDate: config.BuildDate,
			},
			Worker: WorkerInfo{
				PID:           os.Getpid(),
				UptimeSeconds: int(time.Since(startedAt).Seconds()),
				Leader:        leaderElector.IsLeader(),
			},
			Runtime: RuntimeInfo{
				GoVersion:     runtime.Version(),
				NumGoroutines: runtime.NumGoroutine(),
				HeapAlloc:     mem.HeapAlloc,
				Sys:           mem.Sys,
			},
			Broker:   brokerInfo(broker),
			Database: DatabaseInfo{Status: "unknown"},
		}
		if host, err := os.Hostname(); err == nil {
			resp.Worker.Hostname = host
		}

		if db != nil {
			resp.Database = databaseInfo(db)
		}
		return c.JSON(http.StatusOK, resp)
	})

	return e
}

func brokerInfo(broker BrokerHealth) BrokerInfo {
	active := utils.Map(broker.GetActiveTopics(), func(topic shared.PubSubChannel) string { return string(topic) })
	return BrokerInfo{
		Healthy:       broker.IsHealthy(expectedTopics...),
		ActiveTopics:  active,
		MissingTopics: utils.Difference(utils.Map(expectedTopics, func(topic shared.PubSubChannel) string { return string(topic) }), active),
	}
}

func databaseInfo(db shared.DB) DatabaseInfo {
	info := DatabaseInfo{Status: "unknown"}
	sqlDB, err := db.DB()
	if err != nil {
		errMsg := "failed to get database instance"
		info.Status = "unhealthy"
		info.Error = &errMsg
		return info
	}
	if err := sqlDB.Ping(); err != nil {
		errMsg := "database ping failed"
		info.Status = "unhealthy"
		info.Error = &errMsg
		return info
	}
	info.Status = "healthy"
	info.DBStats = sqlDB.Stats()

	if version, dirty, err := database.GetMigrationVersionWithDB(db); err == nil {
		info.MigrationVersion = &version
		info.MigrationDirty = &dirty
	} else {
		errStr := err.Error()
		info.MigrationError = &errStr
	}
	return info
}

// RegisterHealthRouter serves the router on addr for the lifetime of the fx app. An empty addr disables it.
func RegisterHealthRouter(lc fx.Lifecycle, e *echo.Echo, addr string) {
	if addr == "" {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					monitoring.Alert("health router stopped", err)
				}
			}()
			slog.Info("health router listening", "addr", addr)
			return nil
		},
		OnStop: e.Shutdown,
	})
}
