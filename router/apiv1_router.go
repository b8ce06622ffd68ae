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
	"os"
	"runtime"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/l3montree-dev/taraguard/cmd/taraguard/api"
	"github.com/l3montree-dev/taraguard/database"
	"github.com/l3montree-dev/taraguard/shared"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type APIV1Router struct {
	*echo.Group
}

func NewAPIV1Router(srv api.Server, db shared.DB, pool *pgxpool.Pool) APIV1Router {
	apiV1Router := srv.Echo.Group("/api/v1")

	apiV1Router.GET("/health/", func(c echo.Context) error {
		return c.String(200, "ok")
	})

	apiV1Router.GET("/metrics/", echo.WrapHandler(promhttp.Handler()))

	apiV1Router.GET("/info/", func(c echo.Context) error {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		poolCfg := database.GetPoolConfigFromEnv()

		dbStatus := "healthy"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.Ping() != nil {
			dbStatus = "unhealthy"
		}

		host, _ := os.Hostname()

		return c.JSON(200, map[string]any{
			"runtime": map[string]any{
				"goVersion":     runtime.Version(),
				"numGoroutines": runtime.NumGoroutine(),
				"heapAlloc":     mem.HeapAlloc,
			},
			"process": map[string]any{
				"pid":           os.Getpid(),
				"hostname":      host,
				"uptimeSeconds": int(time.Since(api.StartedAt).Seconds()),
			},
			"database": map[string]any{
				"status":       dbStatus,
				"dbName":       poolCfg.DBName,
				"maxOpenConns": poolCfg.MaxOpenConns,
			},
		})
	})

	return APIV1Router{Group: apiV1Router}
}
