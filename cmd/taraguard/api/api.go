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

package api

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/l3montree-dev/taraguard/echohttp"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// StartedAt is used by the info endpoint to report process uptime.
var StartedAt = time.Now()

type Server struct {
	Echo *echo.Echo
}

func NewServer() Server {
	return Server{Echo: echohttp.Server()}
}

// RegisterLifecycle starts the http listener once the fx graph is built and
// shuts it down gracefully on stop.
func RegisterLifecycle(lc fx.Lifecycle, srv Server) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				slog.Info("starting api server", "port", port)
				if err := srv.Echo.Start(":" + port); err != nil {
					slog.Error("api server stopped", "err", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Echo.Shutdown(ctx)
		},
	})
}
