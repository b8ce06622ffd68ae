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

package controllers

import (
	"errors"

	"github.com/l3montree-dev/taraguard/shared"
	"github.com/labstack/echo/v4"
)

// httpError translates domain errors into http responses. Conflicts carry
// the stored current version so clients can re-read and retry.
func httpError(err error, fallback string) error {
	var conflict *shared.ConflictError
	if errors.As(err, &conflict) {
		return echo.NewHTTPError(409, map[string]any{
			"message":        conflict.Error(),
			"currentVersion": conflict.CurrentVersion,
		}).WithInternal(err)
	}

	switch {
	case shared.IsValidationError(err):
		return echo.NewHTTPError(400, err.Error()).WithInternal(err)
	case shared.IsNotFoundError(err):
		return echo.NewHTTPError(404, err.Error()).WithInternal(err)
	case shared.IsConfigError(err):
		return echo.NewHTTPError(422, err.Error()).WithInternal(err)
	}
	return echo.NewHTTPError(500, fallback).WithInternal(err)
}
