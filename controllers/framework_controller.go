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
	"fmt"

	"github.com/l3montree-dev/taraguard/dtos"
	"github.com/l3montree-dev/taraguard/shared"
	"github.com/l3montree-dev/taraguard/transformer"
	"github.com/labstack/echo/v4"
)

type FrameworkController struct {
	frameworkService        shared.FrameworkService
	riskFrameworkRepository shared.RiskFrameworkRepository
}

func NewFrameworkController(frameworkService shared.FrameworkService, riskFrameworkRepository shared.RiskFrameworkRepository) *FrameworkController {
	return &FrameworkController{
		frameworkService:        frameworkService,
		riskFrameworkRepository: riskFrameworkRepository,
	}
}

func (controller *FrameworkController) Create(ctx shared.Context) error {
	var req dtos.RiskFrameworkUpsertRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := shared.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, fmt.Sprintf("could not validate request: %s", err.Error()))
	}

	framework, err := controller.frameworkService.CreateFramework(transformer.RiskFrameworkUpsertRequestToModel(req))
	if err != nil {
		return httpError(err, "could not store risk framework")
	}
	return ctx.JSON(200, transformer.RiskFrameworkToDTO(framework))
}

func (controller *FrameworkController) List(ctx shared.Context) error {
	frameworks, err := controller.frameworkService.ListFrameworks()
	if err != nil {
		return httpError(err, "could not list risk frameworks")
	}
	return ctx.JSON(200, transformer.RiskFrameworksToDTOs(frameworks))
}

func (controller *FrameworkController) Read(ctx shared.Context) error {
	framework, err := controller.riskFrameworkRepository.FindByFrameworkID(shared.GetParam(ctx, "frameworkID"))
	if err != nil {
		return httpError(err, "could not read risk framework")
	}
	return ctx.JSON(200, transformer.RiskFrameworkToDTO(framework))
}

func (controller *FrameworkController) GetActive(ctx shared.Context) error {
	framework, err := controller.frameworkService.GetActiveFramework()
	if err != nil {
		return httpError(err, "could not read active risk framework")
	}
	return ctx.JSON(200, transformer.RiskFrameworkToDTO(framework))
}

func (controller *FrameworkController) Activate(ctx shared.Context) error {
	if err := controller.frameworkService.ActivateFramework(shared.GetParam(ctx, "frameworkID"), shared.GetUserID(ctx)); err != nil {
		return httpError(err, "could not activate risk framework")
	}
	return ctx.NoContent(204)
}
