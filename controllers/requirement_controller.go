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

type RequirementController struct {
	requirementService    shared.RequirementService
	requirementRepository shared.RequirementRepository
}

func NewRequirementController(requirementService shared.RequirementService, requirementRepository shared.RequirementRepository) *RequirementController {
	return &RequirementController{
		requirementService:    requirementService,
		requirementRepository: requirementRepository,
	}
}

func (controller *RequirementController) Read(ctx shared.Context) error {
	requirement, err := controller.requirementService.Get(shared.GetParam(ctx, "requirementID"))
	if err != nil {
		return httpError(err, "could not read requirement")
	}
	return ctx.JSON(200, transformer.RequirementToDTO(requirement))
}

func (controller *RequirementController) SetImplementationState(ctx shared.Context) error {
	var req dtos.ImplementationStateRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := shared.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, fmt.Sprintf("could not validate request: %s", err.Error()))
	}

	requirement, err := controller.requirementService.SetImplementationState(shared.GetParam(ctx, "requirementID"), req.State, shared.GetUserID(ctx))
	if err != nil {
		return httpError(err, "could not set implementation state")
	}
	return ctx.JSON(200, transformer.RequirementToDTO(requirement))
}

func (controller *RequirementController) EvaluateGap(ctx shared.Context) error {
	requirement, err := controller.requirementService.EvaluateGap(shared.GetParam(ctx, "requirementID"), shared.GetUserID(ctx))
	if err != nil {
		return httpError(err, "could not evaluate gap")
	}
	return ctx.JSON(200, transformer.RequirementToDTO(requirement))
}

func (controller *RequirementController) LinkControl(ctx shared.Context) error {
	var req dtos.ControlLinkRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := shared.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, fmt.Sprintf("could not validate request: %s", err.Error()))
	}

	requirement, err := controller.requirementService.LinkControl(shared.GetParam(ctx, "requirementID"), req.ControlID, shared.GetUserID(ctx))
	if err != nil {
		return httpError(err, "could not link control")
	}
	return ctx.JSON(200, transformer.RequirementToDTO(requirement))
}

func (controller *RequirementController) UnlinkControl(ctx shared.Context) error {
	requirement, err := controller.requirementService.UnlinkControl(shared.GetParam(ctx, "requirementID"), shared.GetParam(ctx, "controlID"), shared.GetUserID(ctx))
	if err != nil {
		return httpError(err, "could not unlink control")
	}
	return ctx.JSON(200, transformer.RequirementToDTO(requirement))
}
