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
	"strconv"

	"github.com/google/uuid"
	"github.com/l3montree-dev/taraguard/dtos"
	"github.com/l3montree-dev/taraguard/shared"
	"github.com/l3montree-dev/taraguard/transformer"
	"github.com/l3montree-dev/taraguard/utils"
	"github.com/labstack/echo/v4"
)

type ScenarioController struct {
	scenarioService          shared.ScenarioService
	damageScenarioRepository shared.DamageScenarioRepository
	threatScenarioRepository shared.ThreatScenarioRepository
	scenarioEventRepository  shared.ScenarioEventRepository
}

func NewScenarioController(
	scenarioService shared.ScenarioService,
	damageScenarioRepository shared.DamageScenarioRepository,
	threatScenarioRepository shared.ThreatScenarioRepository,
	scenarioEventRepository shared.ScenarioEventRepository,
) *ScenarioController {
	return &ScenarioController{
		scenarioService:          scenarioService,
		damageScenarioRepository: damageScenarioRepository,
		threatScenarioRepository: threatScenarioRepository,
		scenarioEventRepository:  scenarioEventRepository,
	}
}

func (controller *ScenarioController) CreateDamageScenario(ctx shared.Context) error {
	var req dtos.DamageScenarioCreateRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := shared.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, fmt.Sprintf("could not validate request: %s", err.Error()))
	}

	scenario, err := controller.scenarioService.CreateDamageScenario(req, shared.GetUserID(ctx))
	if err != nil {
		return httpError(err, "could not create damage scenario")
	}
	return ctx.JSON(200, transformer.DamageScenarioToDTO(scenario))
}

func (controller *ScenarioController) ReadDamageScenario(ctx shared.Context) error {
	scenario, err := controller.damageScenarioRepository.GetCurrent(shared.GetParam(ctx, "scenarioID"))
	if err != nil {
		return httpError(err, "could not read damage scenario")
	}
	return ctx.JSON(200, transformer.DamageScenarioToDTO(scenario))
}

func (controller *ScenarioController) ReadDamageScenarioVersion(ctx shared.Context) error {
	version, err := strconv.Atoi(shared.GetParam(ctx, "version"))
	if err != nil {
		return echo.NewHTTPError(400, "version has to be an integer")
	}
	scenario, err := controller.damageScenarioRepository.GetVersion(shared.GetParam(ctx, "scenarioID"), version)
	if err != nil {
		return httpError(err, "could not read damage scenario version")
	}
	return ctx.JSON(200, transformer.DamageScenarioToDTO(scenario))
}

func (controller *ScenarioController) ListDamageScenarios(ctx shared.Context) error {
	scenarios, err := controller.damageScenarioRepository.ListCurrent()
	if err != nil {
		return httpError(err, "could not list damage scenarios")
	}
	return ctx.JSON(200, transformer.DamageScenariosToDTOs(scenarios))
}

func (controller *ScenarioController) DamageScenarioHistory(ctx shared.Context) error {
	history, err := controller.damageScenarioRepository.ListHistory(shared.GetParam(ctx, "scenarioID"))
	if err != nil {
		return httpError(err, "could not read damage scenario history")
	}
	return ctx.JSON(200, transformer.DamageScenariosToDTOs(history))
}

func (controller *ScenarioController) ReviseDamageScenario(ctx shared.Context) error {
	var req dtos.DamageScenarioReviseRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := shared.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, fmt.Sprintf("could not validate request: %s", err.Error()))
	}

	scenario, err := controller.scenarioService.ReviseDamageScenario(shared.GetParam(ctx, "scenarioID"), req, shared.GetUserID(ctx))
	if err != nil {
		return httpError(err, "could not revise damage scenario")
	}
	return ctx.JSON(200, transformer.DamageScenarioToDTO(scenario))
}

func (controller *ScenarioController) DeleteDamageScenario(ctx shared.Context) error {
	var req dtos.ScenarioDeleteRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := shared.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, fmt.Sprintf("could not validate request: %s", err.Error()))
	}

	if err := controller.scenarioService.DeleteDamageScenario(shared.GetParam(ctx, "scenarioID"), req.ObservedVersion, shared.GetUserID(ctx)); err != nil {
		return httpError(err, "could not delete damage scenario")
	}
	return ctx.NoContent(204)
}

func (controller *ScenarioController) OverrideSfopRating(ctx shared.Context) error {
	var req dtos.SfopOverrideRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := shared.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, fmt.Sprintf("could not validate request: %s", err.Error()))
	}

	scenario, err := controller.scenarioService.OverrideSfopRating(shared.GetParam(ctx, "scenarioID"), req, shared.GetUserID(ctx))
	if err != nil {
		return httpError(err, "could not override sfop rating")
	}
	return ctx.JSON(200, transformer.DamageScenarioToDTO(scenario))
}

func (controller *ScenarioController) DeriveSfopRating(ctx shared.Context) error {
	scenario, err := controller.scenarioService.DeriveSfopRating(shared.GetParam(ctx, "scenarioID"), shared.GetUserID(ctx))
	if err != nil {
		return httpError(err, "could not derive sfop rating")
	}
	return ctx.JSON(200, transformer.DamageScenarioToDTO(scenario))
}

func (controller *ScenarioController) CreateThreatScenario(ctx shared.Context) error {
	var req dtos.ThreatScenarioCreateRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := shared.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, fmt.Sprintf("could not validate request: %s", err.Error()))
	}

	scenario, err := controller.scenarioService.CreateThreatScenario(req, shared.GetUserID(ctx))
	if err != nil {
		return httpError(err, "could not create threat scenario")
	}
	return ctx.JSON(200, transformer.ThreatScenarioToDTO(scenario))
}

func (controller *ScenarioController) ReadThreatScenario(ctx shared.Context) error {
	scenario, err := controller.threatScenarioRepository.GetCurrent(shared.GetParam(ctx, "scenarioID"))
	if err != nil {
		return httpError(err, "could not read threat scenario")
	}
	return ctx.JSON(200, transformer.ThreatScenarioToDTO(scenario))
}

func (controller *ScenarioController) ReadThreatScenarioVersion(ctx shared.Context) error {
	version, err := strconv.Atoi(shared.GetParam(ctx, "version"))
	if err != nil {
		return echo.NewHTTPError(400, "version has to be an integer")
	}
	scenario, err := controller.threatScenarioRepository.GetVersion(shared.GetParam(ctx, "scenarioID"), version)
	if err != nil {
		return httpError(err, "could not read threat scenario version")
	}
	return ctx.JSON(200, transformer.ThreatScenarioToDTO(scenario))
}

func (controller *ScenarioController) ListThreatScenarios(ctx shared.Context) error {
	scenarios, err := controller.threatScenarioRepository.ListCurrent()
	if err != nil {
		return httpError(err, "could not list threat scenarios")
	}
	return ctx.JSON(200, transformer.ThreatScenariosToDTOs(scenarios))
}

func (controller *ScenarioController) ThreatScenarioHistory(ctx shared.Context) error {
	history, err := controller.threatScenarioRepository.ListHistory(shared.GetParam(ctx, "scenarioID"))
	if err != nil {
		return httpError(err, "could not read threat scenario history")
	}
	return ctx.JSON(200, transformer.ThreatScenariosToDTOs(history))
}

func (controller *ScenarioController) ReviseThreatScenario(ctx shared.Context) error {
	var req dtos.ThreatScenarioReviseRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := shared.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, fmt.Sprintf("could not validate request: %s", err.Error()))
	}

	scenario, err := controller.scenarioService.ReviseThreatScenario(shared.GetParam(ctx, "scenarioID"), req, shared.GetUserID(ctx))
	if err != nil {
		return httpError(err, "could not revise threat scenario")
	}
	return ctx.JSON(200, transformer.ThreatScenarioToDTO(scenario))
}

func (controller *ScenarioController) DeleteThreatScenario(ctx shared.Context) error {
	var req dtos.ScenarioDeleteRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := shared.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, fmt.Sprintf("could not validate request: %s", err.Error()))
	}

	if err := controller.scenarioService.DeleteThreatScenario(shared.GetParam(ctx, "scenarioID"), req.ObservedVersion, shared.GetUserID(ctx)); err != nil {
		return httpError(err, "could not delete threat scenario")
	}
	return ctx.NoContent(204)
}

func (controller *ScenarioController) RescoreThreatScenario(ctx shared.Context) error {
	scenario, err := controller.scenarioService.RescoreThreatScenario(shared.GetParam(ctx, "scenarioID"), shared.GetUserID(ctx))
	if err != nil {
		return httpError(err, "could not rescore threat scenario")
	}
	return ctx.JSON(200, transformer.ThreatScenarioToDTO(scenario))
}

func (controller *ScenarioController) AdvanceProductScope(ctx shared.Context) error {
	scopeID, err := uuid.Parse(shared.GetParam(ctx, "scopeID"))
	if err != nil {
		return echo.NewHTTPError(400, "scopeID has to be a uuid")
	}

	scope, err := controller.scenarioService.AdvanceProductScope(scopeID, shared.GetUserID(ctx))
	if err != nil {
		return httpError(err, "could not advance product scope")
	}
	return ctx.JSON(200, transformer.ProductScopeToDTO(scope))
}

func (controller *ScenarioController) LinkScenarios(ctx shared.Context) error {
	var req dtos.ScenarioLinkRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := shared.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, fmt.Sprintf("could not validate request: %s", err.Error()))
	}

	if err := controller.scenarioService.LinkScenarios(shared.GetParam(ctx, "scenarioID"), req.DamageScenarioID, shared.GetUserID(ctx)); err != nil {
		return httpError(err, "could not link scenarios")
	}
	return ctx.NoContent(204)
}

func (controller *ScenarioController) UnlinkScenarios(ctx shared.Context) error {
	if err := controller.scenarioService.UnlinkScenarios(shared.GetParam(ctx, "scenarioID"), shared.GetParam(ctx, "damageScenarioID"), shared.GetUserID(ctx)); err != nil {
		return httpError(err, "could not unlink scenarios")
	}
	return ctx.NoContent(204)
}

func (controller *ScenarioController) LinkedDamageScenarios(ctx shared.Context) error {
	scenarios, err := controller.scenarioService.LinkedDamageScenarios(shared.GetParam(ctx, "scenarioID"))
	if err != nil {
		return httpError(err, "could not resolve linked damage scenarios")
	}
	return ctx.JSON(200, transformer.DamageScenariosToDTOs(scenarios))
}

func (controller *ScenarioController) DanglingLinks(ctx shared.Context) error {
	dangling, err := controller.scenarioService.FindDanglingLinks()
	if err != nil {
		return httpError(err, "could not run link consistency check")
	}
	return ctx.JSON(200, utils.Map(dangling, transformer.DanglingReferenceToDTO))
}

func (controller *ScenarioController) ScenarioEvents(ctx shared.Context) error {
	events, err := controller.scenarioEventRepository.FindByScenarioID(shared.GetParam(ctx, "scenarioID"))
	if err != nil {
		return httpError(err, "could not read scenario events")
	}
	return ctx.JSON(200, utils.Map(events, transformer.ScenarioEventToDTO))
}
