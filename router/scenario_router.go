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
	"github.com/l3montree-dev/taraguard/controllers"
	"github.com/labstack/echo/v4"
)

type ScenarioRouter struct {
	*echo.Group
}

func NewScenarioRouter(apiV1Router APIV1Router, scenarioController *controllers.ScenarioController) ScenarioRouter {
	/**
	Damage scenario router
	*/
	damageRouter := apiV1Router.Group.Group("/damage-scenarios")
	damageRouter.GET("/", scenarioController.ListDamageScenarios)
	damageRouter.POST("/", scenarioController.CreateDamageScenario)
	damageRouter.GET("/:scenarioID/", scenarioController.ReadDamageScenario)
	damageRouter.GET("/:scenarioID/versions/:version/", scenarioController.ReadDamageScenarioVersion)
	damageRouter.GET("/:scenarioID/history/", scenarioController.DamageScenarioHistory)
	damageRouter.GET("/:scenarioID/events/", scenarioController.ScenarioEvents)
	damageRouter.PUT("/:scenarioID/", scenarioController.ReviseDamageScenario)
	damageRouter.DELETE("/:scenarioID/", scenarioController.DeleteDamageScenario)
	damageRouter.POST("/:scenarioID/sfop-override/", scenarioController.OverrideSfopRating)
	damageRouter.POST("/:scenarioID/sfop-derive/", scenarioController.DeriveSfopRating)

	/**
	Threat scenario router
	*/
	threatRouter := apiV1Router.Group.Group("/threat-scenarios")
	threatRouter.GET("/", scenarioController.ListThreatScenarios)
	threatRouter.POST("/", scenarioController.CreateThreatScenario)
	threatRouter.GET("/:scenarioID/", scenarioController.ReadThreatScenario)
	threatRouter.GET("/:scenarioID/versions/:version/", scenarioController.ReadThreatScenarioVersion)
	threatRouter.GET("/:scenarioID/history/", scenarioController.ThreatScenarioHistory)
	threatRouter.GET("/:scenarioID/events/", scenarioController.ScenarioEvents)
	threatRouter.PUT("/:scenarioID/", scenarioController.ReviseThreatScenario)
	threatRouter.DELETE("/:scenarioID/", scenarioController.DeleteThreatScenario)
	threatRouter.POST("/:scenarioID/rescore/", scenarioController.RescoreThreatScenario)
	threatRouter.GET("/:scenarioID/damage-scenarios/", scenarioController.LinkedDamageScenarios)
	threatRouter.POST("/:scenarioID/damage-scenarios/", scenarioController.LinkScenarios)
	threatRouter.DELETE("/:scenarioID/damage-scenarios/:damageScenarioID/", scenarioController.UnlinkScenarios)

	// a product definition change invalidates prior threat assessments
	apiV1Router.Group.POST("/product-scopes/:scopeID/advance/", scenarioController.AdvanceProductScope)

	// consistency check over the whole link table
	apiV1Router.Group.GET("/scenario-links/dangling/", scenarioController.DanglingLinks)

	return ScenarioRouter{Group: threatRouter}
}
