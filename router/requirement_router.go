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

type RequirementRouter struct {
	*echo.Group
}

func NewRequirementRouter(apiV1Router APIV1Router, requirementController *controllers.RequirementController) RequirementRouter {
	requirementRouter := apiV1Router.Group.Group("/requirements")
	requirementRouter.GET("/:requirementID/", requirementController.Read)
	requirementRouter.PUT("/:requirementID/state/", requirementController.SetImplementationState)
	requirementRouter.POST("/:requirementID/evaluate-gap/", requirementController.EvaluateGap)
	requirementRouter.POST("/:requirementID/controls/", requirementController.LinkControl)
	requirementRouter.DELETE("/:requirementID/controls/:controlID/", requirementController.UnlinkControl)

	return RequirementRouter{Group: requirementRouter}
}
