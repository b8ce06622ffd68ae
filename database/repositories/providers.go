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
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package repositories

import (
	"github.com/l3montree-dev/taraguard/shared"
	"go.uber.org/fx"
)

// Module provides all repository constructors as their interfaces
var Module = fx.Options(
	fx.Provide(fx.Annotate(NewDamageScenarioRepository, fx.As(new(shared.DamageScenarioRepository)))),
	fx.Provide(fx.Annotate(NewThreatScenarioRepository, fx.As(new(shared.ThreatScenarioRepository)))),
	fx.Provide(fx.Annotate(NewScenarioLinkRepository, fx.As(new(shared.ScenarioLinkRepository)))),
	fx.Provide(fx.Annotate(NewRiskFrameworkRepository, fx.As(new(shared.RiskFrameworkRepository)))),
	fx.Provide(fx.Annotate(NewRequirementRepository, fx.As(new(shared.RequirementRepository)))),
	fx.Provide(fx.Annotate(NewCompensatingControlRepository, fx.As(new(shared.CompensatingControlRepository)))),
	fx.Provide(fx.Annotate(NewScenarioEventRepository, fx.As(new(shared.ScenarioEventRepository)))),
	fx.Provide(fx.Annotate(NewProductScopeRepository, fx.As(new(shared.ProductScopeRepository)))),
)
