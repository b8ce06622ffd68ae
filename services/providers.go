package services

import (
	"github.com/l3montree-dev/taraguard/shared"
	"go.uber.org/fx"
)

// Module provides all service-layer constructors
var Module = fx.Options(
	fx.Provide(fx.Annotate(NewScenarioService, fx.As(new(shared.ScenarioService)))),
	fx.Provide(fx.Annotate(NewRequirementService, fx.As(new(shared.RequirementService)))),
	fx.Provide(fx.Annotate(NewFrameworkService, fx.As(new(shared.FrameworkService)))),
)
