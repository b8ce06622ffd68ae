package router

import "go.uber.org/fx"

var RouterModule = fx.Options(
	fx.Provide(NewAPIV1Router),
	fx.Provide(NewScenarioRouter),
	fx.Provide(NewRequirementRouter),
	fx.Provide(NewFrameworkRouter),
)
