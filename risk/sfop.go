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

package risk

import (
	"fmt"
	"time"

	"github.com/l3montree-dev/taraguard/database/models"
	"github.com/l3montree-dev/taraguard/shared"
)

// DeriveSfopImpact computes the four SFOP impact levels from the scenario's
// harm-dimension flags, damage category and severity. The function is pure:
// identical inputs always yield identical levels.
//
// A flagged dimension receives the scenario severity projected onto the
// framework's impact scale, an unflagged one the lowest level. The dimension
// matching the damage category is raised one step, capped at the scale top.
//
// The returned rating is in automatic mode: the override fields are cleared.
func DeriveSfopImpact(scenario models.DamageScenario, framework *Framework) models.SfopRating {
	rating := models.SfopRating{
		AutoGenerated: true,
	}

	for _, dimension := range models.HarmDimensions {
		level := framework.LowestImpactLevel()
		if scenario.RelevantFor(dimension) {
			level = framework.ClampImpactLevel(scenario.Severity)
		}
		if string(scenario.DamageCategory) == string(dimension) {
			level = framework.StepUpImpact(level, 1)
		}
		rating.SetLevel(dimension, level)
	}

	return rating
}

// SfopOverride carries the levels a human wants to set verbatim. Nil fields
// keep the current value.
type SfopOverride struct {
	SafetyImpact      *string
	FinancialImpact   *string
	OperationalImpact *string
	PrivacyImpact     *string
}

func (o SfopOverride) level(dimension models.HarmDimension) *string {
	switch dimension {
	case models.HarmDimensionSafety:
		return o.SafetyImpact
	case models.HarmDimensionFinancial:
		return o.FinancialImpact
	case models.HarmDimensionOperational:
		return o.OperationalImpact
	case models.HarmDimensionPrivacy:
		return o.PrivacyImpact
	}
	return nil
}

func (o SfopOverride) Empty() bool {
	return o.SafetyImpact == nil && o.FinancialImpact == nil && o.OperationalImpact == nil && o.PrivacyImpact == nil
}

// ApplyOverride switches the rating into overridden mode. The reason is
// mandatory; an override without one is a ValidationError. Overridden levels
// are taken verbatim and survive unrelated revisions until DeriveSfopImpact
// is explicitly invoked again.
func ApplyOverride(scenario *models.DamageScenario, framework *Framework, override SfopOverride, editor, reason string, now time.Time) error {
	if reason == "" {
		return shared.NewValidationError("overrideReason", "an SFOP override requires a reason")
	}
	if override.Empty() {
		return shared.NewValidationError("override", "no impact level given")
	}

	for _, dimension := range models.HarmDimensions {
		level := override.level(dimension)
		if level == nil {
			continue
		}
		if !framework.HasImpactLevel(*level) {
			return shared.NewValidationError(string(dimension), fmt.Sprintf("impact level %q is not declared by framework %s", *level, framework.ID()))
		}
	}

	for _, dimension := range models.HarmDimensions {
		if level := override.level(dimension); level != nil {
			scenario.Sfop.SetLevel(dimension, *level)
		}
	}

	scenario.Sfop.AutoGenerated = false
	scenario.Sfop.OverrideReason = &reason
	scenario.Sfop.LastEditedBy = &editor
	scenario.Sfop.LastEditedAt = &now

	return nil
}
