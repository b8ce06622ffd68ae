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
	"time"

	"github.com/l3montree-dev/taraguard/database/models"
	"github.com/l3montree-dev/taraguard/utils"
)

// ComputeGapSeverity derives how far a requirement's implementation falls
// short of full coverage. Ties break toward the more conservative outcome:
// a partial implementation stays significant no matter how strong the
// compensating controls are.
func ComputeGapSeverity(requirement models.Requirement, now time.Time) models.GapSeverity {
	switch requirement.ImplementationState {
	case models.ImplementationStateNotApplicable:
		return models.GapSeverityNone
	case models.ImplementationStateImplemented:
		allEffective := utils.All(requirement.Controls, func(c models.CompensatingControl) bool {
			return c.Effective(now)
		})
		if allEffective {
			return models.GapSeverityNone
		}
		// an implemented requirement leaning on an inactive or expired
		// control is no longer fully covered
		return models.GapSeverityModerate
	case models.ImplementationStatePartial:
		return models.GapSeveritySignificant
	case models.ImplementationStateNotStarted:
		return models.GapSeverityCritical
	}
	// unknown states fail closed
	return models.GapSeverityCritical
}

// ComputeResidualRisk credits one risk-level step per fully effective
// compensating control against the inherent risk, floored at the
// framework's lowest defined level. With zero effective controls the
// residual risk equals the inherent risk.
func ComputeResidualRisk(requirement models.Requirement, inherentRiskLevel string, framework *Framework, now time.Time) (string, error) {
	effective := utils.CountBy(requirement.Controls, func(c models.CompensatingControl) bool {
		return c.Effective(now)
	})
	return framework.StepDownRisk(inherentRiskLevel, effective)
}
