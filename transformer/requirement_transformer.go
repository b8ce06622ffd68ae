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

package transformer

import (
	"time"

	"github.com/l3montree-dev/taraguard/database/models"
	"github.com/l3montree-dev/taraguard/dtos"
	"github.com/l3montree-dev/taraguard/utils"
)

func CompensatingControlToDTO(control models.CompensatingControl) dtos.CompensatingControlDTO {
	return dtos.CompensatingControlDTO{
		ControlID:   control.ControlID,
		Name:        control.Name,
		Description: control.Description,
		Active:      control.Active,
		ExpiresAt:   control.ExpiresAt,
		Effective:   control.Effective(time.Now()),
	}
}

func RequirementToDTO(requirement models.Requirement) dtos.RequirementDTO {
	return dtos.RequirementDTO{
		RequirementID:       requirement.RequirementID,
		Title:               requirement.Title,
		Description:         requirement.Description,
		ImplementationState: requirement.ImplementationState,
		InherentRiskLevel:   requirement.InherentRiskLevel,

		GapSeverity:       requirement.GapSeverity,
		ResidualRiskLevel: requirement.ResidualRiskLevel,
		GapEvaluatedAt:    requirement.GapEvaluatedAt,

		Controls: utils.Map(requirement.Controls, CompensatingControlToDTO),

		CreatedAt: requirement.CreatedAt,
		UpdatedAt: requirement.UpdatedAt,
	}
}
