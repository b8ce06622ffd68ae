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

package dtos

import (
	"time"

	"github.com/l3montree-dev/taraguard/database/models"
)

type ImplementationStateRequest struct {
	State models.ImplementationState `json:"state" validate:"required,oneof=notStarted partial implemented notApplicable"`
}

type ControlLinkRequest struct {
	ControlID string `json:"controlId" validate:"required"`
}

type CompensatingControlDTO struct {
	ControlID   string     `json:"controlId"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Active      bool       `json:"active"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	Effective   bool       `json:"effective"`
}

type RequirementDTO struct {
	RequirementID       string                     `json:"requirementId"`
	Title               string                     `json:"title"`
	Description         string                     `json:"description"`
	ImplementationState models.ImplementationState `json:"implementationState"`
	InherentRiskLevel   string                     `json:"inherentRiskLevel"`

	GapSeverity       *models.GapSeverity `json:"gapSeverity,omitempty"`
	ResidualRiskLevel *string             `json:"residualRiskLevel,omitempty"`
	GapEvaluatedAt    *time.Time          `json:"gapEvaluatedAt,omitempty"`

	Controls []CompensatingControlDTO `json:"controls"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
