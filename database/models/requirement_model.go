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

package models

import "time"

type ImplementationState string

const (
	ImplementationStateNotStarted    ImplementationState = "notStarted"
	ImplementationStatePartial       ImplementationState = "partial"
	ImplementationStateImplemented   ImplementationState = "implemented"
	ImplementationStateNotApplicable ImplementationState = "notApplicable"
)

type GapSeverity string

const (
	GapSeverityNone        GapSeverity = "none"
	GapSeverityModerate    GapSeverity = "moderate"
	GapSeveritySignificant GapSeverity = "significant"
	GapSeverityCritical    GapSeverity = "critical"
)

// Requirement tracks the implementation status of a single compliance
// requirement. GapSeverity and ResidualRiskLevel are derived values, cached
// on the record and recomputed whenever the record or a linked control
// changes state.
type Requirement struct {
	Model

	RequirementID string `json:"requirementId" gorm:"type:text;not null;uniqueIndex"`
	Title         string `json:"title" gorm:"type:text;not null"`
	Description   string `json:"description" gorm:"type:text"`

	ImplementationState ImplementationState `json:"implementationState" gorm:"type:text;not null;default:'notStarted'"`

	// InherentRiskLevel is a level name on the framework's risk scale, before
	// crediting any compensating control.
	InherentRiskLevel string `json:"inherentRiskLevel" gorm:"type:text"`

	GapSeverity       *GapSeverity `json:"gapSeverity" gorm:"type:text;default:null"`
	ResidualRiskLevel *string      `json:"residualRiskLevel" gorm:"type:text;default:null"`
	GapEvaluatedAt    *time.Time   `json:"gapEvaluatedAt"`

	Controls []CompensatingControl `json:"controls" gorm:"many2many:requirement_controls;"`
}

func (r Requirement) TableName() string {
	return "requirements"
}

// InvalidateGapCache drops the derived values after a state change so a
// stale gap or residual risk is never served.
func (r *Requirement) InvalidateGapCache() {
	r.GapSeverity = nil
	r.ResidualRiskLevel = nil
	r.GapEvaluatedAt = nil
}
