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

import (
	"time"

	"github.com/google/uuid"
)

type ThreatScenario struct {
	VersionedModel

	Name        string `json:"name" gorm:"type:text;not null"`
	Description string `json:"description" gorm:"type:text"`

	AttackVector string `json:"attackVector" gorm:"type:text"`

	// DamageScenarioID is the legacy single-valued link to a damage scenario.
	// It is read once as a seed for the link table and kept for backward
	// compatibility; all new writes go through scenario_links.
	DamageScenarioID *string `json:"damageScenarioId" gorm:"type:text;default:null"`

	ScopeID uuid.UUID `json:"scopeId" gorm:"type:uuid"`
	// ScopeVersion is the product-scope version this threat was assessed
	// against. When the scope advances, the threat is flagged outdated and
	// must be re-assessed explicitly, never rebound.
	ScopeVersion  int  `json:"scopeVersion" gorm:"default:1"`
	ScopeOutdated bool `json:"scopeOutdated" gorm:"default:false"`

	FrameworkID *string `json:"frameworkId" gorm:"type:text;default:null"`

	ImpactLevel     *string `json:"impactLevel" gorm:"type:text;default:null"`
	LikelihoodLevel *string `json:"likelihoodLevel" gorm:"type:text;default:null"`

	RiskLevel          *string    `json:"riskLevel" gorm:"type:text;default:null"`
	RiskClassification *string    `json:"riskClassification" gorm:"type:text;default:null"`
	RiskCalculatedAt   *time.Time `json:"riskCalculatedAt"`
}

func (s ThreatScenario) TableName() string {
	return "threat_scenarios"
}

func (s ThreatScenario) Scored() bool {
	return s.RiskLevel != nil
}
