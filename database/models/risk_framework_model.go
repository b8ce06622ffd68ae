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

// RiskMatrixEntry maps one (impact, likelihood) pair to a risk level. A
// valid framework declares an entry for every pair of its scales.
type RiskMatrixEntry struct {
	Impact     string `json:"impact"`
	Likelihood string `json:"likelihood"`
	Risk       string `json:"risk"`
}

// RiskThreshold translates a risk level into an action category, e.g.
// acceptable / ALARP / intolerable. Thresholds are ordered from the most
// lenient to the most severe category.
type RiskThreshold struct {
	RiskLevel string `json:"riskLevel"`
	Action    string `json:"action"`
}

// RiskFramework is a named, versionable scoring configuration. At most one
// framework is active at a time; scoring resolves the active framework
// unless a scenario pins an explicit FrameworkID.
type RiskFramework struct {
	Model

	FrameworkID string `json:"frameworkId" gorm:"type:text;not null;uniqueIndex"`
	Name        string `json:"name" gorm:"type:text;not null"`

	// scales are ordered from the least to the most severe level
	ImpactLevels     []string `json:"impactLevels" gorm:"type:jsonb;default:'[]';serializer:json"`
	LikelihoodLevels []string `json:"likelihoodLevels" gorm:"type:jsonb;default:'[]';serializer:json"`
	RiskLevels       []string `json:"riskLevels" gorm:"type:jsonb;default:'[]';serializer:json"`

	Matrix     []RiskMatrixEntry `json:"matrix" gorm:"type:jsonb;default:'[]';serializer:json"`
	Thresholds []RiskThreshold   `json:"thresholds" gorm:"type:jsonb;default:'[]';serializer:json"`

	IsActive bool `json:"isActive" gorm:"default:false"`
}

func (f RiskFramework) TableName() string {
	return "risk_frameworks"
}
