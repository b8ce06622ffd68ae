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

type RiskFrameworkUpsertRequest struct {
	FrameworkID string `json:"frameworkId" validate:"required"`
	Name        string `json:"name" validate:"required"`

	ImpactLevels     []string `json:"impactLevels" validate:"required,min=1"`
	LikelihoodLevels []string `json:"likelihoodLevels" validate:"required,min=1"`
	RiskLevels       []string `json:"riskLevels" validate:"required,min=1"`

	Matrix     []models.RiskMatrixEntry `json:"matrix" validate:"required,min=1"`
	Thresholds []models.RiskThreshold   `json:"thresholds" validate:"required,min=1"`
}

type RiskFrameworkDTO struct {
	FrameworkID string `json:"frameworkId"`
	Name        string `json:"name"`

	ImpactLevels     []string `json:"impactLevels"`
	LikelihoodLevels []string `json:"likelihoodLevels"`
	RiskLevels       []string `json:"riskLevels"`

	Matrix     []models.RiskMatrixEntry `json:"matrix"`
	Thresholds []models.RiskThreshold   `json:"thresholds"`

	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
