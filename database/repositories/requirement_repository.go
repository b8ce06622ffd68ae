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

package repositories

import (
	"errors"

	"github.com/google/uuid"
	"github.com/l3montree-dev/taraguard/database/models"
	"github.com/l3montree-dev/taraguard/shared"
	"github.com/l3montree-dev/taraguard/utils"
	"gorm.io/gorm"
)

type requirementRepository struct {
	db shared.DB
	utils.Repository[uuid.UUID, models.Requirement, shared.DB]
}

func NewRequirementRepository(db shared.DB) *requirementRepository {
	return &requirementRepository{
		db:         db,
		Repository: newGormRepository[uuid.UUID, models.Requirement](db),
	}
}

func (r *requirementRepository) FindByRequirementID(requirementID string) (models.Requirement, error) {
	var requirement models.Requirement
	err := r.db.Preload("Controls").Where("requirement_id = ?", requirementID).First(&requirement).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return requirement, shared.NewNotFoundError("requirement", requirementID)
	}
	return requirement, err
}

// LinkControl attaches a compensating control through the join table.
// Attaching the same control twice is a no-op.
func (r *requirementRepository) LinkControl(tx shared.DB, requirement *models.Requirement, control models.CompensatingControl) error {
	return r.GetDB(tx).Model(requirement).Association("Controls").Append(&control)
}

func (r *requirementRepository) UnlinkControl(tx shared.DB, requirement *models.Requirement, control models.CompensatingControl) error {
	return r.GetDB(tx).Model(requirement).Association("Controls").Delete(&control)
}
