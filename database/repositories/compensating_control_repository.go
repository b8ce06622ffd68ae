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

type compensatingControlRepository struct {
	db shared.DB
	utils.Repository[uuid.UUID, models.CompensatingControl, shared.DB]
}

func NewCompensatingControlRepository(db shared.DB) *compensatingControlRepository {
	return &compensatingControlRepository{
		db:         db,
		Repository: newGormRepository[uuid.UUID, models.CompensatingControl](db),
	}
}

func (r *compensatingControlRepository) FindByControlID(controlID string) (models.CompensatingControl, error) {
	var control models.CompensatingControl
	err := r.db.Where("control_id = ?", controlID).First(&control).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return control, shared.NewNotFoundError("compensatingControl", controlID)
	}
	return control, err
}

// FindRequirementsUsingControl returns the requirements whose cached gap
// results have to be invalidated when the control changes state.
func (r *compensatingControlRepository) FindRequirementsUsingControl(controlID uuid.UUID) ([]models.Requirement, error) {
	var requirements []models.Requirement
	err := r.db.Preload("Controls").
		Joins("JOIN requirement_controls rc ON rc.requirement_id = requirements.id").
		Where("rc.compensating_control_id = ?", controlID).
		Find(&requirements).Error
	return requirements, err
}
