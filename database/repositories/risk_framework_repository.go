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

type riskFrameworkRepository struct {
	db shared.DB
	utils.Repository[uuid.UUID, models.RiskFramework, shared.DB]
}

func NewRiskFrameworkRepository(db shared.DB) *riskFrameworkRepository {
	return &riskFrameworkRepository{
		db:         db,
		Repository: newGormRepository[uuid.UUID, models.RiskFramework](db),
	}
}

func (r *riskFrameworkRepository) FindByFrameworkID(frameworkID string) (models.RiskFramework, error) {
	var framework models.RiskFramework
	err := r.db.Where("framework_id = ?", frameworkID).First(&framework).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return framework, shared.NewNotFoundError("riskFramework", frameworkID)
	}
	return framework, err
}

// GetActive returns the single active framework. Scoring uses it whenever a
// scenario does not pin an explicit framework id.
func (r *riskFrameworkRepository) GetActive() (models.RiskFramework, error) {
	var framework models.RiskFramework
	err := r.db.Where("is_active = ?", true).First(&framework).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return framework, shared.NewNotFoundError("riskFramework", "active")
	}
	return framework, err
}

// Activate switches the active framework atomically: the previously active
// one is deactivated in the same transaction. Validation has to happen
// before calling this; a framework that fails to load must never be
// activated.
func (r *riskFrameworkRepository) Activate(tx shared.DB, frameworkID string) error {
	db := r.GetDB(tx)
	if err := db.Model(&models.RiskFramework{}).Where("is_active = ?", true).Update("is_active", false).Error; err != nil {
		return err
	}
	res := db.Model(&models.RiskFramework{}).Where("framework_id = ?", frameworkID).Update("is_active", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.NewNotFoundError("riskFramework", frameworkID)
	}
	return nil
}
