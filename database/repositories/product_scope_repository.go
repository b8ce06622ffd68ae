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

type productScopeRepository struct {
	db shared.DB
	utils.Repository[uuid.UUID, models.ProductScope, shared.DB]
}

func NewProductScopeRepository(db shared.DB) *productScopeRepository {
	return &productScopeRepository{
		db:         db,
		Repository: newGormRepository[uuid.UUID, models.ProductScope](db),
	}
}

func (r *productScopeRepository) Read(id uuid.UUID) (models.ProductScope, error) {
	var scope models.ProductScope
	err := r.db.First(&scope, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return scope, shared.NewNotFoundError("productScope", id.String())
	}
	return scope, err
}

func (r *productScopeRepository) FindComponents(scopeID uuid.UUID) ([]models.ProductComponent, error) {
	var components []models.ProductComponent
	err := r.db.Where("scope_id = ?", scopeID).Find(&components).Error
	return components, err
}

// AdvanceVersion bumps the scope version after a product definition change.
func (r *productScopeRepository) AdvanceVersion(tx shared.DB, scopeID uuid.UUID) (models.ProductScope, error) {
	var scope models.ProductScope
	db := r.GetDB(tx)
	if err := db.First(&scope, "id = ?", scopeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return scope, shared.NewNotFoundError("productScope", scopeID.String())
		}
		return scope, err
	}
	scope.Version++
	err := db.Save(&scope).Error
	return scope, err
}
