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
	"github.com/google/uuid"
	"github.com/l3montree-dev/taraguard/database/models"
	"github.com/l3montree-dev/taraguard/shared"
)

type damageScenarioRepository struct {
	*VersionedRepository[models.DamageScenario, *models.DamageScenario]
	db shared.DB
}

func NewDamageScenarioRepository(db shared.DB) *damageScenarioRepository {
	return &damageScenarioRepository{
		db:                  db,
		VersionedRepository: newVersionedRepository[models.DamageScenario](db, "damageScenario"),
	}
}

func (r *damageScenarioRepository) FindByComponentID(componentID uuid.UUID) ([]models.DamageScenario, error) {
	var scenarios []models.DamageScenario
	err := r.db.Where("primary_component_id = ? AND is_current = ? AND is_deleted = ?", componentID, true, false).Find(&scenarios).Error
	return scenarios, err
}
