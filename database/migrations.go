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

package database

import (
	"fmt"

	"github.com/l3montree-dev/taraguard/database/models"
	"gorm.io/gorm"
)

// AutoMigrate keeps the schema in sync with the model definitions.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.ProductScope{},
		&models.ProductComponent{},
		&models.RiskFramework{},
		&models.DamageScenario{},
		&models.ThreatScenario{},
		&models.ScenarioLink{},
		&models.CompensatingControl{},
		&models.Requirement{},
		&models.ScenarioEvent{},
	); err != nil {
		return fmt.Errorf("could not run auto migration: %w", err)
	}
	return nil
}
