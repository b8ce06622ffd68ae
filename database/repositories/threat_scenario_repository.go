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

type threatScenarioRepository struct {
	*VersionedRepository[models.ThreatScenario, *models.ThreatScenario]
	db shared.DB
}

func NewThreatScenarioRepository(db shared.DB) *threatScenarioRepository {
	return &threatScenarioRepository{
		db:                  db,
		VersionedRepository: newVersionedRepository[models.ThreatScenario](db, "threatScenario"),
	}
}

func (r *threatScenarioRepository) FindByScopeID(scopeID uuid.UUID) ([]models.ThreatScenario, error) {
	var scenarios []models.ThreatScenario
	err := r.db.Where("scope_id = ? AND is_current = ? AND is_deleted = ?", scopeID, true, false).Find(&scenarios).Error
	return scenarios, err
}

// UpdateRiskAssessment persists the derived scoring fields on the given
// version row. Scoring is cache maintenance, not a content change, so it
// does not bump the version.
func (r *threatScenarioRepository) UpdateRiskAssessment(tx shared.DB, scenario *models.ThreatScenario) error {
	return r.GetDB(tx).Model(scenario).Updates(map[string]any{
		"impact_level":        scenario.ImpactLevel,
		"likelihood_level":    scenario.LikelihoodLevel,
		"risk_level":          scenario.RiskLevel,
		"risk_classification": scenario.RiskClassification,
		"risk_calculated_at":  scenario.RiskCalculatedAt,
	}).Error
}

// MarkScopeOutdated flags every current threat scenario that was assessed
// against an older scope version. The scenarios stay bound to the version
// they were assessed against; rebinding is an explicit re-assessment.
func (r *threatScenarioRepository) MarkScopeOutdated(tx shared.DB, scopeID uuid.UUID, currentScopeVersion int) error {
	db := r.GetDB(tx)
	return db.Model(&models.ThreatScenario{}).
		Where("scope_id = ? AND scope_version < ? AND is_current = ? AND is_deleted = ?", scopeID, currentScopeVersion, true, false).
		Update("scope_outdated", true).Error
}
