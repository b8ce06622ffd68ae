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
	"github.com/l3montree-dev/taraguard/database/models"
	"github.com/l3montree-dev/taraguard/shared"
	"github.com/l3montree-dev/taraguard/utils"
	"gorm.io/gorm/clause"
)

type scenarioLinkRepository struct {
	db shared.DB
}

func NewScenarioLinkRepository(db shared.DB) *scenarioLinkRepository {
	return &scenarioLinkRepository{db: db}
}

func (r *scenarioLinkRepository) GetDB(tx shared.DB) shared.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Link inserts the pair if it does not exist yet. A duplicate is swallowed:
// linking twice is a success, not an error.
func (r *scenarioLinkRepository) Link(tx shared.DB, sourceID, targetID string) error {
	if sourceID == "" || targetID == "" {
		return shared.NewValidationError("link", "source and target ids must not be empty")
	}
	link := models.ScenarioLink{SourceID: sourceID, TargetID: targetID}
	return r.GetDB(tx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

// Unlink removes the pair. Removing a pair that does not exist is a no-op.
func (r *scenarioLinkRepository) Unlink(tx shared.DB, sourceID, targetID string) error {
	return r.GetDB(tx).Where("source_id = ? AND target_id = ?", sourceID, targetID).Delete(&models.ScenarioLink{}).Error
}

// LinksFor returns the counterpart ids of the given scenario.
func (r *scenarioLinkRepository) LinksFor(id string, direction models.LinkDirection) ([]string, error) {
	var counterparts []string
	var err error
	switch direction {
	case models.LinkDirectionOutgoing:
		err = r.db.Model(&models.ScenarioLink{}).Where("source_id = ?", id).Pluck("target_id", &counterparts).Error
	case models.LinkDirectionIncoming:
		err = r.db.Model(&models.ScenarioLink{}).Where("target_id = ?", id).Pluck("source_id", &counterparts).Error
	default:
		return nil, shared.NewValidationError("direction", "unknown link direction "+string(direction))
	}
	return counterparts, err
}

func (r *scenarioLinkRepository) HasLinks(sourceID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.ScenarioLink{}).Where("source_id = ?", sourceID).Count(&count).Error
	return count > 0, err
}

// FindDangling scans all links and reports those whose endpoint no longer
// resolves to a current, non-deleted scenario version. Staleness is a
// reporting concern, never a write-time failure, so this is only run as an
// explicit consistency check.
func (r *scenarioLinkRepository) FindDangling() ([]shared.DanglingReferenceError, error) {
	var links []models.ScenarioLink
	if err := r.db.Find(&links).Error; err != nil {
		return nil, err
	}

	var threatKeys []string
	if err := r.db.Model(&models.ThreatScenario{}).Where("is_current = ? AND is_deleted = ?", true, false).Pluck("scenario_id", &threatKeys).Error; err != nil {
		return nil, err
	}
	var damageKeys []string
	if err := r.db.Model(&models.DamageScenario{}).Where("is_current = ? AND is_deleted = ?", true, false).Pluck("scenario_id", &damageKeys).Error; err != nil {
		return nil, err
	}

	dangling := make([]shared.DanglingReferenceError, 0)
	for _, link := range links {
		if !utils.Contains(threatKeys, link.SourceID) {
			dangling = append(dangling, shared.DanglingReferenceError{SourceID: link.SourceID, TargetID: link.TargetID, Endpoint: "source"})
		}
		if !utils.Contains(damageKeys, link.TargetID) {
			dangling = append(dangling, shared.DanglingReferenceError{SourceID: link.SourceID, TargetID: link.TargetID, Endpoint: "target"})
		}
	}
	return dangling, nil
}
