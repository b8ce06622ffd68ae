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

package shared

import (
	"iter"

	"github.com/google/uuid"
	"github.com/l3montree-dev/taraguard/database/models"
	"github.com/l3montree-dev/taraguard/dtos"
	"github.com/l3montree-dev/taraguard/utils"
)

// VersionedScenarioRepository is the storage contract of the append-only
// versioning discipline. Implementations guarantee that for every business
// key at most one version is current, and that revise/delete reject writes
// whose observed version is stale.
type VersionedScenarioRepository[T any] interface {
	Create(tx DB, entity *T) error
	GetCurrent(key string) (T, error)
	GetVersion(key string, version int) (T, error)
	ListHistory(key string) ([]T, error)
	History(key string) iter.Seq2[T, error]
	ListCurrent() ([]T, error)
	CurrentKeys() ([]string, error)
	ReviseVersion(tx DB, key string, observedVersion int, notes string, mutate func(*T)) (T, error)
	SoftDelete(tx DB, key string, observedVersion int) error
	Transaction(f func(tx DB) error) error
	GetDB(tx DB) DB
}

type DamageScenarioRepository interface {
	VersionedScenarioRepository[models.DamageScenario]
	FindByComponentID(componentID uuid.UUID) ([]models.DamageScenario, error)
}

type ThreatScenarioRepository interface {
	VersionedScenarioRepository[models.ThreatScenario]
	FindByScopeID(scopeID uuid.UUID) ([]models.ThreatScenario, error)
	MarkScopeOutdated(tx DB, scopeID uuid.UUID, currentScopeVersion int) error
	UpdateRiskAssessment(tx DB, scenario *models.ThreatScenario) error
}

type ScenarioLinkRepository interface {
	Link(tx DB, sourceID, targetID string) error
	Unlink(tx DB, sourceID, targetID string) error
	LinksFor(id string, direction models.LinkDirection) ([]string, error)
	HasLinks(sourceID string) (bool, error)
	FindDangling() ([]DanglingReferenceError, error)
	GetDB(tx DB) DB
}

type RiskFrameworkRepository interface {
	utils.Repository[uuid.UUID, models.RiskFramework, DB]
	FindByFrameworkID(frameworkID string) (models.RiskFramework, error)
	GetActive() (models.RiskFramework, error)
	Activate(tx DB, frameworkID string) error
}

type RequirementRepository interface {
	utils.Repository[uuid.UUID, models.Requirement, DB]
	FindByRequirementID(requirementID string) (models.Requirement, error)
	LinkControl(tx DB, requirement *models.Requirement, control models.CompensatingControl) error
	UnlinkControl(tx DB, requirement *models.Requirement, control models.CompensatingControl) error
}

type CompensatingControlRepository interface {
	utils.Repository[uuid.UUID, models.CompensatingControl, DB]
	FindByControlID(controlID string) (models.CompensatingControl, error)
	FindRequirementsUsingControl(controlID uuid.UUID) ([]models.Requirement, error)
}

type ScenarioEventRepository interface {
	utils.Repository[uuid.UUID, models.ScenarioEvent, DB]
	FindByScenarioID(scenarioID string) ([]models.ScenarioEvent, error)
}

type ProductScopeRepository interface {
	utils.Repository[uuid.UUID, models.ProductScope, DB]
	FindComponents(scopeID uuid.UUID) ([]models.ProductComponent, error)
	AdvanceVersion(tx DB, scopeID uuid.UUID) (models.ProductScope, error)
}

type ScenarioService interface {
	CreateDamageScenario(req dtos.DamageScenarioCreateRequest, userID string) (models.DamageScenario, error)
	ReviseDamageScenario(key string, req dtos.DamageScenarioReviseRequest, userID string) (models.DamageScenario, error)
	DeleteDamageScenario(key string, observedVersion int, userID string) error
	OverrideSfopRating(key string, req dtos.SfopOverrideRequest, userID string) (models.DamageScenario, error)
	DeriveSfopRating(key string, userID string) (models.DamageScenario, error)

	CreateThreatScenario(req dtos.ThreatScenarioCreateRequest, userID string) (models.ThreatScenario, error)
	ReviseThreatScenario(key string, req dtos.ThreatScenarioReviseRequest, userID string) (models.ThreatScenario, error)
	DeleteThreatScenario(key string, observedVersion int, userID string) error
	RescoreThreatScenario(key string, userID string) (models.ThreatScenario, error)

	AdvanceProductScope(scopeID uuid.UUID, userID string) (models.ProductScope, error)

	LinkScenarios(threatKey, damageKey, userID string) error
	UnlinkScenarios(threatKey, damageKey, userID string) error
	LinkedDamageScenarios(threatKey string) ([]models.DamageScenario, error)
	FindDanglingLinks() ([]DanglingReferenceError, error)
}

type RequirementService interface {
	Get(requirementID string) (models.Requirement, error)
	SetImplementationState(requirementID string, state models.ImplementationState, userID string) (models.Requirement, error)
	EvaluateGap(requirementID string, userID string) (models.Requirement, error)
	LinkControl(requirementID, controlID, userID string) (models.Requirement, error)
	UnlinkControl(requirementID, controlID, userID string) (models.Requirement, error)
}

type FrameworkService interface {
	CreateFramework(framework models.RiskFramework) (models.RiskFramework, error)
	ActivateFramework(frameworkID string, userID string) error
	GetActiveFramework() (models.RiskFramework, error)
	ListFrameworks() ([]models.RiskFramework, error)
}
