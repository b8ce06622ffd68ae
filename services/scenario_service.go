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

package services

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/taraguard/database/models"
	"github.com/l3montree-dev/taraguard/dtos"
	"github.com/l3montree-dev/taraguard/monitoring"
	"github.com/l3montree-dev/taraguard/risk"
	"github.com/l3montree-dev/taraguard/shared"
	"github.com/l3montree-dev/taraguard/utils"
	"github.com/prometheus/client_golang/prometheus"
)

type scenarioService struct {
	damageScenarioRepository shared.DamageScenarioRepository
	threatScenarioRepository shared.ThreatScenarioRepository
	scenarioLinkRepository   shared.ScenarioLinkRepository
	riskFrameworkRepository  shared.RiskFrameworkRepository
	scenarioEventRepository  shared.ScenarioEventRepository
	productScopeRepository   shared.ProductScopeRepository
}

func NewScenarioService(
	damageScenarioRepository shared.DamageScenarioRepository,
	threatScenarioRepository shared.ThreatScenarioRepository,
	scenarioLinkRepository shared.ScenarioLinkRepository,
	riskFrameworkRepository shared.RiskFrameworkRepository,
	scenarioEventRepository shared.ScenarioEventRepository,
	productScopeRepository shared.ProductScopeRepository,
) *scenarioService {
	return &scenarioService{
		damageScenarioRepository: damageScenarioRepository,
		threatScenarioRepository: threatScenarioRepository,
		scenarioLinkRepository:   scenarioLinkRepository,
		riskFrameworkRepository:  riskFrameworkRepository,
		scenarioEventRepository:  scenarioEventRepository,
		productScopeRepository:   productScopeRepository,
	}
}

// resolveFramework loads the framework a scenario is scored against: the
// pinned one when the scenario carries a FrameworkID, the active one
// otherwise.
func (s *scenarioService) resolveFramework(pinned *string) (*risk.Framework, error) {
	var model models.RiskFramework
	var err error
	if pinned != nil && *pinned != "" {
		model, err = s.riskFrameworkRepository.FindByFrameworkID(*pinned)
	} else {
		model, err = s.riskFrameworkRepository.GetActive()
	}
	if err != nil {
		return nil, err
	}
	return risk.LoadFramework(model)
}

func (s *scenarioService) saveEvent(tx shared.DB, event models.ScenarioEvent) {
	if err := s.scenarioEventRepository.Create(tx, &event); err != nil {
		monitoring.Alert("could not save scenario event", err, "type", event.Type, "scenarioID", event.ScenarioID)
	}
}

// validateViolatedProperties enforces the non-empty set invariant: a damage
// scenario without at least one violated security property describes nothing.
func validateViolatedProperties(properties []models.ViolatedProperty) error {
	if len(properties) == 0 {
		return shared.NewValidationError("violatedProperties", "at least one violated property is required")
	}
	for _, property := range properties {
		if !property.Valid() {
			return shared.NewValidationError("violatedProperties", "unknown violated property "+string(property))
		}
	}
	return nil
}

func (s *scenarioService) CreateDamageScenario(req dtos.DamageScenarioCreateRequest, userID string) (models.DamageScenario, error) {
	if err := validateViolatedProperties(req.ViolatedProperties); err != nil {
		return models.DamageScenario{}, err
	}

	scenario := models.DamageScenario{
		VersionedModel: models.VersionedModel{
			ScenarioID: utils.OrDefault(utils.EmptyThenNil(req.ScenarioID), uuid.NewString()),
		},
		Name:                req.Name,
		Description:         req.Description,
		ViolatedProperties:  req.ViolatedProperties,
		DamageCategory:      req.DamageCategory,
		ImpactType:          req.ImpactType,
		Severity:            req.Severity,
		SafetyRelevant:      req.SafetyRelevant,
		FinancialRelevant:   req.FinancialRelevant,
		OperationalRelevant: req.OperationalRelevant,
		PrivacyRelevant:     req.PrivacyRelevant,
		PrimaryComponentID:  req.PrimaryComponentID,
		FrameworkID:         req.FrameworkID,
	}

	framework, err := s.resolveFramework(req.FrameworkID)
	if err != nil {
		return scenario, err
	}
	scenario.Sfop = risk.DeriveSfopImpact(scenario, framework)

	err = s.damageScenarioRepository.Transaction(func(tx shared.DB) error {
		if err := s.damageScenarioRepository.Create(tx, &scenario); err != nil {
			return err
		}
		s.saveEvent(tx, models.NewScenarioEvent(models.EventTypeCreated, models.ScenarioTypeDamage, scenario.ScenarioID, scenario.Version, userID))
		s.saveEvent(tx, models.NewScenarioEvent(models.EventTypeRatingDerived, models.ScenarioTypeDamage, scenario.ScenarioID, scenario.Version, userID))
		return nil
	})
	return scenario, err
}

// ratingInputsChanged reports whether a revision touched any input of the
// SFOP derivation. An overridden rating is kept verbatim across such a
// revision, but the drift is flagged so an analyst can revisit it.
func ratingInputsChanged(before, after models.DamageScenario) bool {
	if before.Severity != after.Severity || before.DamageCategory != after.DamageCategory {
		return true
	}
	for _, dimension := range models.HarmDimensions {
		if before.RelevantFor(dimension) != after.RelevantFor(dimension) {
			return true
		}
	}
	return false
}

func (s *scenarioService) ReviseDamageScenario(key string, req dtos.DamageScenarioReviseRequest, userID string) (models.DamageScenario, error) {
	if err := validateViolatedProperties(req.ViolatedProperties); err != nil {
		return models.DamageScenario{}, err
	}

	framework, err := s.resolveFramework(req.FrameworkID)
	if err != nil {
		return models.DamageScenario{}, err
	}

	var revised models.DamageScenario
	staleOverride := false
	ratingDerived := false

	err = s.damageScenarioRepository.Transaction(func(tx shared.DB) error {
		revised, err = s.damageScenarioRepository.ReviseVersion(tx, key, req.ObservedVersion, req.RevisionNotes, func(scenario *models.DamageScenario) {
			before := *scenario

			scenario.Name = req.Name
			scenario.Description = req.Description
			scenario.ViolatedProperties = req.ViolatedProperties
			scenario.DamageCategory = req.DamageCategory
			scenario.ImpactType = req.ImpactType
			scenario.Severity = req.Severity
			scenario.SafetyRelevant = req.SafetyRelevant
			scenario.FinancialRelevant = req.FinancialRelevant
			scenario.OperationalRelevant = req.OperationalRelevant
			scenario.PrivacyRelevant = req.PrivacyRelevant
			scenario.PrimaryComponentID = req.PrimaryComponentID
			scenario.FrameworkID = req.FrameworkID

			if scenario.Sfop.AutoGenerated {
				scenario.Sfop = risk.DeriveSfopImpact(*scenario, framework)
				ratingDerived = true
			} else if ratingInputsChanged(before, *scenario) {
				staleOverride = true
			}
		})
		if err != nil {
			return err
		}

		s.saveEvent(tx, models.NewScenarioEvent(models.EventTypeRevised, models.ScenarioTypeDamage, revised.ScenarioID, revised.Version, userID))
		if ratingDerived {
			s.saveEvent(tx, models.NewScenarioEvent(models.EventTypeRatingDerived, models.ScenarioTypeDamage, revised.ScenarioID, revised.Version, userID))
		}
		if staleOverride {
			event := models.NewScenarioEvent(models.EventTypeStaleOverride, models.ScenarioTypeDamage, revised.ScenarioID, revised.Version, userID)
			event.SetArbitraryJSONData(map[string]any{
				"overrideReason": utils.SafeDereference(revised.Sfop.OverrideReason),
			})
			s.saveEvent(tx, event)
			monitoring.StaleOverrideAmount.Inc()
			slog.Warn("revision changed rating inputs of an overridden scenario", "scenarioID", revised.ScenarioID, "version", revised.Version)
		}
		return nil
	})
	if err == nil {
		monitoring.ScenarioRevisionAmount.Inc()
	} else if shared.IsConflictError(err) {
		monitoring.VersionConflictAmount.Inc()
	}
	return revised, err
}

func (s *scenarioService) DeleteDamageScenario(key string, observedVersion int, userID string) error {
	return s.damageScenarioRepository.Transaction(func(tx shared.DB) error {
		if err := s.damageScenarioRepository.SoftDelete(tx, key, observedVersion); err != nil {
			return err
		}
		s.saveEvent(tx, models.NewScenarioEvent(models.EventTypeDeleted, models.ScenarioTypeDamage, key, observedVersion, userID))
		return nil
	})
}

// OverrideSfopRating appends a new version whose rating carries the analyst
// supplied levels verbatim. The override reason doubles as revision notes.
func (s *scenarioService) OverrideSfopRating(key string, req dtos.SfopOverrideRequest, userID string) (models.DamageScenario, error) {
	current, err := s.damageScenarioRepository.GetCurrent(key)
	if err != nil {
		return current, err
	}
	framework, err := s.resolveFramework(current.FrameworkID)
	if err != nil {
		return current, err
	}

	override := risk.SfopOverride{
		SafetyImpact:      req.SafetyImpact,
		FinancialImpact:   req.FinancialImpact,
		OperationalImpact: req.OperationalImpact,
		PrivacyImpact:     req.PrivacyImpact,
	}

	var revised models.DamageScenario
	var overrideErr error
	err = s.damageScenarioRepository.Transaction(func(tx shared.DB) error {
		var err error
		revised, err = s.damageScenarioRepository.ReviseVersion(tx, key, current.Version, fmt.Sprintf("SFOP override: %s", req.Reason), func(scenario *models.DamageScenario) {
			overrideErr = risk.ApplyOverride(scenario, framework, override, userID, req.Reason, time.Now())
		})
		if err != nil {
			return err
		}
		if overrideErr != nil {
			// roll the whole revision back, the override was rejected
			return overrideErr
		}

		event := models.NewScenarioEvent(models.EventTypeRatingOverridden, models.ScenarioTypeDamage, revised.ScenarioID, revised.Version, userID)
		event.Justification = &req.Reason
		s.saveEvent(tx, event)
		return nil
	})
	return revised, err
}

// DeriveSfopRating switches an overridden rating back to automatic mode by
// re-running the derivation against the scenario's framework.
func (s *scenarioService) DeriveSfopRating(key string, userID string) (models.DamageScenario, error) {
	current, err := s.damageScenarioRepository.GetCurrent(key)
	if err != nil {
		return current, err
	}
	framework, err := s.resolveFramework(current.FrameworkID)
	if err != nil {
		return current, err
	}

	var revised models.DamageScenario
	err = s.damageScenarioRepository.Transaction(func(tx shared.DB) error {
		revised, err = s.damageScenarioRepository.ReviseVersion(tx, key, current.Version, "SFOP rating re-derived", func(scenario *models.DamageScenario) {
			scenario.Sfop = risk.DeriveSfopImpact(*scenario, framework)
		})
		if err != nil {
			return err
		}
		s.saveEvent(tx, models.NewScenarioEvent(models.EventTypeRatingDerived, models.ScenarioTypeDamage, revised.ScenarioID, revised.Version, userID))
		return nil
	})
	return revised, err
}

func (s *scenarioService) CreateThreatScenario(req dtos.ThreatScenarioCreateRequest, userID string) (models.ThreatScenario, error) {
	scenario := models.ThreatScenario{
		VersionedModel: models.VersionedModel{
			ScenarioID: utils.OrDefault(utils.EmptyThenNil(req.ScenarioID), uuid.NewString()),
		},
		Name:            req.Name,
		Description:     req.Description,
		AttackVector:    req.AttackVector,
		ScopeID:         req.ScopeID,
		FrameworkID:     req.FrameworkID,
		ImpactLevel:     req.ImpactLevel,
		LikelihoodLevel: req.LikelihoodLevel,
	}

	if req.ScopeID != uuid.Nil {
		scope, err := s.productScopeRepository.Read(req.ScopeID)
		if err != nil {
			return scenario, err
		}
		scenario.ScopeVersion = scope.Version
	}

	if scenario.ImpactLevel != nil && scenario.LikelihoodLevel != nil {
		if err := s.scoreThreatScenario(&scenario); err != nil {
			return scenario, err
		}
	}

	err := s.threatScenarioRepository.Transaction(func(tx shared.DB) error {
		if err := s.threatScenarioRepository.Create(tx, &scenario); err != nil {
			return err
		}
		s.saveEvent(tx, models.NewScenarioEvent(models.EventTypeCreated, models.ScenarioTypeThreat, scenario.ScenarioID, scenario.Version, userID))
		return nil
	})
	return scenario, err
}

// scoreThreatScenario evaluates the framework matrix for the scenario's
// assessed levels and fills the derived scoring fields.
func (s *scenarioService) scoreThreatScenario(scenario *models.ThreatScenario) error {
	framework, err := s.resolveFramework(scenario.FrameworkID)
	if err != nil {
		return err
	}
	if !framework.HasImpactLevel(*scenario.ImpactLevel) {
		return shared.NewValidationError("impactLevel", fmt.Sprintf("level %q is not declared by framework %s", *scenario.ImpactLevel, framework.ID()))
	}
	if !framework.HasLikelihoodLevel(*scenario.LikelihoodLevel) {
		return shared.NewValidationError("likelihoodLevel", fmt.Sprintf("level %q is not declared by framework %s", *scenario.LikelihoodLevel, framework.ID()))
	}

	riskLevel, err := framework.Evaluate(*scenario.ImpactLevel, *scenario.LikelihoodLevel)
	if err != nil {
		return err
	}
	classification := framework.Classify(riskLevel)
	now := time.Now()

	scenario.RiskLevel = &riskLevel
	scenario.RiskClassification = &classification
	scenario.RiskCalculatedAt = &now
	return nil
}

func (s *scenarioService) ReviseThreatScenario(key string, req dtos.ThreatScenarioReviseRequest, userID string) (models.ThreatScenario, error) {
	var scopeVersion *int
	if req.ScopeID != uuid.Nil {
		scope, err := s.productScopeRepository.Read(req.ScopeID)
		if err != nil {
			return models.ThreatScenario{}, err
		}
		scopeVersion = &scope.Version
	}

	var revised models.ThreatScenario
	var scoreErr error
	err := s.threatScenarioRepository.Transaction(func(tx shared.DB) error {
		var err error
		revised, err = s.threatScenarioRepository.ReviseVersion(tx, key, req.ObservedVersion, req.RevisionNotes, func(scenario *models.ThreatScenario) {
			scenario.Name = req.Name
			scenario.Description = req.Description
			scenario.AttackVector = req.AttackVector
			scenario.FrameworkID = req.FrameworkID
			scenario.ImpactLevel = req.ImpactLevel
			scenario.LikelihoodLevel = req.LikelihoodLevel

			if scenario.ScopeID != req.ScopeID {
				scenario.ScopeID = req.ScopeID
				scenario.ScopeOutdated = false
				if scopeVersion != nil {
					scenario.ScopeVersion = *scopeVersion
				} else {
					scenario.ScopeVersion = 0
				}
			} else if scopeVersion != nil && scenario.ScopeVersion == *scopeVersion {
				// an explicit re-assessment against the current scope version
				// clears the outdated flag
				scenario.ScopeOutdated = false
			}

			if scenario.ImpactLevel != nil && scenario.LikelihoodLevel != nil {
				scoreErr = s.scoreThreatScenario(scenario)
			} else {
				scenario.RiskLevel = nil
				scenario.RiskClassification = nil
				scenario.RiskCalculatedAt = nil
			}
		})
		if err != nil {
			return err
		}
		if scoreErr != nil {
			return scoreErr
		}
		s.saveEvent(tx, models.NewScenarioEvent(models.EventTypeRevised, models.ScenarioTypeThreat, revised.ScenarioID, revised.Version, userID))
		return nil
	})
	if scoreErr != nil {
		return revised, scoreErr
	}
	return revised, err
}

func (s *scenarioService) DeleteThreatScenario(key string, observedVersion int, userID string) error {
	return s.threatScenarioRepository.Transaction(func(tx shared.DB) error {
		if err := s.threatScenarioRepository.SoftDelete(tx, key, observedVersion); err != nil {
			return err
		}
		s.saveEvent(tx, models.NewScenarioEvent(models.EventTypeDeleted, models.ScenarioTypeThreat, key, observedVersion, userID))
		return nil
	})
}

// RescoreThreatScenario recomputes the derived risk of the current version
// against its framework. Rescoring is a cache refresh, not a revision, so
// the version number stays put.
func (s *scenarioService) RescoreThreatScenario(key string, userID string) (models.ThreatScenario, error) {
	timer := prometheus.NewTimer(monitoring.RescoreDuration)
	defer timer.ObserveDuration()

	scenario, err := s.threatScenarioRepository.GetCurrent(key)
	if err != nil {
		return scenario, err
	}
	if scenario.ImpactLevel == nil || scenario.LikelihoodLevel == nil {
		return scenario, shared.NewValidationError("impactLevel", "cannot score a scenario without assessed impact and likelihood levels")
	}
	if err := s.scoreThreatScenario(&scenario); err != nil {
		return scenario, err
	}

	err = s.threatScenarioRepository.Transaction(func(tx shared.DB) error {
		if err := s.threatScenarioRepository.UpdateRiskAssessment(tx, &scenario); err != nil {
			return err
		}
		event := models.NewScenarioEvent(models.EventTypeRescored, models.ScenarioTypeThreat, scenario.ScenarioID, scenario.Version, userID)
		event.SetArbitraryJSONData(map[string]any{
			"riskLevel":          utils.SafeDereference(scenario.RiskLevel),
			"riskClassification": utils.SafeDereference(scenario.RiskClassification),
		})
		s.saveEvent(tx, event)
		return nil
	})
	return scenario, err
}

// AdvanceProductScope bumps the scope version after a product definition
// change and flags every threat scenario assessed against an older version.
// The flag is never cleared implicitly; each scenario has to be re-assessed
// through an explicit revision.
func (s *scenarioService) AdvanceProductScope(scopeID uuid.UUID, userID string) (models.ProductScope, error) {
	var scope models.ProductScope
	err := s.productScopeRepository.Transaction(func(tx shared.DB) error {
		var err error
		scope, err = s.productScopeRepository.AdvanceVersion(tx, scopeID)
		if err != nil {
			return err
		}
		return s.threatScenarioRepository.MarkScopeOutdated(tx, scopeID, scope.Version)
	})
	if err != nil {
		return scope, err
	}
	slog.Info("product scope advanced", "scopeID", scopeID, "version", scope.Version, "userID", userID)
	return scope, nil
}

// LinkScenarios attaches a damage scenario to a threat scenario. Both
// endpoints have to resolve to a current, non-deleted version at link time;
// later deletions leave the link in place and are surfaced by the
// consistency check instead.
func (s *scenarioService) LinkScenarios(threatKey, damageKey, userID string) error {
	if _, err := s.threatScenarioRepository.GetCurrent(threatKey); err != nil {
		return err
	}
	if _, err := s.damageScenarioRepository.GetCurrent(damageKey); err != nil {
		return err
	}

	return s.threatScenarioRepository.Transaction(func(tx shared.DB) error {
		if err := s.scenarioLinkRepository.Link(tx, threatKey, damageKey); err != nil {
			return err
		}
		event := models.NewScenarioEvent(models.EventTypeLinked, models.ScenarioTypeThreat, threatKey, 0, userID)
		event.SetArbitraryJSONData(map[string]any{"damageScenarioId": damageKey})
		s.saveEvent(tx, event)
		return nil
	})
}

func (s *scenarioService) UnlinkScenarios(threatKey, damageKey, userID string) error {
	return s.threatScenarioRepository.Transaction(func(tx shared.DB) error {
		if err := s.scenarioLinkRepository.Unlink(tx, threatKey, damageKey); err != nil {
			return err
		}
		event := models.NewScenarioEvent(models.EventTypeUnlinked, models.ScenarioTypeThreat, threatKey, 0, userID)
		event.SetArbitraryJSONData(map[string]any{"damageScenarioId": damageKey})
		s.saveEvent(tx, event)
		return nil
	})
}

// LinkedDamageScenarios resolves the damage scenarios attached to a threat
// scenario. A legacy single-valued reference is migrated into the link table
// on first read; migrated or not, stale endpoints are skipped silently and
// left to the consistency check.
func (s *scenarioService) LinkedDamageScenarios(threatKey string) ([]models.DamageScenario, error) {
	threat, err := s.threatScenarioRepository.GetCurrent(threatKey)
	if err != nil {
		return nil, err
	}

	if threat.DamageScenarioID != nil && *threat.DamageScenarioID != "" {
		hasLinks, err := s.scenarioLinkRepository.HasLinks(threatKey)
		if err != nil {
			return nil, err
		}
		if !hasLinks {
			if err := s.scenarioLinkRepository.Link(nil, threatKey, *threat.DamageScenarioID); err != nil {
				return nil, err
			}
			slog.Info("migrated legacy damage scenario reference into link table", "threatScenarioID", threatKey, "damageScenarioID", *threat.DamageScenarioID)
		}
	}

	damageKeys, err := s.scenarioLinkRepository.LinksFor(threatKey, models.LinkDirectionOutgoing)
	if err != nil {
		return nil, err
	}

	scenarios := make([]models.DamageScenario, 0, len(damageKeys))
	for _, damageKey := range damageKeys {
		scenario, err := s.damageScenarioRepository.GetCurrent(damageKey)
		if err != nil {
			if shared.IsNotFoundError(err) {
				continue
			}
			return nil, err
		}
		scenarios = append(scenarios, scenario)
	}
	return scenarios, nil
}

func (s *scenarioService) FindDanglingLinks() ([]shared.DanglingReferenceError, error) {
	dangling, err := s.scenarioLinkRepository.FindDangling()
	if err != nil {
		return nil, err
	}
	monitoring.DanglingLinkAmount.Set(float64(len(dangling)))
	return dangling, nil
}
