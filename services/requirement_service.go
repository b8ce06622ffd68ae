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
	"log/slog"
	"time"

	"github.com/l3montree-dev/taraguard/database/models"
	"github.com/l3montree-dev/taraguard/monitoring"
	"github.com/l3montree-dev/taraguard/risk"
	"github.com/l3montree-dev/taraguard/shared"
	"github.com/prometheus/client_golang/prometheus"
)

type requirementService struct {
	requirementRepository         shared.RequirementRepository
	compensatingControlRepository shared.CompensatingControlRepository
	riskFrameworkRepository       shared.RiskFrameworkRepository
	scenarioEventRepository       shared.ScenarioEventRepository
}

func NewRequirementService(
	requirementRepository shared.RequirementRepository,
	compensatingControlRepository shared.CompensatingControlRepository,
	riskFrameworkRepository shared.RiskFrameworkRepository,
	scenarioEventRepository shared.ScenarioEventRepository,
) *requirementService {
	return &requirementService{
		requirementRepository:         requirementRepository,
		compensatingControlRepository: compensatingControlRepository,
		riskFrameworkRepository:       riskFrameworkRepository,
		scenarioEventRepository:       scenarioEventRepository,
	}
}

func (s *requirementService) Get(requirementID string) (models.Requirement, error) {
	return s.requirementRepository.FindByRequirementID(requirementID)
}

// SetImplementationState updates the state and drops the cached gap result.
// The next EvaluateGap recomputes it; a stale severity is never served.
func (s *requirementService) SetImplementationState(requirementID string, state models.ImplementationState, userID string) (models.Requirement, error) {
	requirement, err := s.requirementRepository.FindByRequirementID(requirementID)
	if err != nil {
		return requirement, err
	}

	switch state {
	case models.ImplementationStateNotStarted, models.ImplementationStatePartial, models.ImplementationStateImplemented, models.ImplementationStateNotApplicable:
	default:
		return requirement, shared.NewValidationError("state", "unknown implementation state "+string(state))
	}

	requirement.ImplementationState = state
	requirement.InvalidateGapCache()

	err = s.requirementRepository.Save(nil, &requirement)
	return requirement, err
}

// EvaluateGap computes the gap severity and the residual risk of a
// requirement and caches both on the record.
func (s *requirementService) EvaluateGap(requirementID string, userID string) (models.Requirement, error) {
	timer := prometheus.NewTimer(monitoring.GapEvaluationDuration)
	defer timer.ObserveDuration()

	requirement, err := s.requirementRepository.FindByRequirementID(requirementID)
	if err != nil {
		return requirement, err
	}
	if requirement.InherentRiskLevel == "" {
		return requirement, shared.NewValidationError("inherentRiskLevel", "cannot evaluate a requirement without an inherent risk level")
	}

	frameworkModel, err := s.riskFrameworkRepository.GetActive()
	if err != nil {
		return requirement, err
	}
	framework, err := risk.LoadFramework(frameworkModel)
	if err != nil {
		return requirement, err
	}

	now := time.Now()
	severity := risk.ComputeGapSeverity(requirement, now)
	residual, err := risk.ComputeResidualRisk(requirement, requirement.InherentRiskLevel, framework, now)
	if err != nil {
		return requirement, err
	}

	requirement.GapSeverity = &severity
	requirement.ResidualRiskLevel = &residual
	requirement.GapEvaluatedAt = &now

	err = s.requirementRepository.Transaction(func(tx shared.DB) error {
		if err := s.requirementRepository.Save(tx, &requirement); err != nil {
			return err
		}
		event := models.NewScenarioEvent(models.EventTypeGapEvaluated, models.ScenarioTypeRequirement, requirement.RequirementID, 0, userID)
		event.SetArbitraryJSONData(map[string]any{
			"gapSeverity":       string(severity),
			"residualRiskLevel": residual,
		})
		if err := s.scenarioEventRepository.Create(tx, &event); err != nil {
			slog.Error("could not save gap evaluation event", "err", err, "requirementID", requirement.RequirementID)
		}
		return nil
	})
	return requirement, err
}

func (s *requirementService) LinkControl(requirementID, controlID, userID string) (models.Requirement, error) {
	requirement, err := s.requirementRepository.FindByRequirementID(requirementID)
	if err != nil {
		return requirement, err
	}
	control, err := s.compensatingControlRepository.FindByControlID(controlID)
	if err != nil {
		return requirement, err
	}

	err = s.requirementRepository.Transaction(func(tx shared.DB) error {
		if err := s.requirementRepository.LinkControl(tx, &requirement, control); err != nil {
			return err
		}
		// the control set changed, the cached gap is void
		requirement.InvalidateGapCache()
		return s.requirementRepository.Save(tx, &requirement)
	})
	if err != nil {
		return requirement, err
	}
	return s.requirementRepository.FindByRequirementID(requirementID)
}

func (s *requirementService) UnlinkControl(requirementID, controlID, userID string) (models.Requirement, error) {
	requirement, err := s.requirementRepository.FindByRequirementID(requirementID)
	if err != nil {
		return requirement, err
	}
	control, err := s.compensatingControlRepository.FindByControlID(controlID)
	if err != nil {
		return requirement, err
	}

	err = s.requirementRepository.Transaction(func(tx shared.DB) error {
		if err := s.requirementRepository.UnlinkControl(tx, &requirement, control); err != nil {
			return err
		}
		requirement.InvalidateGapCache()
		return s.requirementRepository.Save(tx, &requirement)
	})
	if err != nil {
		return requirement, err
	}
	return s.requirementRepository.FindByRequirementID(requirementID)
}
