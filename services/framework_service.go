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

	"github.com/l3montree-dev/taraguard/database/models"
	"github.com/l3montree-dev/taraguard/risk"
	"github.com/l3montree-dev/taraguard/shared"
)

type frameworkService struct {
	riskFrameworkRepository shared.RiskFrameworkRepository
	scenarioEventRepository shared.ScenarioEventRepository
}

func NewFrameworkService(riskFrameworkRepository shared.RiskFrameworkRepository, scenarioEventRepository shared.ScenarioEventRepository) *frameworkService {
	return &frameworkService{
		riskFrameworkRepository: riskFrameworkRepository,
		scenarioEventRepository: scenarioEventRepository,
	}
}

// CreateFramework validates and stores a framework configuration. An
// existing framework with the same id is updated in place; frameworks are
// configuration, not scenario content, so they are not versioned.
func (s *frameworkService) CreateFramework(framework models.RiskFramework) (models.RiskFramework, error) {
	// a framework that does not load must never be stored half-valid
	if _, err := risk.LoadFramework(framework); err != nil {
		return framework, err
	}

	existing, err := s.riskFrameworkRepository.FindByFrameworkID(framework.FrameworkID)
	if err != nil {
		if !shared.IsNotFoundError(err) {
			return framework, err
		}
		err = s.riskFrameworkRepository.Create(nil, &framework)
		return framework, err
	}

	existing.Name = framework.Name
	existing.ImpactLevels = framework.ImpactLevels
	existing.LikelihoodLevels = framework.LikelihoodLevels
	existing.RiskLevels = framework.RiskLevels
	existing.Matrix = framework.Matrix
	existing.Thresholds = framework.Thresholds

	err = s.riskFrameworkRepository.Save(nil, &existing)
	return existing, err
}

// ActivateFramework switches scoring to the given framework. The framework
// is re-validated right before activation; a ConfigError blocks the switch
// and leaves the previously active framework in place.
func (s *frameworkService) ActivateFramework(frameworkID string, userID string) error {
	framework, err := s.riskFrameworkRepository.FindByFrameworkID(frameworkID)
	if err != nil {
		return err
	}
	if _, err := risk.LoadFramework(framework); err != nil {
		return err
	}

	return s.riskFrameworkRepository.Transaction(func(tx shared.DB) error {
		if err := s.riskFrameworkRepository.Activate(tx, frameworkID); err != nil {
			return err
		}
		event := models.NewScenarioEvent(models.EventTypeFrameworkActivated, models.ScenarioTypeFramework, frameworkID, 0, userID)
		if err := s.scenarioEventRepository.Create(tx, &event); err != nil {
			slog.Error("could not save framework activation event", "err", err, "frameworkID", frameworkID)
		}
		slog.Info("risk framework activated", "frameworkID", frameworkID, "userID", userID)
		return nil
	})
}

func (s *frameworkService) GetActiveFramework() (models.RiskFramework, error) {
	return s.riskFrameworkRepository.GetActive()
}

func (s *frameworkService) ListFrameworks() ([]models.RiskFramework, error) {
	return s.riskFrameworkRepository.All()
}
