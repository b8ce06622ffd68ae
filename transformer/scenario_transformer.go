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

package transformer

import (
	"github.com/l3montree-dev/taraguard/database/models"
	"github.com/l3montree-dev/taraguard/dtos"
	"github.com/l3montree-dev/taraguard/shared"
	"github.com/l3montree-dev/taraguard/utils"
)

func DamageScenarioToDTO(scenario models.DamageScenario) dtos.DamageScenarioDTO {
	return dtos.DamageScenarioDTO{
		ScenarioID:    scenario.ScenarioID,
		Version:       scenario.Version,
		IsCurrent:     scenario.IsCurrent,
		IsDeleted:     scenario.IsDeleted,
		RevisionNotes: scenario.RevisionNotes,

		Name:               scenario.Name,
		Description:        scenario.Description,
		ViolatedProperties: scenario.ViolatedProperties,
		DamageCategory:     scenario.DamageCategory,
		ImpactType:         scenario.ImpactType,
		Severity:           scenario.Severity,

		SafetyRelevant:      scenario.SafetyRelevant,
		FinancialRelevant:   scenario.FinancialRelevant,
		OperationalRelevant: scenario.OperationalRelevant,
		PrivacyRelevant:     scenario.PrivacyRelevant,

		PrimaryComponentID: scenario.PrimaryComponentID,
		FrameworkID:        scenario.FrameworkID,

		Sfop: dtos.SfopRatingDTO{
			SafetyImpact:      scenario.Sfop.SafetyImpact,
			FinancialImpact:   scenario.Sfop.FinancialImpact,
			OperationalImpact: scenario.Sfop.OperationalImpact,
			PrivacyImpact:     scenario.Sfop.PrivacyImpact,
			AutoGenerated:     scenario.Sfop.AutoGenerated,
			LastEditedBy:      scenario.Sfop.LastEditedBy,
			LastEditedAt:      scenario.Sfop.LastEditedAt,
			OverrideReason:    scenario.Sfop.OverrideReason,
		},

		CreatedAt: scenario.CreatedAt,
		UpdatedAt: scenario.UpdatedAt,
	}
}

func DamageScenariosToDTOs(scenarios []models.DamageScenario) []dtos.DamageScenarioDTO {
	return utils.Map(scenarios, DamageScenarioToDTO)
}

func ThreatScenarioToDTO(scenario models.ThreatScenario) dtos.ThreatScenarioDTO {
	return dtos.ThreatScenarioDTO{
		ScenarioID:    scenario.ScenarioID,
		Version:       scenario.Version,
		IsCurrent:     scenario.IsCurrent,
		IsDeleted:     scenario.IsDeleted,
		RevisionNotes: scenario.RevisionNotes,

		Name:         scenario.Name,
		Description:  scenario.Description,
		AttackVector: scenario.AttackVector,

		ScopeID:       scenario.ScopeID,
		ScopeVersion:  scenario.ScopeVersion,
		ScopeOutdated: scenario.ScopeOutdated,
		FrameworkID:   scenario.FrameworkID,

		ImpactLevel:        scenario.ImpactLevel,
		LikelihoodLevel:    scenario.LikelihoodLevel,
		RiskLevel:          scenario.RiskLevel,
		RiskClassification: scenario.RiskClassification,
		RiskCalculatedAt:   scenario.RiskCalculatedAt,

		CreatedAt: scenario.CreatedAt,
		UpdatedAt: scenario.UpdatedAt,
	}
}

func ThreatScenariosToDTOs(scenarios []models.ThreatScenario) []dtos.ThreatScenarioDTO {
	return utils.Map(scenarios, ThreatScenarioToDTO)
}

func ScenarioEventToDTO(event models.ScenarioEvent) dtos.ScenarioEventDTO {
	return dtos.ScenarioEventDTO{
		ID:            event.ID,
		Type:          event.Type,
		ScenarioID:    event.ScenarioID,
		ScenarioType:  event.ScenarioType,
		Version:       event.Version,
		UserID:        event.UserID,
		Justification: event.Justification,
		Payload:       event.GetArbitraryJSONData(),
		CreatedAt:     event.CreatedAt,
	}
}

func ProductScopeToDTO(scope models.ProductScope) dtos.ProductScopeDTO {
	return dtos.ProductScopeDTO{
		ID:          scope.ID,
		Name:        scope.Name,
		Description: scope.Description,
		Version:     scope.Version,
		CreatedAt:   scope.CreatedAt,
		UpdatedAt:   scope.UpdatedAt,
	}
}

func DanglingReferenceToDTO(dangling shared.DanglingReferenceError) dtos.DanglingLinkDTO {
	return dtos.DanglingLinkDTO{
		SourceID: dangling.SourceID,
		TargetID: dangling.TargetID,
		Endpoint: dangling.Endpoint,
		Message:  dangling.Error(),
	}
}
