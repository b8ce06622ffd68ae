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

package dtos

import (
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/taraguard/database/models"
)

type DamageScenarioCreateRequest struct {
	ScenarioID         string                    `json:"scenarioId"`
	Name               string                    `json:"name" validate:"required"`
	Description        string                    `json:"description"`
	ViolatedProperties []models.ViolatedProperty `json:"violatedProperties" validate:"min=1,dive,oneof=confidentiality integrity availability"`
	DamageCategory     models.DamageCategory     `json:"damageCategory" validate:"required"`
	ImpactType         string                    `json:"impactType"`
	Severity           string                    `json:"severity" validate:"required"`

	SafetyRelevant      bool `json:"safetyRelevant"`
	FinancialRelevant   bool `json:"financialRelevant"`
	OperationalRelevant bool `json:"operationalRelevant"`
	PrivacyRelevant     bool `json:"privacyRelevant"`

	PrimaryComponentID *uuid.UUID `json:"primaryComponentId"`
	FrameworkID        *string    `json:"frameworkId"`
}

type DamageScenarioReviseRequest struct {
	ObservedVersion int    `json:"observedVersion" validate:"min=1"`
	RevisionNotes   string `json:"revisionNotes" validate:"required"`

	Name               string                    `json:"name" validate:"required"`
	Description        string                    `json:"description"`
	ViolatedProperties []models.ViolatedProperty `json:"violatedProperties" validate:"min=1,dive,oneof=confidentiality integrity availability"`
	DamageCategory     models.DamageCategory     `json:"damageCategory" validate:"required"`
	ImpactType         string                    `json:"impactType"`
	Severity           string                    `json:"severity" validate:"required"`

	SafetyRelevant      bool `json:"safetyRelevant"`
	FinancialRelevant   bool `json:"financialRelevant"`
	OperationalRelevant bool `json:"operationalRelevant"`
	PrivacyRelevant     bool `json:"privacyRelevant"`

	PrimaryComponentID *uuid.UUID `json:"primaryComponentId"`
	FrameworkID        *string    `json:"frameworkId"`
}

// SfopOverrideRequest replaces the derived rating with an analyst supplied
// one. Omitted dimensions keep their derived value.
type SfopOverrideRequest struct {
	SafetyImpact      *string `json:"safetyImpact"`
	FinancialImpact   *string `json:"financialImpact"`
	OperationalImpact *string `json:"operationalImpact"`
	PrivacyImpact     *string `json:"privacyImpact"`
	Reason            string  `json:"reason" validate:"required"`
}

type ThreatScenarioCreateRequest struct {
	ScenarioID   string `json:"scenarioId"`
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description"`
	AttackVector string `json:"attackVector"`

	ScopeID     uuid.UUID `json:"scopeId"`
	FrameworkID *string   `json:"frameworkId"`

	ImpactLevel     *string `json:"impactLevel"`
	LikelihoodLevel *string `json:"likelihoodLevel"`
}

type ThreatScenarioReviseRequest struct {
	ObservedVersion int    `json:"observedVersion" validate:"min=1"`
	RevisionNotes   string `json:"revisionNotes" validate:"required"`

	Name         string `json:"name" validate:"required"`
	Description  string `json:"description"`
	AttackVector string `json:"attackVector"`

	ScopeID     uuid.UUID `json:"scopeId"`
	FrameworkID *string   `json:"frameworkId"`

	ImpactLevel     *string `json:"impactLevel"`
	LikelihoodLevel *string `json:"likelihoodLevel"`
}

type ScenarioDeleteRequest struct {
	ObservedVersion int `json:"observedVersion" validate:"min=1"`
}

type ScenarioLinkRequest struct {
	DamageScenarioID string `json:"damageScenarioId" validate:"required"`
}

type SfopRatingDTO struct {
	SafetyImpact      string     `json:"safetyImpact"`
	FinancialImpact   string     `json:"financialImpact"`
	OperationalImpact string     `json:"operationalImpact"`
	PrivacyImpact     string     `json:"privacyImpact"`
	AutoGenerated     bool       `json:"autoGenerated"`
	LastEditedBy      *string    `json:"lastEditedBy,omitempty"`
	LastEditedAt      *time.Time `json:"lastEditedAt,omitempty"`
	OverrideReason    *string    `json:"overrideReason,omitempty"`
}

type DamageScenarioDTO struct {
	ScenarioID    string  `json:"scenarioId"`
	Version       int     `json:"version"`
	IsCurrent     bool    `json:"isCurrent"`
	IsDeleted     bool    `json:"isDeleted"`
	RevisionNotes *string `json:"revisionNotes,omitempty"`

	Name               string                    `json:"name"`
	Description        string                    `json:"description"`
	ViolatedProperties []models.ViolatedProperty `json:"violatedProperties"`
	DamageCategory     models.DamageCategory     `json:"damageCategory"`
	ImpactType         string                    `json:"impactType"`
	Severity           string                    `json:"severity"`

	SafetyRelevant      bool `json:"safetyRelevant"`
	FinancialRelevant   bool `json:"financialRelevant"`
	OperationalRelevant bool `json:"operationalRelevant"`
	PrivacyRelevant     bool `json:"privacyRelevant"`

	PrimaryComponentID *uuid.UUID `json:"primaryComponentId,omitempty"`
	FrameworkID        *string    `json:"frameworkId,omitempty"`

	Sfop SfopRatingDTO `json:"sfop"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ThreatScenarioDTO struct {
	ScenarioID    string  `json:"scenarioId"`
	Version       int     `json:"version"`
	IsCurrent     bool    `json:"isCurrent"`
	IsDeleted     bool    `json:"isDeleted"`
	RevisionNotes *string `json:"revisionNotes,omitempty"`

	Name         string `json:"name"`
	Description  string `json:"description"`
	AttackVector string `json:"attackVector"`

	ScopeID       uuid.UUID `json:"scopeId"`
	ScopeVersion  int       `json:"scopeVersion"`
	ScopeOutdated bool      `json:"scopeOutdated"`
	FrameworkID   *string   `json:"frameworkId,omitempty"`

	ImpactLevel        *string    `json:"impactLevel,omitempty"`
	LikelihoodLevel    *string    `json:"likelihoodLevel,omitempty"`
	RiskLevel          *string    `json:"riskLevel,omitempty"`
	RiskClassification *string    `json:"riskClassification,omitempty"`
	RiskCalculatedAt   *time.Time `json:"riskCalculatedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ScenarioEventDTO struct {
	ID            uuid.UUID                `json:"id"`
	Type          models.ScenarioEventType `json:"type"`
	ScenarioID    string                   `json:"scenarioId"`
	ScenarioType  models.ScenarioType      `json:"scenarioType"`
	Version       int                      `json:"version"`
	UserID        string                   `json:"userId"`
	Justification *string                  `json:"justification,omitempty"`
	Payload       map[string]any           `json:"payload,omitempty"`
	CreatedAt     time.Time                `json:"createdAt"`
}

type ProductScopeDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type DanglingLinkDTO struct {
	SourceID string `json:"sourceId"`
	TargetID string `json:"targetId"`
	Endpoint string `json:"endpoint"`
	Message  string `json:"message"`
}
