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

package models

import (
	"time"

	"github.com/google/uuid"
)

type ViolatedProperty string

const (
	ViolatedPropertyConfidentiality ViolatedProperty = "confidentiality"
	ViolatedPropertyIntegrity       ViolatedProperty = "integrity"
	ViolatedPropertyAvailability    ViolatedProperty = "availability"
)

func (property ViolatedProperty) Valid() bool {
	switch property {
	case ViolatedPropertyConfidentiality, ViolatedPropertyIntegrity, ViolatedPropertyAvailability:
		return true
	}
	return false
}

type DamageCategory string

const (
	DamageCategorySafety      DamageCategory = "safety"
	DamageCategoryFinancial   DamageCategory = "financial"
	DamageCategoryOperational DamageCategory = "operational"
	DamageCategoryPrivacy     DamageCategory = "privacy"
	DamageCategoryOther       DamageCategory = "other"
)

// HarmDimension is one of the four SFOP axes a damage scenario is rated on.
type HarmDimension string

const (
	HarmDimensionSafety      HarmDimension = "safety"
	HarmDimensionFinancial   HarmDimension = "financial"
	HarmDimensionOperational HarmDimension = "operational"
	HarmDimensionPrivacy     HarmDimension = "privacy"
)

var HarmDimensions = []HarmDimension{
	HarmDimensionSafety,
	HarmDimensionFinancial,
	HarmDimensionOperational,
	HarmDimensionPrivacy,
}

type RatingMode string

const (
	RatingModeAutomatic  RatingMode = "automatic"
	RatingModeOverridden RatingMode = "overridden"
)

// SfopRating is the qualitative impact rating block of a damage scenario.
// It is either automatic (derived from the harm-dimension flags) or
// overridden by a human with a mandatory reason. The two states are kept
// mutually exclusive through DeriveSfopImpact / ApplyOverride, never by
// mutating the fields directly.
type SfopRating struct {
	SafetyImpact      string `json:"safetyImpact" gorm:"type:text"`
	FinancialImpact   string `json:"financialImpact" gorm:"type:text"`
	OperationalImpact string `json:"operationalImpact" gorm:"type:text"`
	PrivacyImpact     string `json:"privacyImpact" gorm:"type:text"`

	AutoGenerated  bool       `json:"autoGenerated" gorm:"default:true"`
	LastEditedBy   *string    `json:"lastEditedBy" gorm:"type:text"`
	LastEditedAt   *time.Time `json:"lastEditedAt"`
	OverrideReason *string    `json:"overrideReason" gorm:"type:text"`
}

func (r SfopRating) Mode() RatingMode {
	if r.AutoGenerated {
		return RatingModeAutomatic
	}
	return RatingModeOverridden
}

func (r SfopRating) Level(dimension HarmDimension) string {
	switch dimension {
	case HarmDimensionSafety:
		return r.SafetyImpact
	case HarmDimensionFinancial:
		return r.FinancialImpact
	case HarmDimensionOperational:
		return r.OperationalImpact
	case HarmDimensionPrivacy:
		return r.PrivacyImpact
	}
	return ""
}

func (r *SfopRating) SetLevel(dimension HarmDimension, level string) {
	switch dimension {
	case HarmDimensionSafety:
		r.SafetyImpact = level
	case HarmDimensionFinancial:
		r.FinancialImpact = level
	case HarmDimensionOperational:
		r.OperationalImpact = level
	case HarmDimensionPrivacy:
		r.PrivacyImpact = level
	}
}

type DamageScenario struct {
	VersionedModel

	Name        string `json:"name" gorm:"type:text;not null"`
	Description string `json:"description" gorm:"type:text"`

	ViolatedProperties []ViolatedProperty `json:"violatedProperties" gorm:"type:jsonb;default:'[]';serializer:json"`

	DamageCategory DamageCategory `json:"damageCategory" gorm:"type:text"`
	ImpactType     string         `json:"impactType" gorm:"type:text"`
	// Severity is a level name on the active framework's impact scale.
	Severity string `json:"severity" gorm:"type:text"`

	SafetyRelevant      bool `json:"safetyRelevant" gorm:"default:false"`
	FinancialRelevant   bool `json:"financialRelevant" gorm:"default:false"`
	OperationalRelevant bool `json:"operationalRelevant" gorm:"default:false"`
	PrivacyRelevant     bool `json:"privacyRelevant" gorm:"default:false"`

	// PrimaryComponentID may be nil: a damage scenario without a bound
	// component describes a cross-cutting or system-level harm.
	PrimaryComponentID *uuid.UUID `json:"primaryComponentId" gorm:"type:uuid;default:null"`

	// FrameworkID pins a specific risk framework for reproducible scoring.
	// When nil, the active framework is resolved at scoring time.
	FrameworkID *string `json:"frameworkId" gorm:"type:text;default:null"`

	Sfop SfopRating `json:"sfop" gorm:"embedded;embeddedPrefix:sfop_"`
}

func (s DamageScenario) TableName() string {
	return "damage_scenarios"
}

func (s DamageScenario) RelevantFor(dimension HarmDimension) bool {
	switch dimension {
	case HarmDimensionSafety:
		return s.SafetyRelevant
	case HarmDimensionFinancial:
		return s.FinancialRelevant
	case HarmDimensionOperational:
		return s.OperationalRelevant
	case HarmDimensionPrivacy:
		return s.PrivacyRelevant
	}
	return false
}
