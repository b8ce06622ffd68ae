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

type ScenarioType string

const (
	ScenarioTypeDamage      ScenarioType = "damageScenario"
	ScenarioTypeThreat      ScenarioType = "threatScenario"
	ScenarioTypeRequirement ScenarioType = "requirement"
	ScenarioTypeFramework   ScenarioType = "riskFramework"
)

// VersionedModel is the shared shape of every scenario record. A scenario is
// never updated in place: each revision appends a new row carrying the same
// ScenarioID with an incremented Version. For a given ScenarioID exactly one
// row has IsCurrent = true, unless every version is deleted, in which case
// none is current.
type VersionedModel struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`

	// ScenarioID is the stable business key, unique within the scenario type.
	ScenarioID string `json:"scenarioId" gorm:"type:text;not null;index"`
	Version    int    `json:"version" gorm:"not null;default:1"`

	IsCurrent bool `json:"isCurrent" gorm:"not null;default:true"`
	IsDeleted bool `json:"isDeleted" gorm:"not null;default:false"`

	// RevisionNotes is required on every version bump beyond 1.
	RevisionNotes *string `json:"revisionNotes" gorm:"type:text"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m VersionedModel) GetScenarioID() string {
	return m.ScenarioID
}

func (m VersionedModel) GetVersion() int {
	return m.Version
}

func (m VersionedModel) Current() bool {
	return m.IsCurrent && !m.IsDeleted
}

func (m VersionedModel) Deleted() bool {
	return m.IsDeleted
}

// InitFirstVersion normalizes a record for its initial insert.
func (m *VersionedModel) InitFirstVersion() {
	m.ID = uuid.Nil
	m.Version = 1
	m.IsCurrent = true
	m.IsDeleted = false
	m.RevisionNotes = nil
}

// PrepareRevision resets the row identity so gorm inserts a fresh version row
// instead of updating the one the caller read.
func (m *VersionedModel) PrepareRevision(nextVersion int, notes string) {
	m.ID = uuid.Nil
	m.Version = nextVersion
	m.IsCurrent = true
	m.IsDeleted = false
	m.RevisionNotes = &notes
	m.CreatedAt = time.Time{}
	m.UpdatedAt = time.Time{}
}

func (m *VersionedModel) Supersede() {
	m.IsCurrent = false
}

func (m *VersionedModel) MarkDeleted() {
	m.IsDeleted = true
	m.IsCurrent = false
}
