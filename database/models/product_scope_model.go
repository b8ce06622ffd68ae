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

import "github.com/google/uuid"

// ProductScope is the assessment boundary scenarios belong to. Its version
// advances whenever the product definition changes; threat scenarios record
// the scope version they were assessed against.
type ProductScope struct {
	Model

	Name        string `json:"name" gorm:"type:text;not null"`
	Description string `json:"description" gorm:"type:text"`

	Version int `json:"version" gorm:"not null;default:1"`
}

func (s ProductScope) TableName() string {
	return "product_scopes"
}

// ProductComponent is an asset inside a product scope that a damage
// scenario may bind to as its primary component.
type ProductComponent struct {
	Model

	ScopeID uuid.UUID `json:"scopeId" gorm:"type:uuid;not null;index"`

	Name        string `json:"name" gorm:"type:text;not null"`
	Description string `json:"description" gorm:"type:text"`
}

func (c ProductComponent) TableName() string {
	return "product_components"
}
