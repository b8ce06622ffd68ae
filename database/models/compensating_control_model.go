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

import "time"

type CompensatingControl struct {
	Model

	ControlID   string `json:"controlId" gorm:"type:text;not null;uniqueIndex"`
	Name        string `json:"name" gorm:"type:text;not null"`
	Description string `json:"description" gorm:"type:text"`

	Active    bool       `json:"active" gorm:"default:true"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

func (c CompensatingControl) TableName() string {
	return "compensating_controls"
}

// Effective reports whether the control can be credited against risk:
// it must be active and not expired at the given time.
func (c CompensatingControl) Effective(now time.Time) bool {
	if !c.Active {
		return false
	}
	if c.ExpiresAt != nil && !c.ExpiresAt.After(now) {
		return false
	}
	return true
}
