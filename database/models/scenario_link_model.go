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

type LinkDirection string

const (
	LinkDirectionOutgoing LinkDirection = "outgoing"
	LinkDirectionIncoming LinkDirection = "incoming"
)

// ScenarioLink joins a threat scenario (source) with a damage scenario
// (target) by business key. The link lives independently of either
// endpoint's version lifecycle: deleting an endpoint does not cascade, the
// link becomes dangling and is surfaced by consistency checks instead.
type ScenarioLink struct {
	SourceID string `json:"sourceId" gorm:"primaryKey;type:text"`
	TargetID string `json:"targetId" gorm:"primaryKey;type:text"`

	CreatedAt time.Time `json:"createdAt"`
}

func (l ScenarioLink) TableName() string {
	return "scenario_links"
}
