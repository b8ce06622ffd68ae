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

package risk

import (
	"testing"
	"time"

	"github.com/l3montree-dev/taraguard/database/models"
	"github.com/l3montree-dev/taraguard/utils"
	"github.com/stretchr/testify/assert"
)

func TestComputeGapSeverity(t *testing.T) {
	now := time.Now()
	effectiveControl := models.CompensatingControl{ControlID: "fw-rules", Active: true}
	inactiveControl := models.CompensatingControl{ControlID: "ids", Active: false}
	expiredControl := models.CompensatingControl{
		ControlID: "waiver",
		Active:    true,
		ExpiresAt: utils.Ptr(now.Add(-24 * time.Hour)),
	}

	t.Run("not applicable yields no gap", func(t *testing.T) {
		requirement := models.Requirement{ImplementationState: models.ImplementationStateNotApplicable}
		assert.Equal(t, models.GapSeverityNone, ComputeGapSeverity(requirement, now))
	})

	t.Run("implemented with only effective controls yields no gap", func(t *testing.T) {
		requirement := models.Requirement{
			ImplementationState: models.ImplementationStateImplemented,
			Controls:            []models.CompensatingControl{effectiveControl},
		}
		assert.Equal(t, models.GapSeverityNone, ComputeGapSeverity(requirement, now))
	})

	t.Run("implemented without any control yields no gap", func(t *testing.T) {
		requirement := models.Requirement{ImplementationState: models.ImplementationStateImplemented}
		assert.Equal(t, models.GapSeverityNone, ComputeGapSeverity(requirement, now))
	})

	t.Run("implemented leaning on an inactive control degrades to moderate", func(t *testing.T) {
		requirement := models.Requirement{
			ImplementationState: models.ImplementationStateImplemented,
			Controls:            []models.CompensatingControl{effectiveControl, inactiveControl},
		}
		assert.Equal(t, models.GapSeverityModerate, ComputeGapSeverity(requirement, now))
	})

	t.Run("implemented leaning on an expired control degrades to moderate", func(t *testing.T) {
		requirement := models.Requirement{
			ImplementationState: models.ImplementationStateImplemented,
			Controls:            []models.CompensatingControl{expiredControl},
		}
		assert.Equal(t, models.GapSeverityModerate, ComputeGapSeverity(requirement, now))
	})

	t.Run("partial stays significant even with effective controls", func(t *testing.T) {
		requirement := models.Requirement{
			ImplementationState: models.ImplementationStatePartial,
			Controls:            []models.CompensatingControl{effectiveControl},
		}
		assert.Equal(t, models.GapSeveritySignificant, ComputeGapSeverity(requirement, now))
	})

	t.Run("not started is critical", func(t *testing.T) {
		requirement := models.Requirement{ImplementationState: models.ImplementationStateNotStarted}
		assert.Equal(t, models.GapSeverityCritical, ComputeGapSeverity(requirement, now))
	})

	t.Run("an unknown state fails closed to critical", func(t *testing.T) {
		requirement := models.Requirement{ImplementationState: "somethingNew"}
		assert.Equal(t, models.GapSeverityCritical, ComputeGapSeverity(requirement, now))
	})
}

func TestComputeResidualRisk(t *testing.T) {
	framework, err := LoadFramework(validFrameworkModel())
	assert.NoError(t, err)
	now := time.Now()

	effective := models.CompensatingControl{ControlID: "fw-rules", Active: true}
	inactive := models.CompensatingControl{ControlID: "ids", Active: false}

	t.Run("without effective controls the residual equals the inherent risk", func(t *testing.T) {
		requirement := models.Requirement{Controls: []models.CompensatingControl{inactive}}
		level, err := ComputeResidualRisk(requirement, "high", framework, now)
		assert.NoError(t, err)
		assert.Equal(t, "high", level)
	})

	t.Run("each effective control credits one step", func(t *testing.T) {
		requirement := models.Requirement{Controls: []models.CompensatingControl{effective, inactive}}
		level, err := ComputeResidualRisk(requirement, "critical", framework, now)
		assert.NoError(t, err)
		assert.Equal(t, "high", level)
	})

	t.Run("the residual floors at the lowest risk level", func(t *testing.T) {
		many := []models.CompensatingControl{}
		for range 6 {
			many = append(many, effective)
		}
		requirement := models.Requirement{Controls: many}
		level, err := ComputeResidualRisk(requirement, "medium", framework, now)
		assert.NoError(t, err)
		assert.Equal(t, "low", level)
	})

	t.Run("an unknown inherent level is an error", func(t *testing.T) {
		_, err := ComputeResidualRisk(models.Requirement{}, "does-not-exist", framework, now)
		assert.Error(t, err)
	})
}
