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

	"github.com/l3montree-dev/taraguard/database/models"
	"github.com/l3montree-dev/taraguard/shared"
	"github.com/stretchr/testify/assert"
)

func validFrameworkModel() models.RiskFramework {
	return models.RiskFramework{
		FrameworkID:      "iso21434-default",
		Name:             "Default",
		ImpactLevels:     []string{"negligible", "moderate", "major", "severe"},
		LikelihoodLevels: []string{"low", "medium", "high"},
		RiskLevels:       []string{"low", "medium", "high", "critical"},
		Matrix: []models.RiskMatrixEntry{
			{Impact: "negligible", Likelihood: "low", Risk: "low"},
			{Impact: "negligible", Likelihood: "medium", Risk: "low"},
			{Impact: "negligible", Likelihood: "high", Risk: "medium"},
			{Impact: "moderate", Likelihood: "low", Risk: "low"},
			{Impact: "moderate", Likelihood: "medium", Risk: "medium"},
			{Impact: "moderate", Likelihood: "high", Risk: "high"},
			{Impact: "major", Likelihood: "low", Risk: "medium"},
			{Impact: "major", Likelihood: "medium", Risk: "high"},
			{Impact: "major", Likelihood: "high", Risk: "critical"},
			{Impact: "severe", Likelihood: "low", Risk: "high"},
			{Impact: "severe", Likelihood: "medium", Risk: "critical"},
			{Impact: "severe", Likelihood: "high", Risk: "critical"},
		},
		Thresholds: []models.RiskThreshold{
			{RiskLevel: "low", Action: "acceptable"},
			{RiskLevel: "high", Action: "alarp"},
			{RiskLevel: "critical", Action: "intolerable"},
		},
	}
}

func TestLoadFramework(t *testing.T) {
	t.Run("should load a valid framework", func(t *testing.T) {
		framework, err := LoadFramework(validFrameworkModel())
		assert.NoError(t, err)
		assert.Equal(t, "iso21434-default", framework.ID())
	})

	t.Run("should reject an empty impact scale", func(t *testing.T) {
		model := validFrameworkModel()
		model.ImpactLevels = nil

		_, err := LoadFramework(model)
		assert.True(t, shared.IsConfigError(err))
	})

	t.Run("should reject a duplicate level on a scale", func(t *testing.T) {
		model := validFrameworkModel()
		model.LikelihoodLevels = []string{"low", "medium", "low"}

		_, err := LoadFramework(model)
		assert.True(t, shared.IsConfigError(err))
	})

	t.Run("should reject a matrix referencing an undeclared level", func(t *testing.T) {
		model := validFrameworkModel()
		model.Matrix[0].Impact = "catastrophic"

		_, err := LoadFramework(model)
		assert.True(t, shared.IsConfigError(err))
	})

	t.Run("should reject a matrix with a missing cell", func(t *testing.T) {
		model := validFrameworkModel()
		model.Matrix = model.Matrix[:len(model.Matrix)-1]

		_, err := LoadFramework(model)
		assert.True(t, shared.IsConfigError(err))
	})

	t.Run("should reject a duplicate matrix cell", func(t *testing.T) {
		model := validFrameworkModel()
		model.Matrix = append(model.Matrix, models.RiskMatrixEntry{Impact: "negligible", Likelihood: "low", Risk: "high"})

		_, err := LoadFramework(model)
		assert.True(t, shared.IsConfigError(err))
	})

	t.Run("should reject unordered thresholds", func(t *testing.T) {
		model := validFrameworkModel()
		model.Thresholds = []models.RiskThreshold{
			{RiskLevel: "high", Action: "alarp"},
			{RiskLevel: "low", Action: "acceptable"},
		}

		_, err := LoadFramework(model)
		assert.True(t, shared.IsConfigError(err))
	})

	t.Run("should reject a framework without thresholds", func(t *testing.T) {
		model := validFrameworkModel()
		model.Thresholds = nil

		_, err := LoadFramework(model)
		assert.True(t, shared.IsConfigError(err))
	})
}

func TestEvaluate(t *testing.T) {
	framework, err := LoadFramework(validFrameworkModel())
	assert.NoError(t, err)

	t.Run("should evaluate every declared pair", func(t *testing.T) {
		for _, impact := range framework.Model().ImpactLevels {
			for _, likelihood := range framework.Model().LikelihoodLevels {
				risk, err := framework.Evaluate(impact, likelihood)
				assert.NoError(t, err)
				assert.NotEmpty(t, risk)
			}
		}
	})

	t.Run("should return the configured cell", func(t *testing.T) {
		risk, err := framework.Evaluate("severe", "medium")
		assert.NoError(t, err)
		assert.Equal(t, "critical", risk)
	})

	t.Run("should fail on an undeclared level", func(t *testing.T) {
		_, err := framework.Evaluate("catastrophic", "medium")
		assert.Error(t, err)
	})
}

func TestClassify(t *testing.T) {
	framework, err := LoadFramework(validFrameworkModel())
	assert.NoError(t, err)

	t.Run("should map risk levels onto the threshold actions", func(t *testing.T) {
		assert.Equal(t, "acceptable", framework.Classify("low"))
		assert.Equal(t, "alarp", framework.Classify("medium"))
		assert.Equal(t, "alarp", framework.Classify("high"))
		assert.Equal(t, "intolerable", framework.Classify("critical"))
	})

	t.Run("should fail closed on an unknown risk level", func(t *testing.T) {
		assert.Equal(t, "intolerable", framework.Classify("does-not-exist"))
	})
}

func TestScaleHelpers(t *testing.T) {
	framework, err := LoadFramework(validFrameworkModel())
	assert.NoError(t, err)

	t.Run("clamp maps undeclared severities to the lowest level", func(t *testing.T) {
		assert.Equal(t, "major", framework.ClampImpactLevel("major"))
		assert.Equal(t, "negligible", framework.ClampImpactLevel("unheard-of"))
		assert.Equal(t, "negligible", framework.ClampImpactLevel(""))
	})

	t.Run("step up caps at the top of the scale", func(t *testing.T) {
		assert.Equal(t, "major", framework.StepUpImpact("moderate", 1))
		assert.Equal(t, "severe", framework.StepUpImpact("severe", 1))
		assert.Equal(t, "severe", framework.StepUpImpact("moderate", 10))
	})

	t.Run("step down floors at the bottom of the scale", func(t *testing.T) {
		level, err := framework.StepDownRisk("high", 1)
		assert.NoError(t, err)
		assert.Equal(t, "medium", level)

		level, err = framework.StepDownRisk("low", 5)
		assert.NoError(t, err)
		assert.Equal(t, "low", level)
	})

	t.Run("step down rejects an unknown level", func(t *testing.T) {
		_, err := framework.StepDownRisk("does-not-exist", 1)
		assert.True(t, shared.IsConfigError(err))
	})
}
