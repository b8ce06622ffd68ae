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
	"fmt"

	"github.com/l3montree-dev/taraguard/database/models"
	"github.com/l3montree-dev/taraguard/shared"
)

type matrixKey struct {
	impact     string
	likelihood string
}

// Framework is a loaded, validated risk framework. Loading proves the matrix
// is a total function over the declared scales, so Evaluate never fails on a
// Framework obtained through LoadFramework.
type Framework struct {
	model models.RiskFramework

	impactIndex     map[string]int
	likelihoodIndex map[string]int
	riskIndex       map[string]int
	matrix          map[matrixKey]string
}

// LoadFramework validates the framework configuration and builds the lookup
// structures. Any defect is a ConfigError and must block activation of the
// framework; partial scoring against a half-valid framework is worse than no
// scoring at all.
func LoadFramework(model models.RiskFramework) (*Framework, error) {
	impactIndex, err := indexScale(model.FrameworkID, "impact scale", model.ImpactLevels)
	if err != nil {
		return nil, err
	}
	likelihoodIndex, err := indexScale(model.FrameworkID, "likelihood scale", model.LikelihoodLevels)
	if err != nil {
		return nil, err
	}
	riskIndex, err := indexScale(model.FrameworkID, "risk scale", model.RiskLevels)
	if err != nil {
		return nil, err
	}

	matrix := make(map[matrixKey]string, len(model.Matrix))
	for _, entry := range model.Matrix {
		if _, ok := impactIndex[entry.Impact]; !ok {
			return nil, shared.NewConfigError(model.FrameworkID, fmt.Sprintf("matrix references undeclared impact level %q", entry.Impact))
		}
		if _, ok := likelihoodIndex[entry.Likelihood]; !ok {
			return nil, shared.NewConfigError(model.FrameworkID, fmt.Sprintf("matrix references undeclared likelihood level %q", entry.Likelihood))
		}
		if _, ok := riskIndex[entry.Risk]; !ok {
			return nil, shared.NewConfigError(model.FrameworkID, fmt.Sprintf("matrix cell (%s, %s) maps to undeclared risk level %q", entry.Impact, entry.Likelihood, entry.Risk))
		}
		key := matrixKey{impact: entry.Impact, likelihood: entry.Likelihood}
		if _, ok := matrix[key]; ok {
			return nil, shared.NewConfigError(model.FrameworkID, fmt.Sprintf("duplicate matrix cell (%s, %s)", entry.Impact, entry.Likelihood))
		}
		matrix[key] = entry.Risk
	}

	// the matrix has to be a total function over the declared scales
	for _, impact := range model.ImpactLevels {
		for _, likelihood := range model.LikelihoodLevels {
			if _, ok := matrix[matrixKey{impact: impact, likelihood: likelihood}]; !ok {
				return nil, shared.NewConfigError(model.FrameworkID, fmt.Sprintf("matrix has no entry for (%s, %s)", impact, likelihood))
			}
		}
	}

	if len(model.Thresholds) == 0 {
		return nil, shared.NewConfigError(model.FrameworkID, "no risk thresholds defined")
	}
	prev := -1
	for _, threshold := range model.Thresholds {
		idx, ok := riskIndex[threshold.RiskLevel]
		if !ok {
			return nil, shared.NewConfigError(model.FrameworkID, fmt.Sprintf("threshold references undeclared risk level %q", threshold.RiskLevel))
		}
		if idx <= prev {
			return nil, shared.NewConfigError(model.FrameworkID, fmt.Sprintf("thresholds are not in ascending order at %q", threshold.RiskLevel))
		}
		prev = idx
	}

	return &Framework{
		model:           model,
		impactIndex:     impactIndex,
		likelihoodIndex: likelihoodIndex,
		riskIndex:       riskIndex,
		matrix:          matrix,
	}, nil
}

func indexScale(frameworkID, name string, levels []string) (map[string]int, error) {
	if len(levels) == 0 {
		return nil, shared.NewConfigError(frameworkID, name+" is empty")
	}
	index := make(map[string]int, len(levels))
	for i, level := range levels {
		if _, ok := index[level]; ok {
			return nil, shared.NewConfigError(frameworkID, fmt.Sprintf("%s declares level %q twice", name, level))
		}
		index[level] = i
	}
	return index, nil
}

func (f *Framework) ID() string {
	return f.model.FrameworkID
}

func (f *Framework) Model() models.RiskFramework {
	return f.model
}

// Evaluate looks up the matrix cell for the given pair. On a loaded
// framework this only fails when the caller passes a level that is not part
// of the declared scales.
func (f *Framework) Evaluate(impactLevel, likelihoodLevel string) (string, error) {
	risk, ok := f.matrix[matrixKey{impact: impactLevel, likelihood: likelihoodLevel}]
	if !ok {
		return "", shared.NewConfigError(f.model.FrameworkID, fmt.Sprintf("matrix has no entry for (%s, %s)", impactLevel, likelihoodLevel))
	}
	return risk, nil
}

// Classify maps a risk level into the ordered thresholds. A level that is
// unknown or beyond the last cut point fails closed to the most severe
// action category, never to the most lenient one.
func (f *Framework) Classify(riskLevel string) string {
	idx, ok := f.riskIndex[riskLevel]
	if ok {
		for _, threshold := range f.model.Thresholds {
			if idx <= f.riskIndex[threshold.RiskLevel] {
				return threshold.Action
			}
		}
	}
	return f.model.Thresholds[len(f.model.Thresholds)-1].Action
}

// LowestImpactLevel returns the least severe level of the impact scale.
func (f *Framework) LowestImpactLevel() string {
	return f.model.ImpactLevels[0]
}

// LowestRiskLevel returns the least severe level of the risk scale.
func (f *Framework) LowestRiskLevel() string {
	return f.model.RiskLevels[0]
}

// HasImpactLevel reports whether the level is declared on the impact scale.
func (f *Framework) HasImpactLevel(level string) bool {
	_, ok := f.impactIndex[level]
	return ok
}

// HasLikelihoodLevel reports whether the level is declared on the
// likelihood scale.
func (f *Framework) HasLikelihoodLevel(level string) bool {
	_, ok := f.likelihoodIndex[level]
	return ok
}

// ClampImpactLevel projects an arbitrary severity string onto the impact
// scale: an undeclared or empty severity maps to the lowest level.
func (f *Framework) ClampImpactLevel(severity string) string {
	if _, ok := f.impactIndex[severity]; ok {
		return severity
	}
	return f.model.ImpactLevels[0]
}

// StepUpImpact raises an impact level by the given number of steps, capped
// at the top of the scale.
func (f *Framework) StepUpImpact(level string, steps int) string {
	idx, ok := f.impactIndex[level]
	if !ok {
		idx = 0
	}
	idx += steps
	if idx >= len(f.model.ImpactLevels) {
		idx = len(f.model.ImpactLevels) - 1
	}
	return f.model.ImpactLevels[idx]
}

// StepDownRisk lowers a risk level by the given number of steps, floored at
// the bottom of the scale. It never produces a level below the minimum the
// matrix can yield.
func (f *Framework) StepDownRisk(level string, steps int) (string, error) {
	idx, ok := f.riskIndex[level]
	if !ok {
		return "", shared.NewConfigError(f.model.FrameworkID, fmt.Sprintf("unknown risk level %q", level))
	}
	idx -= steps
	if idx < 0 {
		idx = 0
	}
	return f.model.RiskLevels[idx], nil
}
