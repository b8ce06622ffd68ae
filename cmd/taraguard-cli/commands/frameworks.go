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

package commands

import (
	"log/slog"
	"os"

	"github.com/l3montree-dev/taraguard/database/models"
	"github.com/l3montree-dev/taraguard/database/repositories"
	"github.com/l3montree-dev/taraguard/risk"
	"github.com/l3montree-dev/taraguard/services"
	"github.com/l3montree-dev/taraguard/shared"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// frameworkFile is the yaml shape of a risk framework definition.
type frameworkFile struct {
	FrameworkID string `yaml:"frameworkId"`
	Name        string `yaml:"name"`

	ImpactLevels     []string `yaml:"impactLevels"`
	LikelihoodLevels []string `yaml:"likelihoodLevels"`
	RiskLevels       []string `yaml:"riskLevels"`

	Matrix []struct {
		Impact     string `yaml:"impact"`
		Likelihood string `yaml:"likelihood"`
		Risk       string `yaml:"risk"`
	} `yaml:"matrix"`

	Thresholds []struct {
		RiskLevel string `yaml:"riskLevel"`
		Action    string `yaml:"action"`
	} `yaml:"thresholds"`
}

func readFrameworkFile(path string) (models.RiskFramework, error) {
	var file frameworkFile
	content, err := os.ReadFile(path)
	if err != nil {
		return models.RiskFramework{}, err
	}
	if err := yaml.Unmarshal(content, &file); err != nil {
		return models.RiskFramework{}, err
	}

	framework := models.RiskFramework{
		FrameworkID:      file.FrameworkID,
		Name:             file.Name,
		ImpactLevels:     file.ImpactLevels,
		LikelihoodLevels: file.LikelihoodLevels,
		RiskLevels:       file.RiskLevels,
	}
	for _, entry := range file.Matrix {
		framework.Matrix = append(framework.Matrix, models.RiskMatrixEntry{
			Impact:     entry.Impact,
			Likelihood: entry.Likelihood,
			Risk:       entry.Risk,
		})
	}
	for _, threshold := range file.Thresholds {
		framework.Thresholds = append(framework.Thresholds, models.RiskThreshold{
			RiskLevel: threshold.RiskLevel,
			Action:    threshold.Action,
		})
	}
	return framework, nil
}

func NewFrameworksCommand() *cobra.Command {
	frameworksCmd := cobra.Command{
		Use: "frameworks",
	}

	frameworksCmd.AddCommand(newLintCommand())
	frameworksCmd.AddCommand(newImportCommand())
	return &frameworksCmd
}

func newLintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lint <file>",
		Short: "Validates a risk framework definition without storing it",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			framework, err := readFrameworkFile(args[0])
			if err != nil {
				slog.Error("could not read framework file", "err", err)
				os.Exit(1)
			}

			if _, err := risk.LoadFramework(framework); err != nil {
				slog.Error("framework definition is invalid", "err", err)
				os.Exit(1)
			}

			slog.Info("framework definition is valid", "frameworkID", framework.FrameworkID,
				"impactLevels", len(framework.ImpactLevels),
				"likelihoodLevels", len(framework.LikelihoodLevels),
				"matrixEntries", len(framework.Matrix))
		},
	}
}

func newImportCommand() *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Validates and stores a risk framework definition",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			shared.LoadConfig() // nolint
			framework, err := readFrameworkFile(args[0])
			if err != nil {
				slog.Error("could not read framework file", "err", err)
				os.Exit(1)
			}

			database, err := shared.DatabaseFactory()
			if err != nil {
				slog.Error("could not connect to database", "err", err)
				os.Exit(1)
			}

			frameworkService := services.NewFrameworkService(
				repositories.NewRiskFrameworkRepository(database),
				repositories.NewScenarioEventRepository(database),
			)

			stored, err := frameworkService.CreateFramework(framework)
			if err != nil {
				slog.Error("could not store framework", "err", err)
				os.Exit(1)
			}

			activate, _ := cmd.Flags().GetBool("activate")
			if activate {
				if err := frameworkService.ActivateFramework(stored.FrameworkID, "cli"); err != nil {
					slog.Error("could not activate framework", "err", err)
					os.Exit(1)
				}
			}

			slog.Info("framework imported", "frameworkID", stored.FrameworkID, "activated", activate)
		},
	}
	importCmd.Flags().Bool("activate", false, "activate the framework after importing it")
	return importCmd
}
