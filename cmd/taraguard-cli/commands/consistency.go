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

	"github.com/l3montree-dev/taraguard/database/repositories"
	"github.com/l3montree-dev/taraguard/services"
	"github.com/l3montree-dev/taraguard/shared"
	"github.com/spf13/cobra"
)

func NewConsistencyCommand() *cobra.Command {
	consistencyCmd := cobra.Command{
		Use: "consistency",
	}

	consistencyCmd.AddCommand(newDanglingCommand())
	consistencyCmd.AddCommand(newRescoreAllCommand())
	return &consistencyCmd
}

func newScenarioService(database shared.DB) shared.ScenarioService {
	return services.NewScenarioService(
		repositories.NewDamageScenarioRepository(database),
		repositories.NewThreatScenarioRepository(database),
		repositories.NewScenarioLinkRepository(database),
		repositories.NewRiskFrameworkRepository(database),
		repositories.NewScenarioEventRepository(database),
		repositories.NewProductScopeRepository(database),
	)
}

func newDanglingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dangling",
		Short: "Reports scenario links whose endpoints no longer resolve to a current version",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			shared.LoadConfig() // nolint
			database, err := shared.DatabaseFactory()
			if err != nil {
				slog.Error("could not connect to database", "err", err)
				os.Exit(1)
			}

			dangling, err := newScenarioService(database).FindDanglingLinks()
			if err != nil {
				slog.Error("could not run consistency check", "err", err)
				os.Exit(1)
			}

			if len(dangling) == 0 {
				slog.Info("no dangling links found")
				return
			}

			for _, ref := range dangling {
				slog.Warn("dangling link", "sourceID", ref.SourceID, "targetID", ref.TargetID, "endpoint", ref.Endpoint)
			}
			os.Exit(1)
		},
	}
}

func newRescoreAllCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rescore-all",
		Short: "Recomputes the derived risk of every current threat scenario",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			shared.LoadConfig() // nolint
			database, err := shared.DatabaseFactory()
			if err != nil {
				slog.Error("could not connect to database", "err", err)
				os.Exit(1)
			}

			threatScenarioRepository := repositories.NewThreatScenarioRepository(database)
			scenarioService := newScenarioService(database)

			keys, err := threatScenarioRepository.CurrentKeys()
			if err != nil {
				slog.Error("could not list threat scenarios", "err", err)
				os.Exit(1)
			}

			rescored := 0
			for _, key := range keys {
				if _, err := scenarioService.RescoreThreatScenario(key, "cli"); err != nil {
					if shared.IsValidationError(err) {
						// scenario has no assessed levels yet, nothing to score
						continue
					}
					slog.Error("could not rescore scenario", "err", err, "scenarioID", key)
					continue
				}
				rescored++
			}
			slog.Info("rescoring done", "rescored", rescored, "total", len(keys))
		},
	}
}
