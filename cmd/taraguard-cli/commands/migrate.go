package commands

import (
	"log/slog"
	"os"

	"github.com/l3montree-dev/taraguard/database"
	"github.com/l3montree-dev/taraguard/shared"
	"github.com/spf13/cobra"
)

func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Runs the database migrations",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			shared.LoadConfig() // nolint
			db, err := shared.DatabaseFactory()
			if err != nil {
				slog.Error("could not connect to database", "err", err)
				os.Exit(1)
			}
			if err := database.AutoMigrate(db); err != nil {
				slog.Error("could not run migrations", "err", err)
				os.Exit(1)
			}
			slog.Info("migrations done")
		},
	}
}
