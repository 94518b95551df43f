package commands

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	db "cellar/internal/database"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and indexes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			DB, err := db.Connect(cfg.DB)
			if err != nil {
				return err
			}
			if err := db.Migrate(DB); err != nil {
				return err
			}
			log.Info("migration finished")
			return nil
		},
	}
}
