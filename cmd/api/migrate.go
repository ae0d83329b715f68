package main

import (
	"Cerezo_Blog/internal/repository/mysql"

	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, db, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer closeDB(db)

			if err = mysql.AutoMigrate(db); err != nil {
				return err
			}
			logger.Info("migration complete")
			return nil
		},
	}
}
