package main

import (
	"Cerezo_Blog/internal/repository/mysql"
	"Cerezo_Blog/internal/service"

	"github.com/spf13/cobra"
)

func newReconcileCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Recount likes of posts and comments and fix drifted counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, db, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer closeDB(db)

			r := service.NewLikeCountReconciler(&mysql.LikeCountReconcilerRepo{DB: db}, cfg.Reconcile.BatchSize, cfg.Reconcile.Interval)
			fixed, err := r.ReconcileOnce(background(cmd.Context()))
			if err != nil {
				return err
			}
			logger.Info("reconcile complete", "fixed", fixed)
			return nil
		},
	}
}
