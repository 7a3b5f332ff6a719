package main

import (
	"github.com/spf13/cobra"

	"ms-booking/internal/booking/db"
	"ms-booking/internal/booking/events"
	"ms-booking/internal/database"
	"ms-booking/internal/database/migrations"
	"ms-booking/internal/database/seed"
)

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "load sample venues, artists and shows into an empty directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			bunDB, err := database.Connect(ctx, a.cfg.Database, a.log)
			if err != nil {
				return err
			}
			defer bunDB.Close()

			runner := migrations.NewRunner(bunDB, a.log)
			defer runner.Close()
			if err := runner.Up(); err != nil {
				return err
			}

			svc, err := newService(db.New(bunDB), a.cfg, a.log, events.LogPublisher{Logger: a.log})
			if err != nil {
				return err
			}
			_, err = seed.Run(ctx, svc, a.log)
			return err
		},
	}
}
