package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ms-booking/internal/database"
	"ms-booking/internal/database/migrations"
)

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate [up|down|to VERSION]",
		Short:     "apply or roll back the directory schema",
		Args:      cobra.RangeArgs(0, 2),
		ValidArgs: []string{"up", "down", "to"},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := "up"
			if len(args) > 0 {
				direction = args[0]
			}

			var target uint64
			if direction == "to" {
				if len(args) != 2 {
					return fmt.Errorf("migrate to requires a version")
				}
				v, err := strconv.ParseUint(args[1], 10, 32)
				if err != nil {
					return fmt.Errorf("invalid version %q: %w", args[1], err)
				}
				target = v
			}

			bunDB, err := database.Connect(cmd.Context(), a.cfg.Database, a.log)
			if err != nil {
				return err
			}
			defer bunDB.Close()

			runner := migrations.NewRunner(bunDB, a.log)
			defer runner.Close()

			switch direction {
			case "up":
				return runner.Up()
			case "down":
				return runner.Down()
			case "to":
				return runner.To(uint(target))
			default:
				return fmt.Errorf("unknown migrate direction %q", direction)
			}
		},
	}
	return cmd
}
