package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ms-booking/internal/config"
	"ms-booking/internal/logger"
)

var version = "dev"

type app struct {
	cfg *config.Config
	log *logger.Logger
}

func newRootCmd(envLoaded bool) *cobra.Command {
	a := &app{}
	var logLevel string

	cmd := &cobra.Command{
		Use:           "booking",
		Short:         "Venue, artist and show booking directory",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.cfg = config.Load()
			if logLevel != "" {
				a.cfg.Log.Level = logLevel
			}
			a.log = logger.NewLogger(a.cfg.Log.Dir)
			a.log.SetLevel(a.cfg.Log.Level)

			if envLoaded {
				a.log.Info("CONFIG", "Loaded environment variables from .env file")
			} else {
				a.log.Warn("CONFIG", ".env file not found, using environment variables")
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a.log != nil {
				a.log.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "",
		"set the logging level (can be one of: debug, info, warn, error)")

	cmd.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newSeedCmd(a),
		newVersionCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "booking %s\n", version)
		},
	}
}
