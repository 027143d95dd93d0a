package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tyler180/baseball-per162/internal/config"
	"github.com/tyler180/baseball-per162/internal/logger"
)

// app carries what every subcommand needs; filled in PersistentPreRun.
type app struct {
	cfg    config.Config
	log    zerolog.Logger
	pretty bool
	level  string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "br162",
		Short:         "Per-162-game batting lines and bios from Baseball-Reference",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			boot := logger.NewWriter(cmd.ErrOrStderr(), "info", a.pretty)
			a.cfg = config.Load(boot)
			level := a.cfg.LogLevel
			if a.level != "" {
				level = a.level
			}
			a.log = logger.NewWriter(cmd.ErrOrStderr(), level, a.pretty)
		},
	}
	root.PersistentFlags().BoolVar(&a.pretty, "pretty", false, "human-readable logs")
	root.PersistentFlags().StringVar(&a.level, "log-level", "", "log level (overrides LOG_LEVEL)")

	root.AddCommand(newScrapeCmd(a), newRoundCmd(a), newMaterializeCmd(a))
	return root
}
