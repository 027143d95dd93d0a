package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tyler180/baseball-per162/internal/stats"
)

func newRoundCmd(a *app) *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "round",
		Short: "Ceiling-round the counting columns of an existing CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			scheme, err := stats.RoundFile(in, out)
			if err != nil {
				return err
			}
			a.log.Info().Str("in", in).Str("out", out).Str("scheme", scheme.Name).Msg("rounded")
			fmt.Fprintf(cmd.OutOrStdout(), "Saved: %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "input CSV")
	cmd.Flags().StringVar(&out, "out", "", "output CSV")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
