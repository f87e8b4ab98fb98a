package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/pokemon-catcher/internal/charts"
)

func newReportCmd(opts *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write an HTML report of your collection and catch history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				summary, err := a.game.AttemptSummary(cmd.Context())
				if err != nil {
					return err
				}

				data := charts.ReportData{
					Entries:  a.game.Collection().Entries,
					Attempts: summary,
				}
				if err := charts.WriteCollectionReport(out, data, charts.DefaultChartConfig()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", out)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "pokemon-report.html", "Output HTML file")
	return cmd
}
