package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	db "cellar/internal/database"
	"cellar/internal/report"
)

func newReportCommand() *cobra.Command {
	var (
		owner string
		year  int
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print spending and order summary for an owner",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if owner == "" {
				return errors.New("--owner is required")
			}
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			DB, err := db.Connect(cfg.DB)
			if err != nil {
				return err
			}

			var yearPtr *int
			if cmd.Flags().Changed("year") {
				yearPtr = &year
			}
			stats, err := db.NewProductRepo(DB).Stats(cmd.Context(), owner, yearPtr)
			if err != nil {
				return err
			}
			orderStats, err := db.NewOrderRepo(DB).Stats(cmd.Context(), owner)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report.MakeStatsReport(owner, stats, yearPtr))
			fmt.Fprintln(out, report.MakeOrdersReport(orderStats))
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner id")
	cmd.Flags().IntVar(&year, "year", 0, "limit spending totals to this purchase year")
	return cmd
}
