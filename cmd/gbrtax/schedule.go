package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/rgehrsitz/gbrtax/internal/output"
	"github.com/rgehrsitz/gbrtax/internal/schedule"
	"github.com/spf13/cobra"
)

func scheduleCmd(a *app) *cobra.Command {
	var (
		year   int
		asOf   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "schedule [input-file]",
		Short: "Plan the quarterly tax prepayments",
		Long: `Derives the quarterly income tax and trade tax prepayments from the
scenario's reserve result. With --as-of the status of every payment is set
relative to that date.

Examples:
  gbrtax schedule gbr.yaml
  gbrtax schedule gbr.yaml --year 2025 --as-of 2025-06-01 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(args[0])
			if err != nil {
				return err
			}
			engine, err := a.engine(cfg)
			if err != nil {
				return err
			}
			result, err := engine.ComputeConfiguration(cfg)
			if err != nil {
				return err
			}

			if year == 0 {
				year = engine.Calc.Table.Year
			}
			s := schedule.NewGenerator().FromResult(year, result)
			if asOf != "" {
				t, err := time.Parse(time.DateOnly, asOf)
				if err != nil {
					return fmt.Errorf("invalid --as-of date %q: %w", asOf, err)
				}
				changed := schedule.Refresh(s, t)
				a.logger.Sugar().Debugf("refreshed %d payment statuses as of %s", changed, asOf)
			}
			sum := schedule.Summarize(s)

			switch format {
			case "table", "console":
				writeSchedule(cmd.OutOrStdout(), s, sum)
				return nil
			case "json":
				data, err := json.MarshalIndent(struct {
					Schedule *domain.PaymentSchedule `json:"schedule"`
					Summary  schedule.Summary        `json:"summary"`
				}{s, sum}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			default:
				return fmt.Errorf("unknown format %q (available: table, json)", format)
			}
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Tax year of the schedule (default: the tax table's year)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "Update payment statuses relative to this date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json)")
	return cmd
}

func writeSchedule(out io.Writer, s *domain.PaymentSchedule, sum schedule.Summary) {
	fmt.Fprintf(out, "PREPAYMENT SCHEDULE %d\n\n", s.Year)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Due\tTax\tQuarter\tAmount\tStatus")
	for _, p := range s.Payments {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.DueDate.Format(time.DateOnly), p.TaxType, p.Quarter, output.FormatCurrency(p.Amount), p.Status)
	}
	_ = w.Flush()

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Income tax planned: %s\n", output.FormatCurrency(sum.Planned[domain.IncomeTax]))
	if tt, ok := sum.Planned[domain.TradeTax]; ok {
		fmt.Fprintf(out, "Trade tax planned:  %s\n", output.FormatCurrency(tt))
	}
	fmt.Fprintf(out, "Outstanding:        %s\n", output.FormatCurrency(sum.Outstanding))
	if sum.Overdue > 0 {
		fmt.Fprintf(out, "Overdue payments:   %d\n", sum.Overdue)
	}
	if sum.Next != nil {
		fmt.Fprintf(out, "Next payment:       %s %s on %s\n", output.FormatCurrency(sum.Next.Amount), sum.Next.TaxType, sum.Next.DueDate.Format(time.DateOnly))
	}
}
