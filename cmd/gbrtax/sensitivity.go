package main

import (
	"fmt"

	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/rgehrsitz/gbrtax/internal/output"
	"github.com/rgehrsitz/gbrtax/internal/sensitivity"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func sensitivityCmd(a *app) *cobra.Command {
	var (
		parameter string
		minValue  string
		maxValue  string
		steps     int
		format    string
	)

	cmd := &cobra.Command{
		Use:   "sensitivity [input-file]",
		Short: "Sweep the monthly profit or the safety margin",
		Long: `Recalculates the reserve over a range of one partnership parameter. Jumps in
the weighted rate show where a partner crosses into a higher tax zone.

Examples:
  gbrtax sensitivity gbr.yaml
  gbrtax sensitivity gbr.yaml --parameter monthly_profit --min 2000 --max 12000 --steps 11
  gbrtax sensitivity gbr.yaml --parameter safety_margin --format csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(args[0])
			if err != nil {
				return err
			}

			param, ok := lo.Find(domain.GetCommonParameters(), func(p domain.SensitivityParameter) bool {
				return p.Name == parameter
			})
			if !ok {
				names := lo.Map(domain.GetCommonParameters(), func(p domain.SensitivityParameter, _ int) string { return p.Name })
				return fmt.Errorf("unknown parameter %q (available: %v)", parameter, names)
			}
			if minValue != "" {
				if param.MinValue, err = decimal.NewFromString(minValue); err != nil {
					return fmt.Errorf("invalid --min: %w", err)
				}
			}
			if maxValue != "" {
				if param.MaxValue, err = decimal.NewFromString(maxValue); err != nil {
					return fmt.Errorf("invalid --max: %w", err)
				}
			}
			if cmd.Flags().Changed("steps") {
				param.Steps = steps
			}

			engine, err := a.engine(cfg)
			if err != nil {
				return err
			}
			analysis, err := sensitivity.NewAnalyzer(engine).Analyze(cfg, param)
			if err != nil {
				return err
			}

			out, err := output.NewSensitivityFormatter(format).FormatSensitivityAnalysis(analysis)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&parameter, "parameter", "p", domain.ParamMonthlyProfit, "Parameter to sweep (monthly_profit, safety_margin)")
	cmd.Flags().StringVar(&minValue, "min", "", "Lowest value (default: predefined range)")
	cmd.Flags().StringVar(&maxValue, "max", "", "Highest value (default: predefined range)")
	cmd.Flags().IntVar(&steps, "steps", 0, "Number of values (default: predefined)")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "Output format (console, csv, json)")
	return cmd
}
