package main

import (
	"fmt"

	"github.com/rgehrsitz/gbrtax/internal/compare"
	"github.com/spf13/cobra"
)

func compareCmd(a *app) *cobra.Command {
	var (
		strategies []string
		base       string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "compare [input-file]",
		Short: "Compare the reserve strategies on one scenario",
		Long: `Runs every reserve strategy (or those given with --strategies) on the same
scenario and shows how the monthly reserve of each partner changes.

Examples:
  gbrtax compare gbr.yaml
  gbrtax compare gbr.yaml --base equitable --format csv`,
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

			cs, err := compare.NewCompareEngine(engine).Compare(cmd.Context(), cfg, compare.CompareOptions{
				BaseStrategy: base,
				Strategies:   strategies,
			})
			if err != nil {
				return err
			}
			cs.ConfigPath = args[0]

			var out string
			switch format {
			case "table", "console":
				out = (&compare.TableFormatter{}).Format(cs)
			case "csv":
				out, err = (&compare.CSVFormatter{}).Format(cs)
			case "json":
				out, err = (&compare.JSONFormatter{Pretty: true}).Format(cs)
				out += "\n"
			default:
				return fmt.Errorf("unknown format %q (available: table, csv, json)", format)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&strategies, "strategies", nil, "Strategies to compare (default: all)")
	cmd.Flags().StringVar(&base, "base", "", "Strategy the others are compared against (default: the first)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, csv, json)")
	return cmd
}
