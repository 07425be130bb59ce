package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/rgehrsitz/gbrtax/internal/calculation"
	"github.com/rgehrsitz/gbrtax/internal/config"
	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/rgehrsitz/gbrtax/internal/output"
	"github.com/rgehrsitz/gbrtax/internal/reserve"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app holds the state shared by all commands of one invocation
type app struct {
	debug     bool
	taxTable  string
	tableFile string
	logger    *zap.Logger
}

func newLogger(debugMode bool) (*zap.Logger, error) {
	if debugMode {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// loadConfig parses and validates a scenario file
func (a *app) loadConfig(path string) (*domain.Configuration, error) {
	cfg, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("loaded scenario",
		zap.String("file", path),
		zap.String("strategy", cfg.Strategy),
		zap.Int("partners", len(cfg.Partners)))
	return cfg, nil
}

// loadTable picks the tax table: --tax-table-file, then --tax-table, then the
// scenario's tax year
func (a *app) loadTable(cfg *domain.Configuration) (*domain.TaxTable, error) {
	if a.tableFile != "" {
		return config.LoadTaxTableFile(a.tableFile)
	}
	name := a.taxTable
	if name == "" && cfg != nil {
		name = cfg.TaxYear
	}
	return config.LoadTaxTable(name)
}

// engine builds a reserve engine logging through zap
func (a *app) engine(cfg *domain.Configuration) (*reserve.Engine, error) {
	table, err := a.loadTable(cfg)
	if err != nil {
		return nil, err
	}
	e := reserve.NewEngine(calculation.NewTaxCalculator(table))
	e.SetLogger(a.logger.Sugar().With("table", table.Name))
	return e, nil
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "gbrtax",
		Short: "GbR tax reserve calculator",
		Long: "Calculates how much of a partnership's (GbR) monthly profit each partner " +
			"should set aside for income tax, solidarity surcharge, church tax and trade tax.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(a.debug)
			if err != nil {
				return fmt.Errorf("failed to set up logging: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&a.taxTable, "tax-table", "", "Embedded tax table (default: the scenario's tax_year)")
	rootCmd.PersistentFlags().StringVar(&a.tableFile, "tax-table-file", "", "Custom tax table YAML file")

	rootCmd.AddCommand(
		calculateCmd(a),
		validateCmd(a),
		tablesCmd(a),
		compareCmd(a),
		sensitivityCmd(a),
		scheduleCmd(a),
		serveCmd(a),
		versionCmd(),
	)
	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gbrtax %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(cmd.OutOrStdout(), bi.Main.Path, bi.GoVersion)
			}
		},
	}
}

func calculateCmd(a *app) *cobra.Command {
	var (
		format   string
		strategy string
		verbose  bool
		save     bool
	)

	cmd := &cobra.Command{
		Use:   "calculate [input-file]",
		Short: "Calculate the monthly tax reserve",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(args[0])
			if err != nil {
				return err
			}
			if strategy != "" {
				cfg.Strategy = strategy
			}

			f := output.GetFormatterByName(format)
			if f == nil {
				return fmt.Errorf("unknown format %q (available: %s)", format, strings.Join(output.AvailableFormatterNames(), ", "))
			}
			if verbose && f.Name() == "console" {
				f = output.ConsoleFormatter{Verbose: true}
			}

			engine, err := a.engine(cfg)
			if err != nil {
				return err
			}
			result, err := engine.ComputeConfiguration(cfg)
			if err != nil {
				return err
			}

			if save {
				ext := f.Name()
				if ext == "console" {
					ext = "txt"
				}
				filename, err := output.WriteFormatted(f, &result, ext)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", filename)
				return nil
			}

			data, err := f.Format(&result)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "console", "Output format: "+strings.Join(output.AvailableFormatterNames(), ", "))
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "Override the scenario's strategy (individual, equitable)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show the per-partner tax breakdown")
	cmd.Flags().BoolVar(&save, "save", false, "Write the report to a timestamped file instead of stdout")
	return cmd
}

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [input-file]",
		Short: "Validate a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(args[0])
			if err != nil {
				return err
			}
			if _, err := a.loadTable(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file %s is valid\n", args[0])
			if _, note := reserve.NormalizeShares(cfg.Partners); note != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Note: %s\n", note)
			}
			return nil
		},
	}
}

func tablesCmd(a *app) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List the embedded tax tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range config.AvailableTaxTables() {
				table, err := config.LoadTaxTable(name)
				if err != nil {
					return err
				}
				marker := " "
				if name == config.DefaultTaxTable {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-18s %d zones, basic allowance %s  %s\n",
					marker, table.Name, len(table.Zones), output.FormatCurrency(table.BasicAllowance()), table.Description)
				if !check {
					continue
				}
				findings := calculation.CheckContinuity(table)
				if len(findings) == 0 {
					fmt.Fprintln(out, "    continuous at every zone boundary")
				}
				for _, f := range findings {
					a.logger.Warn("tax table discontinuity", zap.String("table", name), zap.String("finding", f))
					fmt.Fprintf(out, "    %s\n", f)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Check each table for jumps at zone boundaries")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
