package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/gbrtax/internal/config"
	"github.com/rgehrsitz/gbrtax/internal/reserve"
	"github.com/rgehrsitz/gbrtax/internal/tui"
)

func main() {
	var taxTable string

	cmd := &cobra.Command{
		Use:          "gbrtax-tui <config-file>",
		Short:        "Interactive GbR tax reserve calculator",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := args[0]
			if _, err := os.Stat(configPath); os.IsNotExist(err) {
				return fmt.Errorf("config file not found: %s", configPath)
			}

			engine, err := reserve.NewEngineForTable(taxTable)
			if err != nil {
				return err
			}

			p := tea.NewProgram(
				tui.NewModel(configPath, engine),
				tea.WithAltScreen(),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running TUI: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&taxTable, "tax-table", config.DefaultTaxTable, "Embedded tax table")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
