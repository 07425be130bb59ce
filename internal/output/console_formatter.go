package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/gbrtax/internal/domain"
)

// ConsoleFormatter renders a human readable report
type ConsoleFormatter struct {
	// Verbose adds the per-component tax breakdown and assumptions
	Verbose bool
}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(result *domain.AggregateReserveResult) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	fmt.Fprintln(&buf, "GBR TAX RESERVE")
	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	fmt.Fprintf(&buf, "Tax table:          %s\n", result.TaxYear)
	fmt.Fprintf(&buf, "Strategy:           %s\n", result.Strategy)
	fmt.Fprintf(&buf, "Monthly profit:     %s\n", FormatCurrency(result.MonthlyProfit))
	fmt.Fprintf(&buf, "Safety margin:      %s\n", FormatRate(result.SafetyMargin))
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Monthly reserve:    %s (%s of profit)\n", FormatCurrency(result.TotalReserve), FormatRate(result.TotalReservePercentage))
	fmt.Fprintf(&buf, "Weighted tax rate:  %s\n", FormatRate(result.WeightedTaxRate))
	fmt.Fprintf(&buf, "Annual tax burden:  %s\n", FormatCurrency(result.AnnualTaxBurden))
	if !result.TradeTax.IsZero() {
		fmt.Fprintf(&buf, "  of which trade tax: %s\n", FormatCurrency(result.TradeTax))
	}
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "%-20s %7s %12s %8s %12s %12s %7s\n", "Partner", "Share", "Monthly", "Rate", "Reserve", "Incl.margin", "Zone")
	fmt.Fprintln(&buf, strings.Repeat("-", 84))
	for _, p := range result.Partners {
		rate := FormatRate(p.EffectiveTaxRate)
		if p.RateCapped {
			rate += "*"
		}
		fmt.Fprintf(&buf, "%-20s %7s %12s %8s %12s %12s %7s\n",
			truncate(p.PartnerName, 20),
			FormatPercentage(p.Share),
			FormatCurrency(p.MonthlyProfit),
			rate,
			FormatCurrency(p.ReserveAmount),
			FormatCurrency(p.TotalReserve),
			fmt.Sprintf("%d→%d", p.BaseZone, p.CombinedZone),
		)
	}
	fmt.Fprintln(&buf, strings.Repeat("-", 84))
	fmt.Fprintf(&buf, "%-20s %7s %12s %8s %12s %12s\n", "TOTAL", "100.00%",
		FormatCurrency(result.MonthlyProfit), FormatRate(result.WeightedTaxRate), "", FormatCurrency(result.TotalReserve))

	if c.Verbose {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "ADDITIONAL ANNUAL TAX PER PARTNER")
		fmt.Fprintln(&buf, strings.Repeat("-", 40))
		for _, p := range result.Partners {
			fmt.Fprintf(&buf, "%s\n", p.PartnerName)
			fmt.Fprintf(&buf, "  Base income:          %s\n", FormatCurrency(p.BaseIncome))
			fmt.Fprintf(&buf, "  Annual profit share:  %s\n", FormatCurrency(p.AnnualProfit))
			fmt.Fprintf(&buf, "  Income tax:           %s\n", FormatCurrency(p.Breakdown.IncomeTax))
			fmt.Fprintf(&buf, "  Solidarity surcharge: %s\n", FormatCurrency(p.Breakdown.SolidaritySurcharge))
			fmt.Fprintf(&buf, "  Church tax:           %s\n", FormatCurrency(p.Breakdown.ChurchTax))
			fmt.Fprintf(&buf, "  Total:                %s\n", FormatCurrency(p.AdditionalTaxAmount))
		}
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
		for _, a := range DefaultAssumptions {
			fmt.Fprintf(&buf, "• %s\n", a)
		}
	}

	if len(result.Diagnostics) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "NOTES:")
		for _, d := range result.Diagnostics {
			fmt.Fprintf(&buf, "⚠ %s\n", d)
		}
	}

	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
