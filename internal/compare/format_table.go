package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing strategies
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("RESERVE STRATEGY COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Base Strategy: %s\n", compSet.BaseStrategy))
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", compSet.ConfigPath))
	}
	sb.WriteString("\n")

	nameWidth := 14
	numWidth := 16

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Strategy",
		numWidth, "Monthly Reserve",
		numWidth, "Reserve %",
		numWidth, "Weighted Rate",
		numWidth, "Diff from Base"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	for _, r := range compSet.Results {
		sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
			nameWidth, r.Strategy,
			numWidth, "€"+r.Result.TotalReserve.StringFixed(2),
			numWidth, pct(r.Result.TotalReservePercentage),
			numWidth, pct(r.Result.WeightedTaxRate),
			numWidth, signed(r.ReserveDiffFromBase)))
	}
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	if len(compSet.PartnerDeltas) > 0 {
		sb.WriteString("\nPER PARTNER (monthly reserve incl. margin)\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, d := range compSet.PartnerDeltas {
			sb.WriteString(fmt.Sprintf("%s:\n", d.PartnerName))
			for _, r := range compSet.Results {
				sb.WriteString(fmt.Sprintf("  %-12s €%s at %s\n", r.Strategy, d.Reserves[r.Strategy].StringFixed(2), pct(d.Rates[r.Strategy])))
			}
			sb.WriteString(fmt.Sprintf("  spread       €%s\n", d.Spread.StringFixed(2)))
		}
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString("• " + rec + "\n")
		}
	}

	return sb.String()
}

func pct(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

func signed(amount decimal.Decimal) string {
	if amount.IsPositive() {
		return "+€" + amount.StringFixed(2)
	}
	if amount.IsNegative() {
		return "-€" + amount.Abs().StringFixed(2)
	}
	return "€0.00"
}
