package compare

import (
	"encoding/csv"
	"strings"
)

// CSVFormatter formats comparison results as CSV, one row per partner and
// strategy plus one TOTAL row per strategy
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Strategy",
		"Type",
		"Partner",
		"Effective Rate",
		"Monthly Reserve",
		"Reserve Diff from Base",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for _, r := range compSet.Results {
		kind := "alternative"
		if r.Strategy == compSet.BaseStrategy {
			kind = "base"
		}
		for _, p := range r.Result.Partners {
			row := []string{r.Strategy, kind, p.PartnerName, p.EffectiveTaxRate.StringFixed(4), p.TotalReserve.StringFixed(2), ""}
			if err := writer.Write(row); err != nil {
				return "", err
			}
		}
		total := []string{r.Strategy, kind, "TOTAL", r.Result.WeightedTaxRate.StringFixed(4), r.Result.TotalReserve.StringFixed(2), r.ReserveDiffFromBase.StringFixed(2)}
		if err := writer.Write(total); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}
