package output

import (
	"bytes"
	"encoding/csv"
	"time"

	"github.com/rgehrsitz/gbrtax/internal/domain"
)

// CSVFormatter writes one row per partner plus a TOTAL row. The column layout
// matches the spreadsheet export of earlier releases.
type CSVFormatter struct {
	// Now overrides the export date, mainly for tests
	Now func() time.Time
}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(result *domain.AggregateReserveResult) ([]byte, error) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	date := now().Format("2006-01-02")
	monthly := result.MonthlyProfit.StringFixed(2)

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Date", "Tax Year", "Monthly Profit", "Partner Name", "Share (%)", "Yearly Income",
		"Effective Tax Rate (%)", "Monthly Profit", "Monthly Reserve", "Annual Profit",
		"Income Tax", "Solidarity Surcharge", "Church Tax", "Total Tax"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, p := range result.Partners {
		row := []string{
			date,
			result.TaxYear,
			monthly,
			p.PartnerName,
			p.Share.StringFixed(1),
			p.BaseIncome.StringFixed(2),
			p.EffectiveTaxRate.Mul(domain.Hundred).StringFixed(1),
			p.MonthlyProfit.StringFixed(2),
			p.TotalReserve.StringFixed(2),
			p.AnnualProfit.StringFixed(2),
			p.Breakdown.IncomeTax.StringFixed(2),
			p.Breakdown.SolidaritySurcharge.StringFixed(2),
			p.Breakdown.ChurchTax.StringFixed(2),
			p.AdditionalTaxAmount.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	total := []string{
		date,
		result.TaxYear,
		monthly,
		"TOTAL",
		"100.0",
		"",
		result.WeightedTaxRate.Mul(domain.Hundred).StringFixed(1),
		monthly,
		result.TotalReserve.StringFixed(2),
		result.MonthlyProfit.Mul(domain.MonthsPerYear).StringFixed(2),
		"",
		"",
		"",
		result.AnnualTaxBurden.StringFixed(2),
	}
	if err := w.Write(total); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
