package calculation

import (
	"testing"

	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSolidarityCalculator_Individual(t *testing.T) {
	soli := newCalculator(t, "2025").Solidarity

	tests := []struct {
		tax  string
		want string
	}{
		{"0", "0"},
		{"19950", "0"},
		{"19951", "0.20"},
		{"20000", "10.00"},
		{"27517", "1513.40"},
		{"27518", "1513"},
		{"30000", "1650"},
	}
	for _, tt := range tests {
		got := soli.Compute(d(tt.tax), false)
		assert.True(t, d(tt.want).Equal(got), "tax %s: want %s, got %s", tt.tax, tt.want, got)
	}
}

func TestSolidarityCalculator_Joint(t *testing.T) {
	soli := newCalculator(t, "2025").Solidarity

	tests := map[string]string{
		"39900": "0",
		"39901": "0.20",
		"55034": "3026.80",
		"55035": "3026",
	}
	for tax, want := range tests {
		got := soli.Compute(d(tax), true)
		assert.True(t, d(want).Equal(got), "tax %s: want %s, got %s", tax, want, got)
	}
}

func TestSolidarityCalculator_FullRateAbovePhaseIn(t *testing.T) {
	soli := newCalculator(t, "2025").Solidarity
	rate := d("0.055")

	for _, x := range []int64{27518, 31088, 50000, 105774} {
		tax := decimal.NewFromInt(x)
		assert.True(t, tax.Mul(rate).Floor().Equal(soli.Compute(tax, false)), "tax %d", x)
	}
}

func TestChurchTaxCalculator(t *testing.T) {
	church := newCalculator(t, "2025").Church

	assert.True(t, church.Compute(d("18488"), false, domain.NordrheinWestfalen).IsZero(), "non-members pay no church tax")
	assert.True(t, d("1663").Equal(church.Compute(d("18488"), true, domain.NordrheinWestfalen)))
	assert.True(t, d("1479").Equal(church.Compute(d("18488"), true, domain.Bayern)))
	assert.True(t, d("1479").Equal(church.Compute(d("18488"), true, domain.BadenWuerttemberg)))
	assert.True(t, d("1663").Equal(church.Compute(d("18488"), true, domain.FederalState("Atlantis"))), "unknown states use the default rate")

	assert.True(t, d("0.08").Equal(church.RateFor(domain.Bayern)))
	assert.True(t, d("0.09").Equal(church.RateFor(domain.Hamburg)))
}
