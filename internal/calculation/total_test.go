package calculation

import (
	"testing"

	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNewTaxCalculator(t *testing.T) {
	calc := newCalculator(t, "2025")

	assert.NotNil(t, calc.IncomeTax, "Should initialize income tax calculator")
	assert.NotNil(t, calc.Solidarity, "Should initialize solidarity calculator")
	assert.NotNil(t, calc.Church, "Should initialize church tax calculator")
	assert.NotNil(t, calc.TradeTax, "Should initialize trade tax calculator")
	assert.IsType(t, NopLogger{}, calc.Logger, "Should default to no-op logger")
}

func TestTaxCalculator_SetLogger(t *testing.T) {
	calc := newCalculator(t, "2025")

	custom := &recordingLogger{}
	calc.SetLogger(custom)
	assert.Equal(t, custom, calc.Logger, "Should set custom logger")

	calc.SetLogger(nil)
	assert.NotNil(t, calc.Logger, "Should not be nil")
	assert.IsType(t, NopLogger{}, calc.Logger, "Should be no-op logger")
}

func TestComputeTotalTax(t *testing.T) {
	calc := newCalculator(t, "2025")

	t.Run("church member in NRW", func(t *testing.T) {
		b := calc.ComputeTotalTax(d("70000"), false, true, domain.NordrheinWestfalen)
		assert.True(t, d("18488").Equal(b.IncomeTax))
		assert.True(t, b.SolidaritySurcharge.IsZero())
		assert.True(t, d("1663").Equal(b.ChurchTax))
		assert.True(t, d("20151").Equal(b.TotalTax))
		assert.InDelta(t, 0.2879, b.EffectiveRate.InexactFloat64(), 0.0001)
	})

	t.Run("church member in Bayern", func(t *testing.T) {
		b := calc.ComputeTotalTax(d("70000"), false, true, domain.Bayern)
		assert.True(t, d("19967").Equal(b.TotalTax))
	})

	t.Run("soli phase-in", func(t *testing.T) {
		b := calc.ComputeTotalTax(d("75000"), false, true, domain.NordrheinWestfalen)
		assert.True(t, d("20588").Equal(b.IncomeTax))
		assert.True(t, d("127.60").Equal(b.SolidaritySurcharge))
		assert.True(t, d("1852").Equal(b.ChurchTax))
		assert.True(t, d("22567.60").Equal(b.TotalTax))
	})

	t.Run("zero income", func(t *testing.T) {
		b := calc.ComputeTotalTax(d("0"), false, true, domain.Berlin)
		assert.True(t, b.TotalTax.IsZero())
		assert.True(t, b.EffectiveRate.IsZero())
	})

	t.Run("components sum to total", func(t *testing.T) {
		for _, x := range []string{"20000", "90000", "150000", "400000"} {
			for _, joint := range []bool{false, true} {
				b := calc.ComputeTotalTax(d(x), joint, true, domain.Sachsen)
				assert.True(t, b.IncomeTax.Add(b.SolidaritySurcharge).Add(b.ChurchTax).Equal(b.TotalTax))
			}
		}
	})
}
