package calculation

import (
	"fmt"

	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/shopspring/decimal"
)

// continuityTolerance is the largest jump in euros at a zone boundary that is
// still attributed to rounding
var continuityTolerance = decimal.NewFromInt(1)

// CheckContinuity evaluates both neighbouring formulas at every zone boundary
// and reports jumps and decreases. A table that fails here is still usable;
// the differential calculator clamps the resulting negative deltas.
func CheckContinuity(table *domain.TaxTable) []string {
	var findings []string
	one := decimal.NewFromInt(1)
	for i := 0; i < len(table.Zones)-1; i++ {
		lower, upper := table.Zones[i], table.Zones[i+1]
		if lower.Max == nil {
			continue
		}
		at := *lower.Max

		fromLower := evaluateZone(lower, at)
		fromUpper := evaluateZone(upper, at)
		if fromLower.Sub(fromUpper).Abs().GreaterThan(continuityTolerance) {
			findings = append(findings, fmt.Sprintf("%s: zone %d and %d disagree at %s (%s vs %s)",
				table.Name, i+1, i+2, at, fromLower, fromUpper))
		}

		next := evaluateZone(upper, at.Add(one))
		if next.LessThan(fromLower) {
			findings = append(findings, fmt.Sprintf("%s: tax decreases from %s to %s across the boundary at %s",
				table.Name, fromLower, next, at))
		}
	}
	return findings
}
