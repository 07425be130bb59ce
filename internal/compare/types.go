package compare

import (
	"fmt"
	"sort"

	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/shopspring/decimal"
)

// StrategyResult is one strategy's outcome for the compared scenario
type StrategyResult struct {
	Strategy    string                         `json:"strategy"`
	Description string                         `json:"description"`
	Result      *domain.AggregateReserveResult `json:"result"`

	// Comparison to base
	ReserveDiffFromBase decimal.Decimal `json:"reserve_diff_from_base"`
	RateDiffFromBase    decimal.Decimal `json:"rate_diff_from_base"`
}

// PartnerDelta shows how one partner's monthly reserve moves between strategies
type PartnerDelta struct {
	PartnerID   string                     `json:"partner_id"`
	PartnerName string                     `json:"partner_name"`
	Reserves    map[string]decimal.Decimal `json:"reserves"` // strategy -> monthly reserve incl. margin
	Rates       map[string]decimal.Decimal `json:"rates"`
	// Spread is the largest reserve minus the smallest across strategies
	Spread decimal.Decimal `json:"spread"`
}

// ComparisonSet collects all strategy results for one scenario
type ComparisonSet struct {
	BaseStrategy    string           `json:"base_strategy"`
	Results         []StrategyResult `json:"results"`
	PartnerDeltas   []PartnerDelta   `json:"partner_deltas"`
	Recommendations []string         `json:"recommendations"`
	ConfigPath      string           `json:"config_path,omitempty"`
}

// Base returns the result the others are compared against
func (cs *ComparisonSet) Base() *StrategyResult {
	for i := range cs.Results {
		if cs.Results[i].Strategy == cs.BaseStrategy {
			return &cs.Results[i]
		}
	}
	return nil
}

// calculateComparison fills the base deltas of every result
func calculateComparison(cs *ComparisonSet) {
	base := cs.Base()
	if base == nil {
		return
	}
	for i := range cs.Results {
		r := &cs.Results[i]
		r.ReserveDiffFromBase = r.Result.TotalReserve.Sub(base.Result.TotalReserve)
		r.RateDiffFromBase = r.Result.WeightedTaxRate.Sub(base.Result.WeightedTaxRate)
	}
}

// calculatePartnerDeltas pivots the results by partner, in input order
func calculatePartnerDeltas(results []StrategyResult) []PartnerDelta {
	if len(results) == 0 {
		return nil
	}
	deltas := make([]PartnerDelta, 0, len(results[0].Result.Partners))
	index := make(map[string]int)
	for _, r := range results {
		for _, p := range r.Result.Partners {
			i, ok := index[p.PartnerID]
			if !ok {
				i = len(deltas)
				index[p.PartnerID] = i
				deltas = append(deltas, PartnerDelta{
					PartnerID:   p.PartnerID,
					PartnerName: p.PartnerName,
					Reserves:    map[string]decimal.Decimal{},
					Rates:       map[string]decimal.Decimal{},
				})
			}
			deltas[i].Reserves[r.Strategy] = p.TotalReserve
			deltas[i].Rates[r.Strategy] = p.EffectiveTaxRate
		}
	}
	for i := range deltas {
		var lo, hi *decimal.Decimal
		for _, v := range deltas[i].Reserves {
			v := v
			if lo == nil || v.LessThan(*lo) {
				lo = &v
			}
			if hi == nil || v.GreaterThan(*hi) {
				hi = &v
			}
		}
		if lo != nil {
			deltas[i].Spread = hi.Sub(*lo)
		}
	}
	return deltas
}

// rateSpreadWarning is the per-partner rate gap above which an equal split of
// the tax burden is suggested
var rateSpreadWarning = decimal.NewFromFloat(0.05)

// GenerateRecommendations creates hints based on comparison results
func GenerateRecommendations(cs *ComparisonSet) []string {
	recommendations := []string{}
	if len(cs.Results) < 2 {
		return recommendations
	}

	sorted := make([]StrategyResult, len(cs.Results))
	copy(sorted, cs.Results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Result.TotalReserve.LessThan(sorted[j].Result.TotalReserve)
	})
	low, high := sorted[0], sorted[len(sorted)-1]
	if diff := high.Result.TotalReserve.Sub(low.Result.TotalReserve); diff.GreaterThanOrEqual(decimal.NewFromFloat(0.01)) {
		recommendations = append(recommendations,
			fmt.Sprintf("Lowest reserve: %s sets aside €%s less per month than %s", low.Strategy, diff.StringFixed(2), high.Strategy))
	} else {
		recommendations = append(recommendations, "All strategies reserve the same total; they differ only in how it is split")
	}

	for _, r := range cs.Results {
		if r.Strategy != domain.StrategyIndividual {
			continue
		}
		minRate, maxRate := partnerRateRange(r.Result)
		if maxRate.Sub(minRate).GreaterThan(rateSpreadWarning) {
			recommendations = append(recommendations,
				fmt.Sprintf("Individual rates range from %s%% to %s%%; the equitable strategy spreads the burden evenly",
					minRate.Mul(domain.Hundred).StringFixed(1), maxRate.Mul(domain.Hundred).StringFixed(1)))
		}
	}

	for _, d := range cs.PartnerDeltas {
		if d.Spread.GreaterThanOrEqual(decimal.NewFromInt(100)) {
			recommendations = append(recommendations,
				fmt.Sprintf("%s: monthly reserve differs by €%s between strategies", d.PartnerName, d.Spread.StringFixed(2)))
		}
	}

	return recommendations
}

func partnerRateRange(r *domain.AggregateReserveResult) (decimal.Decimal, decimal.Decimal) {
	if len(r.Partners) == 0 {
		return decimal.Zero, decimal.Zero
	}
	minRate, maxRate := r.Partners[0].EffectiveTaxRate, r.Partners[0].EffectiveTaxRate
	for _, p := range r.Partners[1:] {
		minRate = decimal.Min(minRate, p.EffectiveTaxRate)
		maxRate = decimal.Max(maxRate, p.EffectiveTaxRate)
	}
	return minRate, maxRate
}
