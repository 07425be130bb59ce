package reserve

import (
	"fmt"

	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// ShareTolerance is how far the sum of shares may drift from 100 before the
// shares are rescaled
var ShareTolerance = decimal.NewFromFloat(0.01)

// NormalizeShares returns a copy of partners whose shares sum to 100. Shares
// within ShareTolerance are kept as they are, otherwise they are scaled
// proportionally; if every share is zero the profit is split equally. The
// returned message is empty when nothing changed.
func NormalizeShares(partners []domain.PartnerTaxProfile) ([]domain.PartnerTaxProfile, string) {
	if len(partners) == 0 {
		return nil, ""
	}

	out := make([]domain.PartnerTaxProfile, len(partners))
	copy(out, partners)

	sum := lo.Reduce(out, func(acc decimal.Decimal, p domain.PartnerTaxProfile, _ int) decimal.Decimal {
		return acc.Add(p.Share)
	}, decimal.Zero)

	if sum.Sub(domain.Hundred).Abs().LessThanOrEqual(ShareTolerance) {
		return out, ""
	}

	if sum.IsZero() {
		equal := domain.Hundred.Div(decimal.NewFromInt(int64(len(out))))
		for i := range out {
			out[i].Share = equal
		}
		return out, fmt.Sprintf("partner shares sum to 0; profit split equally (%s%% each)", equal.StringFixed(2))
	}

	for i := range out {
		out[i].Share = out[i].Share.Mul(domain.Hundred).Div(sum)
	}
	return out, fmt.Sprintf("partner shares sum to %s%%; scaled proportionally to 100%%", sum.StringFixed(2))
}
