// Package schedule plans the quarterly tax prepayments that follow from a
// reserve calculation.
package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	// ErrPaymentNotFound is returned for an unknown payment id
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrYearMismatch is returned when an assessment targets another year
	ErrYearMismatch = errors.New("assessment year does not match schedule")
)

var quartersPerYear = decimal.NewFromInt(4)

// DueDate returns the prepayment deadline. Income tax is due on the 10th of
// March, June, September and December; trade tax on the 15th of February,
// May, August and November.
func DueDate(taxType domain.TaxType, quarter domain.TaxQuarter, year int) time.Time {
	month := time.Month(int(quarter) * 3)
	day := 10
	if taxType == domain.TradeTax {
		month--
		day = 15
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// QuarterlyAmount splits an annual estimate into whole-euro quarterly
// prepayments
func QuarterlyAmount(annual decimal.Decimal) decimal.Decimal {
	if !annual.IsPositive() {
		return decimal.Zero
	}
	return annual.Div(quartersPerYear).Round(0)
}

// Generator builds payment schedules. Now defaults to time.Now.
type Generator struct {
	Now func() time.Time
}

// NewGenerator creates a generator using the wall clock
func NewGenerator() *Generator {
	return &Generator{Now: time.Now}
}

func (g *Generator) now() time.Time {
	if g.Now == nil {
		return time.Now()
	}
	return g.Now()
}

// Generate creates the schedule for one year from annual estimates. Trade tax
// payments are only planned when a trade tax estimate exists.
func (g *Generator) Generate(year int, estimatedIncomeTax, estimatedTradeTax decimal.Decimal) *domain.PaymentSchedule {
	now := g.now()
	s := &domain.PaymentSchedule{
		ID:            uuid.New().String(),
		Year:          year,
		GeneratedDate: now,
		LastUpdated:   now,
	}

	s.Payments = append(s.Payments, payments(domain.IncomeTax, year, QuarterlyAmount(estimatedIncomeTax))...)
	if estimatedTradeTax.IsPositive() {
		s.Payments = append(s.Payments, payments(domain.TradeTax, year, QuarterlyAmount(estimatedTradeTax))...)
	}
	sortByDueDate(s.Payments)
	return s
}

// FromResult plans prepayments for an aggregate reserve result. The income tax
// estimate is the annual burden without trade tax.
func (g *Generator) FromResult(year int, result domain.AggregateReserveResult) *domain.PaymentSchedule {
	return g.Generate(year, result.AnnualIncomeTaxEstimate(), result.TradeTax)
}

func payments(taxType domain.TaxType, year int, amount decimal.Decimal) []domain.TaxPayment {
	out := make([]domain.TaxPayment, 0, 4)
	for _, q := range domain.Quarters() {
		out = append(out, domain.TaxPayment{
			ID:      uuid.New().String(),
			TaxType: taxType,
			Amount:  amount,
			DueDate: DueDate(taxType, q, year),
			Status:  domain.PaymentScheduled,
			Quarter: q,
			Year:    year,
		})
	}
	return out
}

func sortByDueDate(p []domain.TaxPayment) {
	sort.SliceStable(p, func(i, j int) bool {
		return p[i].DueDate.Before(p[j].DueDate)
	})
}

// MarkPaid records a payment
func MarkPaid(s *domain.PaymentSchedule, paymentID string, paidOn time.Time, reference string) error {
	for i := range s.Payments {
		p := &s.Payments[i]
		if p.ID != paymentID {
			continue
		}
		paid := paidOn
		p.Status = domain.PaymentPaid
		p.PaymentDate = &paid
		if reference != "" {
			p.Reference = reference
		}
		s.LastUpdated = paidOn
		return nil
	}
	return fmt.Errorf("%w: %s", ErrPaymentNotFound, paymentID)
}

// pendingWindow is how long before the due date a payment counts as pending
const pendingWindow = 14 * 24 * time.Hour

// Refresh updates statuses relative to asOf. Unpaid payments past their due
// date become overdue; those due within two weeks become pending. It returns
// the number of overdue payments.
func Refresh(s *domain.PaymentSchedule, asOf time.Time) int {
	overdue := 0
	for i := range s.Payments {
		p := &s.Payments[i]
		if p.Status == domain.PaymentPaid {
			continue
		}
		switch {
		case asOf.After(endOfDay(p.DueDate)):
			p.Status = domain.PaymentOverdue
			overdue++
		case !asOf.Before(p.DueDate.Add(-pendingWindow)):
			p.Status = domain.PaymentPending
		default:
			p.Status = domain.PaymentScheduled
		}
	}
	s.LastUpdated = asOf
	return overdue
}

func endOfDay(t time.Time) time.Time {
	return t.Add(24*time.Hour - time.Nanosecond)
}

// ApplyAssessment replaces the prepayment amount of every unpaid payment of
// the assessed tax type from the effective quarter onward. It returns the
// number of payments changed.
func ApplyAssessment(s *domain.PaymentSchedule, a domain.TaxAssessment) (int, error) {
	if a.Year != s.Year {
		return 0, fmt.Errorf("%w: assessment for %d, schedule for %d", ErrYearMismatch, a.Year, s.Year)
	}
	if a.EffectiveFrom < domain.Q1 || a.EffectiveFrom > domain.Q4 {
		return 0, fmt.Errorf("invalid effective quarter %d", a.EffectiveFrom)
	}
	if a.PrepaymentAmount.IsNegative() {
		return 0, fmt.Errorf("prepayment amount cannot be negative: %s", a.PrepaymentAmount)
	}

	changed := 0
	found := false
	for i := range s.Payments {
		p := &s.Payments[i]
		if p.TaxType != a.TaxType {
			continue
		}
		found = true
		if p.Quarter < a.EffectiveFrom || p.Status == domain.PaymentPaid {
			continue
		}
		p.Amount = a.PrepaymentAmount
		changed++
	}

	// a first trade tax notice for a schedule planned without trade tax
	if !found && a.PrepaymentAmount.IsPositive() {
		for _, p := range payments(a.TaxType, s.Year, a.PrepaymentAmount) {
			if p.Quarter >= a.EffectiveFrom {
				s.Payments = append(s.Payments, p)
				changed++
			}
		}
		sortByDueDate(s.Payments)
	}

	if !a.AssessmentDate.IsZero() {
		s.LastUpdated = a.AssessmentDate
	}
	return changed, nil
}

// Summary totals a schedule per tax type
type Summary struct {
	Planned     map[domain.TaxType]decimal.Decimal `json:"planned"`
	Paid        map[domain.TaxType]decimal.Decimal `json:"paid"`
	Outstanding decimal.Decimal                    `json:"outstanding"`
	Overdue     int                                `json:"overdue"`
	Next        *domain.TaxPayment                 `json:"next,omitempty"`
}

// Summarize totals the schedule. Next is the earliest unpaid payment.
func Summarize(s *domain.PaymentSchedule) Summary {
	sum := Summary{
		Planned: map[domain.TaxType]decimal.Decimal{},
		Paid:    map[domain.TaxType]decimal.Decimal{},
	}
	for i, p := range s.Payments {
		sum.Planned[p.TaxType] = sum.Planned[p.TaxType].Add(p.Amount)
		if p.Status == domain.PaymentPaid {
			sum.Paid[p.TaxType] = sum.Paid[p.TaxType].Add(p.Amount)
			continue
		}
		sum.Outstanding = sum.Outstanding.Add(p.Amount)
		if p.Status == domain.PaymentOverdue {
			sum.Overdue++
		}
		if sum.Next == nil || p.DueDate.Before(sum.Next.DueDate) {
			sum.Next = &s.Payments[i]
		}
	}
	return sum
}
