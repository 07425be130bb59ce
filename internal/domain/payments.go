package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxType distinguishes prepayment streams
type TaxType string

const (
	IncomeTax TaxType = "income_tax"
	TradeTax  TaxType = "trade_tax"
)

// PaymentStatus tracks a single prepayment
type PaymentStatus string

const (
	PaymentScheduled PaymentStatus = "scheduled"
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentOverdue   PaymentStatus = "overdue"
)

// TaxQuarter is a calendar quarter, 1 through 4
type TaxQuarter int

const (
	Q1 TaxQuarter = iota + 1
	Q2
	Q3
	Q4
)

// Quarters lists Q1..Q4 in order
func Quarters() []TaxQuarter {
	return []TaxQuarter{Q1, Q2, Q3, Q4}
}

func (q TaxQuarter) String() string {
	switch q {
	case Q1:
		return "Q1"
	case Q2:
		return "Q2"
	case Q3:
		return "Q3"
	case Q4:
		return "Q4"
	default:
		return "unknown"
	}
}

// TaxPayment is one quarterly prepayment
type TaxPayment struct {
	ID          string          `yaml:"id" json:"id"`
	TaxType     TaxType         `yaml:"tax_type" json:"tax_type"`
	Amount      decimal.Decimal `yaml:"amount" json:"amount"`
	DueDate     time.Time       `yaml:"due_date" json:"due_date"`
	Status      PaymentStatus   `yaml:"status" json:"status"`
	Quarter     TaxQuarter      `yaml:"quarter" json:"quarter"`
	Year        int             `yaml:"year" json:"year"`
	PaymentDate *time.Time      `yaml:"payment_date,omitempty" json:"payment_date,omitempty"`
	Reference   string          `yaml:"reference,omitempty" json:"reference,omitempty"`
	PartnerID   string          `yaml:"partner_id,omitempty" json:"partner_id,omitempty"`
}

// PaymentSchedule is the prepayment plan for one year
type PaymentSchedule struct {
	ID            string       `yaml:"id" json:"id"`
	Year          int          `yaml:"year" json:"year"`
	Payments      []TaxPayment `yaml:"payments" json:"payments"`
	GeneratedDate time.Time    `yaml:"generated_date" json:"generated_date"`
	LastUpdated   time.Time    `yaml:"last_updated" json:"last_updated"`
}

// TaxAssessment is a notice from the tax office that resets the prepayment
// amount from a given quarter onward
type TaxAssessment struct {
	ID                string          `yaml:"id" json:"id"`
	TaxType           TaxType         `yaml:"tax_type" json:"tax_type"`
	Year              int             `yaml:"year" json:"year"`
	AssessmentDate    time.Time       `yaml:"assessment_date" json:"assessment_date"`
	AssessedAmount    decimal.Decimal `yaml:"assessed_amount" json:"assessed_amount"`
	PrepaymentAmount  decimal.Decimal `yaml:"prepayment_amount" json:"prepayment_amount"` // new quarterly amount
	EffectiveFrom     TaxQuarter      `yaml:"effective_from" json:"effective_from"`
	Notes             string          `yaml:"notes,omitempty" json:"notes,omitempty"`
	DocumentReference string          `yaml:"document_reference,omitempty" json:"document_reference,omitempty"`
}
