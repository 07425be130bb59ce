package server

import (
	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrorResponse is the body of every non-2xx reply
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// TaxRequest asks for the tax on one income figure. With an increment the
// reply is the differential tax of adding it to income.
type TaxRequest struct {
	Income       decimal.Decimal     `json:"income"`
	Increment    *decimal.Decimal    `json:"increment,omitempty"`
	Joint        bool                `json:"joint"`
	ChurchMember bool                `json:"church_member"`
	State        domain.FederalState `json:"state"`
	TaxTable     string              `json:"tax_table"`
}

// TaxResponse carries exactly one of Breakdown or Differential
type TaxResponse struct {
	TaxTable     string                  `json:"tax_table"`
	Zone         int                     `json:"zone"`
	Breakdown    *domain.TaxBreakdown    `json:"breakdown,omitempty"`
	Differential *domain.DifferentialTax `json:"differential,omitempty"`
}

// TableInfo describes one embedded tax table
type TableInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Zones       int    `json:"zones"`
	Default     bool   `json:"default"`
}

// TablesResponse lists the available tax tables
type TablesResponse struct {
	Tables []TableInfo `json:"tables"`
}
