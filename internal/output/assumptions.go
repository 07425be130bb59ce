package output

// DefaultAssumptions lists the modelling assumptions shown in detailed reports
var DefaultAssumptions = []string{
	"Partnership profit is constant across the year and allocated by share",
	"Base income of each partner is annual taxable income outside the partnership",
	"Tax is computed with the configured §32a EStG table, solidarity surcharge and church tax",
	"Trade tax uses the simplified formula for commercial partnerships (equitable strategy only)",
	"No deductions, loss carryforwards or special expenses are modelled",
}
