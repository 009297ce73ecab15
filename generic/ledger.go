package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// CONTRIBUTION LEDGER - Monthly EPF/ETF history (append-only)
// =============================================================================

// ContributionEntry is one month of provident/trust fund contributions.
type ContributionEntry struct {
	ID          string
	EmployeeID  EmployeeID
	Period      TimePoint // first day of the contribution month
	EPFEmployee decimal.Decimal
	EPFEmployer decimal.Decimal
	ETF         decimal.Decimal
}

// EPFTotal is the combined EPF amount for the month.
func (e ContributionEntry) EPFTotal() decimal.Decimal {
	return e.EPFEmployee.Add(e.EPFEmployer)
}

// ContributionLedger is the ordered contribution history of one employee.
// Callers append through a ContributionWriter; the engine only reads it.
type ContributionLedger struct {
	EmployeeID EmployeeID
	Entries    []ContributionEntry
}

func (l ContributionLedger) Len() int { return len(l.Entries) }

// Totals sums the EPF (employee + employer) and ETF amounts of the months
// that fall inside period.
func (l ContributionLedger) Totals(period Period) (epf, etf decimal.Decimal) {
	epf, etf = decimal.Zero, decimal.Zero
	for _, e := range l.Entries {
		if !period.Contains(e.Period) {
			continue
		}
		epf = epf.Add(e.EPFTotal())
		etf = etf.Add(e.ETF)
	}
	return epf, etf
}
