/*
store.go - Repository interfaces consumed around the engine

PURPOSE:
  Defines the narrow boundary between the calculators and storage. The
  engine itself never calls these; the service layer does, resolves the
  data, normalizes it, and then hands plain values to a calculator.

KEY INTERFACES:
  EmployeeRepository:     Financial profile lookup (may fail with not-found)
  ContributionRepository: Contribution ledger lookup (may be empty)
  ContributionWriter:     Append one month to the ledger
  LoanTypeRepository:     Resolve loan type references

APPEND-ONLY CONTRACT:
  The contribution ledger has no Update or Delete. Corrections are new rows.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - generic/store/memory.go: In-memory for tests and demos
  - cache/cache.go: Caching decorator for EmployeeRepository

SEE ALSO:
  - profile.go: ProfileRecord returned by EmployeeRepository
  - ledger.go: ContributionLedger returned by ContributionRepository
*/
package generic

import "context"

// EmployeeRepository resolves employee financial data.
type EmployeeRepository interface {
	// GetFinancialProfile returns the raw record, or an error wrapping
	// ErrEmployeeNotFound.
	GetFinancialProfile(ctx context.Context, id EmployeeID) (ProfileRecord, error)
}

// ContributionRepository resolves contribution history.
type ContributionRepository interface {
	// GetLedger returns entries ordered by period. An employee with no
	// history gets an empty ledger, not an error.
	GetLedger(ctx context.Context, id EmployeeID) (ContributionLedger, error)
}

// ContributionWriter appends contribution months.
type ContributionWriter interface {
	AppendContribution(ctx context.Context, entry ContributionEntry) error
}

// LoanTypeRepository resolves loan categories.
type LoanTypeRepository interface {
	// GetLoanType returns the loan type definition, or an error wrapping
	// ErrLoanTypeNotFound.
	GetLoanType(ctx context.Context, id LoanType) (LoanTypeInfo, error)
	ListLoanTypes(ctx context.Context) ([]LoanTypeInfo, error)
}

// LoanTypeInfo describes a loan category.
type LoanTypeInfo struct {
	ID          LoanType
	Name        string
	Description string
}
