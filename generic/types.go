/*
Package generic provides the shared vocabulary of the decision engine.

PURPOSE:
  This package contains the types every calculator speaks: money helpers,
  identifiers, the employee financial profile, the decision policy, the
  repository interfaces and the error taxonomy. It has no knowledge of how
  a loan is scored or a bonus computed; those rules live in the domain
  packages (eligibility, compensation, contribution).

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: decimal.Decimal, never float64, to avoid rounding drift
  - EmployeeID / LoanType: Type-safe identifiers
  - Round2: Half-away-from-zero rounding to cents

DESIGN PRINCIPLES:
  1. Purity: Nothing in the engine performs I/O
  2. Precision: Uses decimal.Decimal for every monetary value
  3. Immutability: Inputs are value types and are never mutated
  4. Explicit policy: Every threshold comes from a DecisionPolicy value

SEE ALSO:
  - policy.go: DecisionPolicy thresholds and rates
  - profile.go: EmployeeFinancialProfile and its nullable source record
  - store.go: Repository interfaces
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY
// =============================================================================

var (
	Hundred = decimal.NewFromInt(100)
	Twelve  = decimal.NewFromInt(12)
)

// Money builds a decimal from a float literal. Intended for constants and tests.
func Money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// MustParseDecimal parses s, returning zero when it is not a number.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Round2 rounds to two decimal places, half away from zero (2.345 -> 2.35, -2.345 -> -2.35).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// NonNegative clamps d at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string

// LoanType is a loan category reference ("personal", "housing", ...).
// The engine does not branch on it; it is carried for the audit trail.
type LoanType string
