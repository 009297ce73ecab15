package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// EMPLOYEE FINANCIAL PROFILE - What the calculators see
// =============================================================================

// EmployeeFinancialProfile is a fully-typed snapshot of an employee's finances.
// Calculators receive it by value and never mutate it.
type EmployeeFinancialProfile struct {
	EmployeeID          EmployeeID
	Department          string
	AnnualSalary        decimal.Decimal
	TenureMonths        int
	CreditScore         int
	ExistingLoanBalance decimal.Decimal
}

// MonthlySalary is AnnualSalary / 12.
func (p EmployeeFinancialProfile) MonthlySalary() decimal.Decimal {
	return p.AnnualSalary.Div(Twelve)
}

// =============================================================================
// PROFILE RECORD - What the data layer delivers
// =============================================================================

// ProfileRecord is the nullable shape of an employee's financial data as it
// comes out of storage. Any field may be missing.
type ProfileRecord struct {
	EmployeeID          EmployeeID
	Name                string
	Department          string
	AnnualSalary        *decimal.Decimal
	HireDate            *TimePoint
	TenureMonths        *int // explicit override; otherwise derived from HireDate
	CreditScore         *int
	ExistingLoanBalance *decimal.Decimal
	BirthDate           *TimePoint
}

// Normalize converts the record into a profile. This is the ONLY place where
// missing values get their defaults: every absent number becomes 0, which
// drops the employee into the worst scoring bucket instead of failing.
//
// Tenure is taken from TenureMonths when present, otherwise it is the number
// of full months between HireDate and asOf (0 for a future hire date).
func (r ProfileRecord) Normalize(asOf TimePoint) EmployeeFinancialProfile {
	p := EmployeeFinancialProfile{
		EmployeeID:          r.EmployeeID,
		Department:          r.Department,
		AnnualSalary:        decimal.Zero,
		ExistingLoanBalance: decimal.Zero,
	}
	if r.AnnualSalary != nil {
		p.AnnualSalary = *r.AnnualSalary
	}
	if r.ExistingLoanBalance != nil {
		p.ExistingLoanBalance = *r.ExistingLoanBalance
	}
	if r.CreditScore != nil {
		p.CreditScore = *r.CreditScore
	}
	switch {
	case r.TenureMonths != nil:
		p.TenureMonths = *r.TenureMonths
	case r.HireDate != nil:
		p.TenureMonths = max(0, MonthsBetween(*r.HireDate, asOf))
	}
	return p
}

// AgeAt returns the employee's age in whole years, or false when the birth date is unknown.
func (r ProfileRecord) AgeAt(asOf TimePoint) (int, bool) {
	if r.BirthDate == nil {
		return 0, false
	}
	return YearsBetween(*r.BirthDate, asOf), true
}
