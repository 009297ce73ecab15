/*
Package eligibility scores an employee's loan eligibility.

PURPOSE:
  Turns an EmployeeFinancialProfile and a requested loan amount into a
  0-100 score, a tier (Low/Medium/High), a maximum recommended amount and
  an approval decision. Every threshold comes from the injected
  generic.DecisionPolicy.

SCORING:
  Four independent factors, always evaluated and reported in this order:

    Salary          >= 40,000 Good 25        else Average 15
    Tenure          >= 24 months Good 25     else Poor 10
    Credit Score    >= 700 Excellent 30      >= 650 Good 20    else Poor 10
    Debt-to-Income  <= 0.30 Good 20          else High 5

  DTI = (existing loan balance + requested / 12) / (annual salary / 12)

APPROVAL:
  approved = requested <= maxRecommended AND score >= 60

FAILURE SEMANTICS:
  Evaluate never fails. A profile with zero or negative salary, no tenure
  and no credit score lands in the lowest buckets and the Low tier.

SEE ALSO:
  - generic/policy.go: EligibilityPolicy and tier table
  - service/service.go: Resolves the profile and persists the result
*/
package eligibility

import (
	"github.com/shopspring/decimal"
	"github.com/warp/compensation-engine/generic"
)

// Factor names, in evaluation order.
const (
	FactorSalary       = "Salary"
	FactorTenure       = "Tenure"
	FactorCreditScore  = "Credit Score"
	FactorDebtToIncome = "Debt-to-Income"
)

// Factor statuses.
const (
	StatusExcellent = "Excellent"
	StatusGood      = "Good"
	StatusAverage   = "Average"
	StatusPoor      = "Poor"
	StatusHigh      = "High"
)

// Factor is one named contribution to the score.
type Factor struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Points int    `json:"points"`
}

// Result is the outcome of one evaluation. It is created fresh per call.
type Result struct {
	EmployeeID           generic.EmployeeID
	LoanType             generic.LoanType
	Score                int
	Level                generic.EligibilityLevel
	Factors              []Factor
	DebtToIncomeRatio    *decimal.Decimal // nil when monthly salary is not positive
	MaxRecommendedAmount decimal.Decimal
	RequestedAmount      decimal.Decimal
	Approved             bool
}

// Scorer evaluates loan eligibility under a fixed policy.
type Scorer struct {
	policy generic.EligibilityPolicy
}

// NewScorer creates a scorer bound to the eligibility section of policy.
func NewScorer(policy generic.DecisionPolicy) *Scorer {
	return &Scorer{policy: policy.Clone().Eligibility}
}

// Evaluate scores a loan request.
func (s *Scorer) Evaluate(profile generic.EmployeeFinancialProfile, requested decimal.Decimal, loanType generic.LoanType) Result {
	dtiFactor, ratio := s.debtToIncome(profile, requested)
	factors := []Factor{
		s.salary(profile),
		s.tenure(profile),
		s.creditScore(profile),
		dtiFactor,
	}

	score := 0
	for _, f := range factors {
		score += f.Points
	}
	score = min(max(score, 0), 100)

	tier := s.policy.TierFor(score)
	maxAmount := generic.NonNegative(profile.AnnualSalary.Mul(tier.SalaryMultiple))

	return Result{
		EmployeeID:           profile.EmployeeID,
		LoanType:             loanType,
		Score:                score,
		Level:                tier.Level,
		Factors:              factors,
		DebtToIncomeRatio:    ratio,
		MaxRecommendedAmount: maxAmount,
		RequestedAmount:      requested,
		Approved:             requested.LessThanOrEqual(maxAmount) && score >= s.policy.ApprovalMinScore,
	}
}

// =============================================================================
// FACTORS
// =============================================================================

func (s *Scorer) salary(p generic.EmployeeFinancialProfile) Factor {
	if p.AnnualSalary.GreaterThanOrEqual(s.policy.SalaryGoodThreshold) {
		return Factor{Name: FactorSalary, Status: StatusGood, Points: s.policy.SalaryGoodPoints}
	}
	return Factor{Name: FactorSalary, Status: StatusAverage, Points: s.policy.SalaryAveragePoints}
}

func (s *Scorer) tenure(p generic.EmployeeFinancialProfile) Factor {
	if p.TenureMonths >= s.policy.TenureGoodMonths {
		return Factor{Name: FactorTenure, Status: StatusGood, Points: s.policy.TenureGoodPoints}
	}
	return Factor{Name: FactorTenure, Status: StatusPoor, Points: s.policy.TenurePoorPoints}
}

func (s *Scorer) creditScore(p generic.EmployeeFinancialProfile) Factor {
	switch {
	case p.CreditScore >= s.policy.CreditExcellentScore:
		return Factor{Name: FactorCreditScore, Status: StatusExcellent, Points: s.policy.CreditExcellentPoints}
	case p.CreditScore >= s.policy.CreditGoodScore:
		return Factor{Name: FactorCreditScore, Status: StatusGood, Points: s.policy.CreditGoodPoints}
	default:
		return Factor{Name: FactorCreditScore, Status: StatusPoor, Points: s.policy.CreditPoorPoints}
	}
}

// debtToIncome compares in cross-multiplied form so the 0.30 boundary is
// exact regardless of how requested/12 would round:
//
//	(existing + requested/n) / (annual/12) <= limit
//	<=> 12*existing + 12*requested/n <= limit*annual
func (s *Scorer) debtToIncome(p generic.EmployeeFinancialProfile, requested decimal.Decimal) (Factor, *decimal.Decimal) {
	high := Factor{Name: FactorDebtToIncome, Status: StatusHigh, Points: s.policy.DebtHighPoints}
	if !p.AnnualSalary.IsPositive() {
		return high, nil
	}

	months := decimal.NewFromInt(int64(s.policy.LoanAmortizationMonths))
	monthlyDebt := p.ExistingLoanBalance.Add(requested.Div(months))
	ratio := monthlyDebt.Div(p.MonthlySalary()).Round(4)

	lhs := p.ExistingLoanBalance.Mul(generic.Twelve).Add(requested.Mul(generic.Twelve).Div(months))
	rhs := s.policy.DebtToIncomeLimit.Mul(p.AnnualSalary)
	if lhs.LessThanOrEqual(rhs) {
		return Factor{Name: FactorDebtToIncome, Status: StatusGood, Points: s.policy.DebtGoodPoints}, &ratio
	}
	return high, &ratio
}
