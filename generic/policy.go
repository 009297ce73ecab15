/*
policy.go - DecisionPolicy: every threshold, rate and multiplier in one value

PURPOSE:
  Scoring bands, tier cutoffs, bonus percentages, overtime multipliers and
  EPF/ETF contribution rates are configuration, not code. A DecisionPolicy
  is built once (DefaultPolicy or factory.ParsePolicy), validated, and then
  passed explicitly into every calculator constructor. Calculators never read
  thresholds from globals.

KEY CONCEPTS:
  - EligibilityPolicy: Factor bands + points, DTI limit, tier table
  - BonusPolicy: Percentages per bonus type / performance tier
  - OvertimePolicy: Pay multiplier per overtime category
  - ContributionPolicy: EPF employee/employer and ETF rates

TIER TABLE:
  Tiers are evaluated high-to-low; the first tier whose MinScore <= score
  wins. The last tier must have MinScore 0 so every score maps to a tier.

    High    >= 80   max loan = salary x 3
    Medium  >= 60   max loan = salary x 2
    Low     >= 0    max loan = salary x 1.5

CONCURRENCY:
  A policy is read-only after construction and safe to share.

SEE ALSO:
  - factory/policy.go: JSON/YAML -> DecisionPolicy
  - eligibility/scorer.go, compensation/*.go, contribution/projector.go
*/
package generic

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DECISION POLICY
// =============================================================================

// DecisionPolicy is the complete, immutable rule table of the engine.
type DecisionPolicy struct {
	Version       string
	Eligibility   EligibilityPolicy
	Bonus         BonusPolicy
	Overtime      OvertimePolicy
	Contributions ContributionPolicy

	// StandardAnnualWorkHours converts annual salary to an hourly rate (52 x 40).
	StandardAnnualWorkHours decimal.Decimal

	// IncrementCycleMonths is the length of one salary review cycle.
	IncrementCycleMonths int
}

// EligibilityLevel is the loan eligibility tier derived from the score.
type EligibilityLevel string

const (
	LevelLow    EligibilityLevel = "Low"
	LevelMedium EligibilityLevel = "Medium"
	LevelHigh   EligibilityLevel = "High"
)

// Tier maps a minimum score to a level and a salary multiple for the
// maximum recommended loan amount.
type Tier struct {
	Level          EligibilityLevel
	MinScore       int
	SalaryMultiple decimal.Decimal
}

// EligibilityPolicy holds the four factor bands and the tier table.
type EligibilityPolicy struct {
	// Salary factor (annual salary)
	SalaryGoodThreshold decimal.Decimal
	SalaryGoodPoints    int
	SalaryAveragePoints int

	// Tenure factor (months)
	TenureGoodMonths int
	TenureGoodPoints int
	TenurePoorPoints int

	// Credit score factor
	CreditExcellentScore  int
	CreditGoodScore       int
	CreditExcellentPoints int
	CreditGoodPoints      int
	CreditPoorPoints      int

	// Debt-to-income factor. The limit is inclusive on the Good side.
	DebtToIncomeLimit      decimal.Decimal
	DebtGoodPoints         int
	DebtHighPoints         int
	LoanAmortizationMonths int

	Tiers            []Tier // ordered high to low
	ApprovalMinScore int
}

// BonusPolicy holds bonus percentages as fractions of base salary.
type BonusPolicy struct {
	PerformanceExcellentRate decimal.Decimal
	PerformanceGoodRate      decimal.Decimal
	PerformanceOtherRate     decimal.Decimal
	FestivalRate             decimal.Decimal
	AnnualRate               decimal.Decimal
}

// OvertimePolicy holds pay multipliers per overtime category.
type OvertimePolicy struct {
	Regular decimal.Decimal
	Weekend decimal.Decimal
	Holiday decimal.Decimal
	Night   decimal.Decimal
	Default decimal.Decimal // unrecognized categories
}

// ContributionPolicy holds provident/trust fund rates as fractions of salary.
type ContributionPolicy struct {
	EPFEmployeeRate decimal.Decimal
	EPFEmployerRate decimal.Decimal
	ETFRate         decimal.Decimal

	// FiscalYearStartMonth starts the year used for year-to-date totals.
	FiscalYearStartMonth time.Month
}

// ReportingPeriod is the fiscal year configuration for ledger totals.
func (c ContributionPolicy) ReportingPeriod() PeriodConfig {
	return PeriodConfig{Type: PeriodFiscalYear, FiscalYearStartMonth: c.FiscalYearStartMonth}
}

// EPFTotalRate is the combined monthly EPF rate (employee + employer).
func (c ContributionPolicy) EPFTotalRate() decimal.Decimal {
	return c.EPFEmployeeRate.Add(c.EPFEmployerRate)
}

// DefaultPolicy returns the reference rule table.
func DefaultPolicy() DecisionPolicy {
	return DecisionPolicy{
		Version: "default",
		Eligibility: EligibilityPolicy{
			SalaryGoodThreshold: decimal.NewFromInt(40000),
			SalaryGoodPoints:    25,
			SalaryAveragePoints: 15,

			TenureGoodMonths: 24,
			TenureGoodPoints: 25,
			TenurePoorPoints: 10,

			CreditExcellentScore:  700,
			CreditGoodScore:       650,
			CreditExcellentPoints: 30,
			CreditGoodPoints:      20,
			CreditPoorPoints:      10,

			DebtToIncomeLimit:      MustParseDecimal("0.30"),
			DebtGoodPoints:         20,
			DebtHighPoints:         5,
			LoanAmortizationMonths: 12,

			Tiers: []Tier{
				{Level: LevelHigh, MinScore: 80, SalaryMultiple: decimal.NewFromInt(3)},
				{Level: LevelMedium, MinScore: 60, SalaryMultiple: decimal.NewFromInt(2)},
				{Level: LevelLow, MinScore: 0, SalaryMultiple: MustParseDecimal("1.5")},
			},
			ApprovalMinScore: 60,
		},
		Bonus: BonusPolicy{
			PerformanceExcellentRate: MustParseDecimal("0.10"),
			PerformanceGoodRate:      MustParseDecimal("0.07"),
			PerformanceOtherRate:     MustParseDecimal("0.05"),
			FestivalRate:             MustParseDecimal("0.08"),
			AnnualRate:               MustParseDecimal("0.15"),
		},
		Overtime: OvertimePolicy{
			Regular: MustParseDecimal("1.5"),
			Weekend: MustParseDecimal("2.0"),
			Holiday: MustParseDecimal("2.5"),
			Night:   MustParseDecimal("1.75"),
			Default: MustParseDecimal("1.5"),
		},
		Contributions: ContributionPolicy{
			EPFEmployeeRate: MustParseDecimal("0.08"),
			EPFEmployerRate: MustParseDecimal("0.08"),
			ETFRate:         MustParseDecimal("0.02"),

			FiscalYearStartMonth: time.April,
		},
		StandardAnnualWorkHours: decimal.NewFromInt(2080),
		IncrementCycleMonths:    12,
	}
}

// Clone returns a deep copy so callers can tweak a policy without touching a shared one.
func (p DecisionPolicy) Clone() DecisionPolicy {
	out := p
	out.Eligibility.Tiers = append([]Tier(nil), p.Eligibility.Tiers...)
	return out
}

// TierFor returns the tier a score falls into.
// Validate guarantees a match; the last tier is returned as a fallback.
func (e EligibilityPolicy) TierFor(score int) Tier {
	for _, t := range e.Tiers {
		if score >= t.MinScore {
			return t
		}
	}
	if len(e.Tiers) == 0 {
		return Tier{Level: LevelLow, SalaryMultiple: decimal.Zero}
	}
	return e.Tiers[len(e.Tiers)-1]
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the internal consistency of the policy.
func (p DecisionPolicy) Validate() error {
	e := p.Eligibility

	if len(e.Tiers) == 0 {
		return policyError("eligibility tiers are empty")
	}
	for i, t := range e.Tiers {
		if t.SalaryMultiple.IsNegative() {
			return policyError("tier %s has a negative salary multiple", t.Level)
		}
		if i > 0 && t.MinScore >= e.Tiers[i-1].MinScore {
			return policyError("tiers must be ordered by descending min score (%s after %s)", t.Level, e.Tiers[i-1].Level)
		}
	}
	if last := e.Tiers[len(e.Tiers)-1]; last.MinScore != 0 {
		return policyError("lowest tier %s must start at score 0, got %d", last.Level, last.MinScore)
	}
	if e.CreditExcellentScore < e.CreditGoodScore {
		return policyError("credit excellent score %d below good score %d", e.CreditExcellentScore, e.CreditGoodScore)
	}
	if e.LoanAmortizationMonths <= 0 {
		return policyError("loan amortization months must be positive")
	}
	maxScore := max(e.SalaryGoodPoints, e.SalaryAveragePoints) +
		max(e.TenureGoodPoints, e.TenurePoorPoints) +
		max(e.CreditExcellentPoints, e.CreditGoodPoints, e.CreditPoorPoints) +
		max(e.DebtGoodPoints, e.DebtHighPoints)
	if maxScore > 100 {
		return policyError("factor points sum to %d, must not exceed 100", maxScore)
	}

	rates := map[string]decimal.Decimal{
		"bonus.performance_excellent": p.Bonus.PerformanceExcellentRate,
		"bonus.performance_good":      p.Bonus.PerformanceGoodRate,
		"bonus.performance_other":     p.Bonus.PerformanceOtherRate,
		"bonus.festival":              p.Bonus.FestivalRate,
		"bonus.annual":                p.Bonus.AnnualRate,
		"overtime.regular":            p.Overtime.Regular,
		"overtime.weekend":            p.Overtime.Weekend,
		"overtime.holiday":            p.Overtime.Holiday,
		"overtime.night":              p.Overtime.Night,
		"overtime.default":            p.Overtime.Default,
		"contributions.epf_employee":  p.Contributions.EPFEmployeeRate,
		"contributions.epf_employer":  p.Contributions.EPFEmployerRate,
		"contributions.etf":           p.Contributions.ETFRate,
	}
	for name, r := range rates {
		if r.IsNegative() {
			return policyError("%s must not be negative", name)
		}
	}

	if !p.StandardAnnualWorkHours.IsPositive() {
		return policyError("standard annual work hours must be positive")
	}
	if m := p.Contributions.FiscalYearStartMonth; m < time.January || m > time.December {
		return policyError("fiscal year start month %d out of range", m)
	}
	if p.IncrementCycleMonths <= 0 {
		return policyError("increment cycle months must be positive")
	}
	return nil
}

func policyError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidPolicy, fmt.Sprintf(format, args...))
}
