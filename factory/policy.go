/*
Package factory converts JSON and YAML documents into a DecisionPolicy.

PURPOSE:
  Thresholds and rates are tuned by HR/payroll, not by developers. The
  factory reads a policy document, overlays it on generic.DefaultPolicy,
  validates the result and hands back an immutable DecisionPolicy that is
  injected into every calculator.

OVERLAY SEMANTICS:
  Every field is optional. Missing fields keep their default value, so a
  document that only changes the ETF rate is valid:

    contributions:
      etf: 0.03

  A "tiers" list, when present, replaces the default tier table entirely.

JSON SCHEMA:
  {
    "version": "2025-payroll",
    "eligibility": {
      "salary":         {"good_threshold": 40000, "good_points": 25, "average_points": 15},
      "tenure":         {"good_months": 24, "good_points": 25, "poor_points": 10},
      "credit_score":   {"excellent_score": 700, "good_score": 650,
                         "excellent_points": 30, "good_points": 20, "poor_points": 10},
      "debt_to_income": {"limit": 0.30, "good_points": 20, "high_points": 5,
                         "amortization_months": 12},
      "tiers": [
        {"level": "High",   "min_score": 80, "salary_multiple": 3},
        {"level": "Medium", "min_score": 60, "salary_multiple": 2},
        {"level": "Low",    "min_score": 0,  "salary_multiple": 1.5}
      ],
      "approval_min_score": 60
    },
    "bonus":         {"performance_excellent": 0.10, "performance_good": 0.07,
                      "performance_other": 0.05, "festival": 0.08, "annual": 0.15},
    "overtime":      {"regular": 1.5, "weekend": 2.0, "holiday": 2.5,
                      "night": 1.75, "default": 1.5},
    "contributions": {"epf_employee": 0.08, "epf_employer": 0.08, "etf": 0.02,
                      "fiscal_year_start_month": 4},
    "standard_annual_work_hours": 2080,
    "increment_cycle_months": 12
  }

USAGE:
  policy, err := factory.LoadPolicyFile("config/policy.yaml")
  scorer := eligibility.NewScorer(policy)

SEE ALSO:
  - generic/policy.go: DecisionPolicy and Validate
  - cmd/server/main.go: -policy flag
*/
package factory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/compensation-engine/generic"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// DOCUMENT SCHEMA TYPES
// =============================================================================

// PolicyJSON is the document representation of a policy.
type PolicyJSON struct {
	Version                 string             `json:"version,omitempty" yaml:"version,omitempty"`
	Eligibility             *EligibilityJSON   `json:"eligibility,omitempty" yaml:"eligibility,omitempty"`
	Bonus                   *BonusJSON         `json:"bonus,omitempty" yaml:"bonus,omitempty"`
	Overtime                *OvertimeJSON      `json:"overtime,omitempty" yaml:"overtime,omitempty"`
	Contributions           *ContributionsJSON `json:"contributions,omitempty" yaml:"contributions,omitempty"`
	StandardAnnualWorkHours *float64           `json:"standard_annual_work_hours,omitempty" yaml:"standard_annual_work_hours,omitempty"`
	IncrementCycleMonths    *int               `json:"increment_cycle_months,omitempty" yaml:"increment_cycle_months,omitempty"`
}

type EligibilityJSON struct {
	Salary           *SalaryJSON       `json:"salary,omitempty" yaml:"salary,omitempty"`
	Tenure           *TenureJSON       `json:"tenure,omitempty" yaml:"tenure,omitempty"`
	CreditScore      *CreditScoreJSON  `json:"credit_score,omitempty" yaml:"credit_score,omitempty"`
	DebtToIncome     *DebtToIncomeJSON `json:"debt_to_income,omitempty" yaml:"debt_to_income,omitempty"`
	Tiers            []TierJSON        `json:"tiers,omitempty" yaml:"tiers,omitempty"`
	ApprovalMinScore *int              `json:"approval_min_score,omitempty" yaml:"approval_min_score,omitempty"`
}

type SalaryJSON struct {
	GoodThreshold *float64 `json:"good_threshold,omitempty" yaml:"good_threshold,omitempty"`
	GoodPoints    *int     `json:"good_points,omitempty" yaml:"good_points,omitempty"`
	AveragePoints *int     `json:"average_points,omitempty" yaml:"average_points,omitempty"`
}

type TenureJSON struct {
	GoodMonths *int `json:"good_months,omitempty" yaml:"good_months,omitempty"`
	GoodPoints *int `json:"good_points,omitempty" yaml:"good_points,omitempty"`
	PoorPoints *int `json:"poor_points,omitempty" yaml:"poor_points,omitempty"`
}

type CreditScoreJSON struct {
	ExcellentScore  *int `json:"excellent_score,omitempty" yaml:"excellent_score,omitempty"`
	GoodScore       *int `json:"good_score,omitempty" yaml:"good_score,omitempty"`
	ExcellentPoints *int `json:"excellent_points,omitempty" yaml:"excellent_points,omitempty"`
	GoodPoints      *int `json:"good_points,omitempty" yaml:"good_points,omitempty"`
	PoorPoints      *int `json:"poor_points,omitempty" yaml:"poor_points,omitempty"`
}

type DebtToIncomeJSON struct {
	Limit              *float64 `json:"limit,omitempty" yaml:"limit,omitempty"`
	GoodPoints         *int     `json:"good_points,omitempty" yaml:"good_points,omitempty"`
	HighPoints         *int     `json:"high_points,omitempty" yaml:"high_points,omitempty"`
	AmortizationMonths *int     `json:"amortization_months,omitempty" yaml:"amortization_months,omitempty"`
}

type TierJSON struct {
	Level          string  `json:"level" yaml:"level"`
	MinScore       int     `json:"min_score" yaml:"min_score"`
	SalaryMultiple float64 `json:"salary_multiple" yaml:"salary_multiple"`
}

type BonusJSON struct {
	PerformanceExcellent *float64 `json:"performance_excellent,omitempty" yaml:"performance_excellent,omitempty"`
	PerformanceGood      *float64 `json:"performance_good,omitempty" yaml:"performance_good,omitempty"`
	PerformanceOther     *float64 `json:"performance_other,omitempty" yaml:"performance_other,omitempty"`
	Festival             *float64 `json:"festival,omitempty" yaml:"festival,omitempty"`
	Annual               *float64 `json:"annual,omitempty" yaml:"annual,omitempty"`
}

type OvertimeJSON struct {
	Regular *float64 `json:"regular,omitempty" yaml:"regular,omitempty"`
	Weekend *float64 `json:"weekend,omitempty" yaml:"weekend,omitempty"`
	Holiday *float64 `json:"holiday,omitempty" yaml:"holiday,omitempty"`
	Night   *float64 `json:"night,omitempty" yaml:"night,omitempty"`
	Default *float64 `json:"default,omitempty" yaml:"default,omitempty"`
}

type ContributionsJSON struct {
	EPFEmployee *float64 `json:"epf_employee,omitempty" yaml:"epf_employee,omitempty"`
	EPFEmployer *float64 `json:"epf_employer,omitempty" yaml:"epf_employer,omitempty"`
	ETF         *float64 `json:"etf,omitempty" yaml:"etf,omitempty"`

	FiscalYearStartMonth *int `json:"fiscal_year_start_month,omitempty" yaml:"fiscal_year_start_month,omitempty"`
}

// =============================================================================
// PARSING
// =============================================================================

// Format selects the document syntax.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// LoadPolicyFile reads a policy document, choosing the format by extension
// (.yaml/.yml for YAML, anything else JSON). An empty path yields the default policy.
func LoadPolicyFile(path string) (generic.DecisionPolicy, error) {
	if path == "" {
		return generic.DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return generic.DecisionPolicy{}, fmt.Errorf("failed to read policy file: %w", err)
	}

	format := FormatJSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	}
	return ParsePolicy(data, format)
}

// ParsePolicy parses a document and overlays it on the default policy.
func ParsePolicy(data []byte, format Format) (generic.DecisionPolicy, error) {
	var pj PolicyJSON
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &pj)
	default:
		err = json.Unmarshal(data, &pj)
	}
	if err != nil {
		return generic.DecisionPolicy{}, fmt.Errorf("failed to parse policy %s: %w", format, err)
	}
	return FromJSON(pj)
}

// FromJSON overlays pj on generic.DefaultPolicy and validates the result.
func FromJSON(pj PolicyJSON) (generic.DecisionPolicy, error) {
	p := generic.DefaultPolicy()
	if pj.Version != "" {
		p.Version = pj.Version
	}

	if e := pj.Eligibility; e != nil {
		el := &p.Eligibility
		if s := e.Salary; s != nil {
			setDecimal(&el.SalaryGoodThreshold, s.GoodThreshold)
			setInt(&el.SalaryGoodPoints, s.GoodPoints)
			setInt(&el.SalaryAveragePoints, s.AveragePoints)
		}
		if t := e.Tenure; t != nil {
			setInt(&el.TenureGoodMonths, t.GoodMonths)
			setInt(&el.TenureGoodPoints, t.GoodPoints)
			setInt(&el.TenurePoorPoints, t.PoorPoints)
		}
		if c := e.CreditScore; c != nil {
			setInt(&el.CreditExcellentScore, c.ExcellentScore)
			setInt(&el.CreditGoodScore, c.GoodScore)
			setInt(&el.CreditExcellentPoints, c.ExcellentPoints)
			setInt(&el.CreditGoodPoints, c.GoodPoints)
			setInt(&el.CreditPoorPoints, c.PoorPoints)
		}
		if d := e.DebtToIncome; d != nil {
			setDecimal(&el.DebtToIncomeLimit, d.Limit)
			setInt(&el.DebtGoodPoints, d.GoodPoints)
			setInt(&el.DebtHighPoints, d.HighPoints)
			setInt(&el.LoanAmortizationMonths, d.AmortizationMonths)
		}
		if len(e.Tiers) > 0 {
			tiers := make([]generic.Tier, 0, len(e.Tiers))
			for _, tj := range e.Tiers {
				level, err := parseLevel(tj.Level)
				if err != nil {
					return generic.DecisionPolicy{}, err
				}
				tiers = append(tiers, generic.Tier{
					Level:          level,
					MinScore:       tj.MinScore,
					SalaryMultiple: decimal.NewFromFloat(tj.SalaryMultiple),
				})
			}
			el.Tiers = tiers
		}
		setInt(&el.ApprovalMinScore, e.ApprovalMinScore)
	}

	if b := pj.Bonus; b != nil {
		setDecimal(&p.Bonus.PerformanceExcellentRate, b.PerformanceExcellent)
		setDecimal(&p.Bonus.PerformanceGoodRate, b.PerformanceGood)
		setDecimal(&p.Bonus.PerformanceOtherRate, b.PerformanceOther)
		setDecimal(&p.Bonus.FestivalRate, b.Festival)
		setDecimal(&p.Bonus.AnnualRate, b.Annual)
	}

	if o := pj.Overtime; o != nil {
		setDecimal(&p.Overtime.Regular, o.Regular)
		setDecimal(&p.Overtime.Weekend, o.Weekend)
		setDecimal(&p.Overtime.Holiday, o.Holiday)
		setDecimal(&p.Overtime.Night, o.Night)
		setDecimal(&p.Overtime.Default, o.Default)
	}

	if c := pj.Contributions; c != nil {
		setDecimal(&p.Contributions.EPFEmployeeRate, c.EPFEmployee)
		setDecimal(&p.Contributions.EPFEmployerRate, c.EPFEmployer)
		setDecimal(&p.Contributions.ETFRate, c.ETF)
		if c.FiscalYearStartMonth != nil {
			p.Contributions.FiscalYearStartMonth = time.Month(*c.FiscalYearStartMonth)
		}
	}

	setDecimal(&p.StandardAnnualWorkHours, pj.StandardAnnualWorkHours)
	setInt(&p.IncrementCycleMonths, pj.IncrementCycleMonths)

	if err := p.Validate(); err != nil {
		return generic.DecisionPolicy{}, err
	}
	return p, nil
}

// ToJSON renders a policy as a complete document (every field set).
func ToJSON(p generic.DecisionPolicy) PolicyJSON {
	e := p.Eligibility
	tiers := make([]TierJSON, len(e.Tiers))
	for i, t := range e.Tiers {
		tiers[i] = TierJSON{Level: string(t.Level), MinScore: t.MinScore, SalaryMultiple: t.SalaryMultiple.InexactFloat64()}
	}

	return PolicyJSON{
		Version: p.Version,
		Eligibility: &EligibilityJSON{
			Salary: &SalaryJSON{
				GoodThreshold: floatPtr(e.SalaryGoodThreshold),
				GoodPoints:    intPtr(e.SalaryGoodPoints),
				AveragePoints: intPtr(e.SalaryAveragePoints),
			},
			Tenure: &TenureJSON{
				GoodMonths: intPtr(e.TenureGoodMonths),
				GoodPoints: intPtr(e.TenureGoodPoints),
				PoorPoints: intPtr(e.TenurePoorPoints),
			},
			CreditScore: &CreditScoreJSON{
				ExcellentScore:  intPtr(e.CreditExcellentScore),
				GoodScore:       intPtr(e.CreditGoodScore),
				ExcellentPoints: intPtr(e.CreditExcellentPoints),
				GoodPoints:      intPtr(e.CreditGoodPoints),
				PoorPoints:      intPtr(e.CreditPoorPoints),
			},
			DebtToIncome: &DebtToIncomeJSON{
				Limit:              floatPtr(e.DebtToIncomeLimit),
				GoodPoints:         intPtr(e.DebtGoodPoints),
				HighPoints:         intPtr(e.DebtHighPoints),
				AmortizationMonths: intPtr(e.LoanAmortizationMonths),
			},
			Tiers:            tiers,
			ApprovalMinScore: intPtr(e.ApprovalMinScore),
		},
		Bonus: &BonusJSON{
			PerformanceExcellent: floatPtr(p.Bonus.PerformanceExcellentRate),
			PerformanceGood:      floatPtr(p.Bonus.PerformanceGoodRate),
			PerformanceOther:     floatPtr(p.Bonus.PerformanceOtherRate),
			Festival:             floatPtr(p.Bonus.FestivalRate),
			Annual:               floatPtr(p.Bonus.AnnualRate),
		},
		Overtime: &OvertimeJSON{
			Regular: floatPtr(p.Overtime.Regular),
			Weekend: floatPtr(p.Overtime.Weekend),
			Holiday: floatPtr(p.Overtime.Holiday),
			Night:   floatPtr(p.Overtime.Night),
			Default: floatPtr(p.Overtime.Default),
		},
		Contributions: &ContributionsJSON{
			EPFEmployee: floatPtr(p.Contributions.EPFEmployeeRate),
			EPFEmployer: floatPtr(p.Contributions.EPFEmployerRate),
			ETF:         floatPtr(p.Contributions.ETFRate),

			FiscalYearStartMonth: intPtr(int(p.Contributions.FiscalYearStartMonth)),
		},
		StandardAnnualWorkHours: floatPtr(p.StandardAnnualWorkHours),
		IncrementCycleMonths:    intPtr(p.IncrementCycleMonths),
	}
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseLevel(s string) (generic.EligibilityLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return generic.LevelHigh, nil
	case "medium":
		return generic.LevelMedium, nil
	case "low":
		return generic.LevelLow, nil
	default:
		return "", fmt.Errorf("%w: unknown tier level %q", generic.ErrInvalidPolicy, s)
	}
}

func setDecimal(dst *decimal.Decimal, v *float64) {
	if v != nil {
		*dst = decimal.NewFromFloat(*v)
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func floatPtr(d decimal.Decimal) *float64 {
	v := d.InexactFloat64()
	return &v
}

func intPtr(v int) *int {
	return &v
}
