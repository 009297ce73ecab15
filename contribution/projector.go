/*
Package contribution aggregates and projects EPF/ETF retirement contributions.

PURPOSE:
  Reads an employee's contribution ledger, sums the balances to date, and
  projects them to a retirement age as a straight line:

    epfBalance          = sum(epfEmployee + epfEmployer)
    etfBalance          = sum(etf)
    monthlyEpfTotal     = salary x (employee rate + employer rate)   8% + 8%
    monthlyEtfTotal     = salary x etf rate                          2%
    monthsToRetirement  = max(0, (retirementAge - currentAge) x 12)
    projected*          = balance + monthly x monthsToRetirement

  No interest or compounding is applied. Projections must match values
  already shown to employees, so the model stays linear.

RATES:
  Rates come from generic.ContributionPolicy. The ETF report path of the
  legacy payroll used 3%/5% instead of 8%/8%/2%; see DESIGN.md.

SEE ALSO:
  - generic/ledger.go: ContributionLedger
  - service/service.go: Loads the ledger and salary, records new months
*/
package contribution

import (
	"github.com/shopspring/decimal"
	"github.com/warp/compensation-engine/generic"
)

// Projection is the contribution summary of one employee.
type Projection struct {
	EPFBalance          decimal.Decimal
	ETFBalance          decimal.Decimal
	MonthlyEPFTotal     decimal.Decimal
	MonthlyETFTotal     decimal.Decimal
	MonthsToRetirement  int
	ProjectedEPFBalance decimal.Decimal
	ProjectedETFBalance decimal.Decimal
}

// MonthlySplit is one month of contributions for a given salary.
type MonthlySplit struct {
	EPFEmployee decimal.Decimal
	EPFEmployer decimal.Decimal
	ETF         decimal.Decimal
}

// YearToDate is the contribution total of one fiscal year.
type YearToDate struct {
	Period generic.Period
	EPF    decimal.Decimal
	ETF    decimal.Decimal
}

// Projector computes contribution summaries under a fixed policy.
type Projector struct {
	rates generic.ContributionPolicy
}

// NewProjector creates a projector bound to the contribution rates of policy.
func NewProjector(policy generic.DecisionPolicy) *Projector {
	return &Projector{rates: policy.Contributions}
}

// Summarize aggregates the ledger and projects it to retirementAge.
func (p *Projector) Summarize(ledger generic.ContributionLedger, currentSalary decimal.Decimal, currentAge, retirementAge int) Projection {
	epf, etf := decimal.Zero, decimal.Zero
	for _, e := range ledger.Entries {
		epf = epf.Add(e.EPFTotal())
		etf = etf.Add(e.ETF)
	}

	salary := generic.NonNegative(currentSalary)
	monthlyEPF := salary.Mul(p.rates.EPFTotalRate())
	monthlyETF := salary.Mul(p.rates.ETFRate)

	months := max(0, (retirementAge-currentAge)*12)
	m := decimal.NewFromInt(int64(months))

	return Projection{
		EPFBalance:          epf,
		ETFBalance:          etf,
		MonthlyEPFTotal:     monthlyEPF,
		MonthlyETFTotal:     monthlyETF,
		MonthsToRetirement:  months,
		ProjectedEPFBalance: epf.Add(monthlyEPF.Mul(m)),
		ProjectedETFBalance: etf.Add(monthlyETF.Mul(m)),
	}
}

// MonthlyContribution splits one month's contributions for a salary,
// rounded to cents. Used when recording a payroll month into the ledger.
func (p *Projector) MonthlyContribution(salary decimal.Decimal) MonthlySplit {
	salary = generic.NonNegative(salary)
	return MonthlySplit{
		EPFEmployee: generic.Round2(salary.Mul(p.rates.EPFEmployeeRate)),
		EPFEmployer: generic.Round2(salary.Mul(p.rates.EPFEmployerRate)),
		ETF:         generic.Round2(salary.Mul(p.rates.ETFRate)),
	}
}

// YearToDate totals the ledger months of the fiscal year containing asOf.
func (p *Projector) YearToDate(ledger generic.ContributionLedger, asOf generic.TimePoint) YearToDate {
	period := p.rates.ReportingPeriod().PeriodFor(asOf)
	epf, etf := ledger.Totals(period)
	return YearToDate{Period: period, EPF: epf, ETF: etf}
}

// RetirementDate is the date the employee reaches retirementAge.
func RetirementDate(birthDate generic.TimePoint, retirementAge int) generic.TimePoint {
	return birthDate.AddYears(retirementAge)
}
