package contribution_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/warp/compensation-engine/contribution"
	"github.com/warp/compensation-engine/generic"
)

func dec(s string) decimal.Decimal { return generic.MustParseDecimal(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: want %s, got %s", field, want, got.String())
}

func ledgerOf(months int, employee, employer, etf string) generic.ContributionLedger {
	l := generic.ContributionLedger{EmployeeID: "emp-1"}
	for i := 0; i < months; i++ {
		l.Entries = append(l.Entries, generic.ContributionEntry{
			EmployeeID:  "emp-1",
			Period:      generic.StartOfMonth(2025, time.Month(i+1)),
			EPFEmployee: dec(employee),
			EPFEmployer: dec(employer),
			ETF:         dec(etf),
		})
	}
	return l
}

func TestSummarize_BalancesFromLedger(t *testing.T) {
	// GIVEN: 3 months of {epf: 100 + 100, etf: 25}
	// THEN: EPF balance 600, ETF balance 75

	p := contribution.NewProjector(generic.DefaultPolicy())
	result := p.Summarize(ledgerOf(3, "100", "100", "25"), dec("0"), 60, 60)

	assertDecimal(t, "600", result.EPFBalance, "epf balance")
	assertDecimal(t, "75", result.ETFBalance, "etf balance")
	assert.Equal(t, 0, result.MonthsToRetirement)
	assertDecimal(t, "600", result.ProjectedEPFBalance, "projected epf")
	assertDecimal(t, "75", result.ProjectedETFBalance, "projected etf")
}

func TestSummarize_StraightLineProjection(t *testing.T) {
	// GIVEN: 5000 salary, 8% + 8% EPF, 2% ETF, 10 years to retirement
	// THEN: 800/month EPF, 100/month ETF over 120 months, no interest

	p := contribution.NewProjector(generic.DefaultPolicy())
	result := p.Summarize(ledgerOf(3, "100", "100", "25"), dec("5000"), 50, 60)

	assertDecimal(t, "800", result.MonthlyEPFTotal, "monthly epf")
	assertDecimal(t, "100", result.MonthlyETFTotal, "monthly etf")
	assert.Equal(t, 120, result.MonthsToRetirement)
	assertDecimal(t, "96600", result.ProjectedEPFBalance, "projected epf")
	assertDecimal(t, "12075", result.ProjectedETFBalance, "projected etf")
}

func TestSummarize_PastRetirementClampsMonths(t *testing.T) {
	p := contribution.NewProjector(generic.DefaultPolicy())
	result := p.Summarize(ledgerOf(1, "10", "10", "5"), dec("5000"), 65, 60)

	assert.Equal(t, 0, result.MonthsToRetirement)
	assertDecimal(t, "20", result.ProjectedEPFBalance, "projected epf")
	assertDecimal(t, "5", result.ProjectedETFBalance, "projected etf")
}

func TestSummarize_EmptyLedger(t *testing.T) {
	p := contribution.NewProjector(generic.DefaultPolicy())
	result := p.Summarize(generic.ContributionLedger{}, dec("1000"), 59, 60)

	assert.True(t, result.EPFBalance.IsZero())
	assert.True(t, result.ETFBalance.IsZero())
	assertDecimal(t, "1920", result.ProjectedEPFBalance, "projected epf")
	assertDecimal(t, "240", result.ProjectedETFBalance, "projected etf")
}

func TestSummarize_UsesInjectedRates(t *testing.T) {
	// GIVEN: A policy with 3% employee / 5% employer EPF
	policy := generic.DefaultPolicy()
	policy.Contributions.EPFEmployeeRate = dec("0.03")
	policy.Contributions.EPFEmployerRate = dec("0.05")

	result := contribution.NewProjector(policy).Summarize(generic.ContributionLedger{}, dec("1000"), 30, 31)

	assertDecimal(t, "80", result.MonthlyEPFTotal, "monthly epf")
	assertDecimal(t, "960", result.ProjectedEPFBalance, "projected epf")
}

func TestSummarize_Idempotent(t *testing.T) {
	p := contribution.NewProjector(generic.DefaultPolicy())
	ledger := ledgerOf(12, "400", "400", "100")

	assert.Equal(t,
		p.Summarize(ledger, dec("5000"), 40, 60),
		p.Summarize(ledger, dec("5000"), 40, 60),
	)
}

func TestMonthlyContribution(t *testing.T) {
	split := contribution.NewProjector(generic.DefaultPolicy()).MonthlyContribution(dec("3333.33"))

	assertDecimal(t, "266.67", split.EPFEmployee, "epf employee")
	assertDecimal(t, "266.67", split.EPFEmployer, "epf employer")
	assertDecimal(t, "66.67", split.ETF, "etf")
}

func TestRetirementDate(t *testing.T) {
	got := contribution.RetirementDate(generic.NewTimePoint(1970, time.May, 20), 60)
	assert.Equal(t, generic.NewTimePoint(2030, time.May, 20), got)
}

func TestYearToDate_FiscalYearFromApril(t *testing.T) {
	// GIVEN: January-December 2025 in the ledger, fiscal year starting April
	p := contribution.NewProjector(generic.DefaultPolicy())
	ledger := ledgerOf(12, "100", "100", "25")

	// WHEN: totals are taken as of 2025-06-15
	ytd := p.YearToDate(ledger, generic.NewTimePoint(2025, time.June, 15))

	// THEN: April through December count (9 months)
	assert.Equal(t, generic.NewTimePoint(2025, time.April, 1), ytd.Period.Start)
	assert.Equal(t, generic.NewTimePoint(2026, time.March, 31), ytd.Period.End)
	assertDecimal(t, "1800", ytd.EPF, "ytd epf")
	assertDecimal(t, "225", ytd.ETF, "ytd etf")
}

func TestYearToDate_BeforeFiscalStartUsesPreviousYear(t *testing.T) {
	p := contribution.NewProjector(generic.DefaultPolicy())
	ledger := ledgerOf(12, "100", "100", "25")

	ytd := p.YearToDate(ledger, generic.NewTimePoint(2025, time.February, 10))

	// 2024-04-01 .. 2025-03-31 holds January-March 2025
	assert.Equal(t, generic.NewTimePoint(2024, time.April, 1), ytd.Period.Start)
	assertDecimal(t, "600", ytd.EPF, "ytd epf")
}
