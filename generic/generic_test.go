package generic

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) TimePoint { return NewTimePoint(y, m, d) }

// =============================================================================
// CALENDAR ARITHMETIC
// =============================================================================

func TestMonthsBetween(t *testing.T) {
	tests := []struct {
		from, to TimePoint
		want     int
	}{
		{date(2025, 1, 15), date(2025, 3, 14), 1},
		{date(2025, 1, 15), date(2025, 3, 15), 2},
		{date(2025, 3, 15), date(2025, 1, 16), -1},
		{date(2025, 3, 15), date(2025, 1, 15), -2},
		{date(2024, 3, 1), date(2025, 6, 15), 15},
		{date(2025, 6, 15), date(2025, 6, 15), 0},
		{date(2023, 12, 31), date(2024, 1, 30), 0},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, MonthsBetween(tt.from, tt.to))
		})
	}
}

func TestYearsBetween(t *testing.T) {
	assert.Equal(t, 34, YearsBetween(date(1990, 6, 16), date(2025, 6, 15)))
	assert.Equal(t, 35, YearsBetween(date(1990, 6, 15), date(2025, 6, 15)))
}

func TestParseDate(t *testing.T) {
	tp, err := ParseDate("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, date(2025, 3, 10), tp)

	_, err = ParseDate("10/03/2025")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTimePoint_TextRoundTrip(t *testing.T) {
	var tp TimePoint
	require.NoError(t, tp.UnmarshalText([]byte("2024-02-29")))
	out, err := tp.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", string(out))

	require.NoError(t, tp.UnmarshalText(nil))
	assert.True(t, tp.IsZero())
}

// =============================================================================
// PERIODS
// =============================================================================

func TestPeriodFor(t *testing.T) {
	fiscal := PeriodConfig{Type: PeriodFiscalYear, FiscalYearStartMonth: time.April}

	p := fiscal.PeriodFor(date(2025, 3, 31))
	assert.Equal(t, date(2024, 4, 1), p.Start)
	assert.Equal(t, date(2025, 3, 31), p.End)

	p = fiscal.PeriodFor(date(2025, 4, 1))
	assert.Equal(t, date(2025, 4, 1), p.Start)
	assert.Equal(t, date(2024, 4, 1), p.PreviousPeriod().Start)
	assert.Equal(t, date(2025, 3, 31), p.PreviousPeriod().End)

	calendar := PeriodConfig{Type: PeriodCalendarYear}
	p = calendar.PeriodFor(date(2025, 7, 4))
	assert.Equal(t, date(2025, 1, 1), p.Start)
	assert.Equal(t, date(2025, 12, 31), p.End)
	assert.True(t, p.Contains(date(2025, 12, 31)))
	assert.False(t, p.Contains(date(2026, 1, 1)))
}

func TestLedgerTotals(t *testing.T) {
	ledger := ContributionLedger{Entries: []ContributionEntry{
		{Period: date(2025, 3, 1), EPFEmployee: decimal.NewFromInt(100), EPFEmployer: decimal.NewFromInt(100), ETF: decimal.NewFromInt(25)},
		{Period: date(2025, 4, 1), EPFEmployee: decimal.NewFromInt(100), EPFEmployer: decimal.NewFromInt(100), ETF: decimal.NewFromInt(25)},
	}}

	epf, etf := ledger.Totals(Period{Start: date(2025, 4, 1), End: date(2026, 3, 31)})

	assert.True(t, epf.Equal(decimal.NewFromInt(200)))
	assert.True(t, etf.Equal(decimal.NewFromInt(25)))
}

// =============================================================================
// PROFILE NORMALIZATION
// =============================================================================

func TestNormalize_MissingFieldsDefaultToZero(t *testing.T) {
	p := ProfileRecord{EmployeeID: "emp-1"}.Normalize(date(2025, 6, 15))

	assert.True(t, p.AnnualSalary.IsZero())
	assert.True(t, p.ExistingLoanBalance.IsZero())
	assert.Equal(t, 0, p.TenureMonths)
	assert.Equal(t, 0, p.CreditScore)
}

func TestNormalize_TenureSources(t *testing.T) {
	hire := date(2023, 1, 20)
	asOf := date(2025, 6, 15)

	derived := ProfileRecord{HireDate: &hire}.Normalize(asOf)
	assert.Equal(t, 28, derived.TenureMonths)

	explicit := 7
	overridden := ProfileRecord{HireDate: &hire, TenureMonths: &explicit}.Normalize(asOf)
	assert.Equal(t, 7, overridden.TenureMonths)

	future := date(2026, 1, 1)
	notStarted := ProfileRecord{HireDate: &future}.Normalize(asOf)
	assert.Equal(t, 0, notStarted.TenureMonths)
}

// =============================================================================
// POLICY & ERRORS
// =============================================================================

func TestDefaultPolicy_Valid(t *testing.T) {
	require.NoError(t, DefaultPolicy().Validate())
}

func TestPolicyClone_IsolatesTiers(t *testing.T) {
	base := DefaultPolicy()
	clone := base.Clone()
	clone.Eligibility.Tiers[0].MinScore = 95

	assert.Equal(t, 80, base.Eligibility.Tiers[0].MinScore)
}

func TestTierFor(t *testing.T) {
	e := DefaultPolicy().Eligibility
	assert.Equal(t, LevelHigh, e.TierFor(80).Level)
	assert.Equal(t, LevelMedium, e.TierFor(79).Level)
	assert.Equal(t, LevelMedium, e.TierFor(60).Level)
	assert.Equal(t, LevelLow, e.TierFor(59).Level)
	assert.Equal(t, LevelLow, e.TierFor(0).Level)
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, IsNotFound(EmployeeNotFound("x")))
	assert.True(t, IsNotFound(LoanTypeNotFound("x")))
	assert.ErrorIs(t, LoanTypeNotFound("x"), ErrLoanTypeNotFound)
	assert.NotErrorIs(t, LoanTypeNotFound("x"), ErrEmployeeNotFound)

	assert.True(t, IsClientError(&ValidationError{Field: "hours"}))
	assert.True(t, IsClientError(ErrDuplicateContribution))
	assert.False(t, IsClientError(EmployeeNotFound("x")))
}
