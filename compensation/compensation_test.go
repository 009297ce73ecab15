package compensation_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/compensation-engine/compensation"
	"github.com/warp/compensation-engine/generic"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal { return generic.MustParseDecimal(s) }

func date(year int, month time.Month, day int) generic.TimePoint {
	return generic.NewTimePoint(year, month, day)
}

func newCalculator() *compensation.Calculator {
	return compensation.NewCalculator(generic.DefaultPolicy())
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

// =============================================================================
// BONUS
// =============================================================================

func TestComputeBonus_Table(t *testing.T) {
	tests := []struct {
		name      string
		tier      compensation.PerformanceTier
		bonusType compensation.BonusType
		want      string
	}{
		{"performance excellent", compensation.PerformanceExcellent, compensation.BonusPerformance, "5000"},
		{"performance good", compensation.PerformanceGood, compensation.BonusPerformance, "3500"},
		{"performance other", compensation.PerformanceOther, compensation.BonusPerformance, "2500"},
		{"performance unrated", "", compensation.BonusPerformance, "2500"},
		{"festival ignores tier", compensation.PerformanceExcellent, compensation.BonusFestival, "4000"},
		{"annual ignores tier", compensation.PerformanceOther, compensation.BonusAnnual, "7500"},
		{"unknown type", compensation.PerformanceExcellent, "unknown", "0"},
	}

	c := newCalculator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.ComputeBonus(dec("50000"), tt.tier, tt.bonusType)
			assertDecimal(t, tt.want, got)
		})
	}
}

func TestComputeBonus_NeverNegative(t *testing.T) {
	got := newCalculator().ComputeBonus(dec("-1000"), compensation.PerformanceExcellent, compensation.BonusAnnual)
	assert.True(t, got.IsZero())
}

func TestComputeBonus_NotRounded(t *testing.T) {
	// 12345.67 x 0.07 = 864.1969
	got := newCalculator().ComputeBonus(dec("12345.67"), compensation.PerformanceGood, compensation.BonusPerformance)
	assertDecimal(t, "864.1969", got)
}

// =============================================================================
// OVERTIME
// =============================================================================

func TestComputeOvertime_Weekend(t *testing.T) {
	// GIVEN: 5 hours at 20/hour on a weekend (2.0x)
	// THEN: Effective rate 40.00, amount 200.00

	result, err := newCalculator().ComputeOvertime(dec("5"), dec("20"), compensation.OvertimeWeekend)

	require.NoError(t, err)
	assertDecimal(t, "5", result.Hours)
	assertDecimal(t, "40.00", result.Rate)
	assertDecimal(t, "200.00", result.Amount)
}

func TestComputeOvertime_Multipliers(t *testing.T) {
	tests := []struct {
		category compensation.OvertimeCategory
		rate     string
		amount   string
	}{
		{compensation.OvertimeRegular, "30", "150"},
		{compensation.OvertimeWeekend, "40", "200"},
		{compensation.OvertimeHoliday, "50", "250"},
		{compensation.OvertimeNight, "35", "175"},
		{"graveyard", "30", "150"},
	}

	c := newCalculator()
	for _, tt := range tests {
		result, err := c.ComputeOvertime(dec("5"), dec("20"), tt.category)
		require.NoError(t, err)
		assertDecimal(t, tt.rate, result.Rate, "category %s", tt.category)
		assertDecimal(t, tt.amount, result.Amount, "category %s", tt.category)
	}
}

func TestComputeOvertime_RoundsHalfAwayFromZero(t *testing.T) {
	// 13.33 x 1.75 = 23.3275 -> 23.33; 2.5 x 23.3275 = 58.31875 -> 58.32

	result, err := newCalculator().ComputeOvertime(dec("2.5"), dec("13.33"), compensation.OvertimeNight)

	require.NoError(t, err)
	assertDecimal(t, "23.33", result.Rate)
	assertDecimal(t, "58.32", result.Amount)
}

func TestComputeOvertime_AmountUsesUnroundedRate(t *testing.T) {
	// GIVEN: 10.003 x 1.5 = 15.0045, shown as 15.00
	// WHEN: 100 hours are priced
	// THEN: the amount keeps the fraction the rounded rate drops (1500.45, not 1500)

	result, err := newCalculator().ComputeOvertime(dec("100"), dec("10.003"), compensation.OvertimeRegular)

	require.NoError(t, err)
	assertDecimal(t, "15", result.Rate)
	assertDecimal(t, "1500.45", result.Amount)
}

func TestComputeOvertime_RejectsNonPositive(t *testing.T) {
	tests := []struct {
		name  string
		hours string
		rate  string
		field string
	}{
		{"zero hours", "0", "20", "hours"},
		{"negative hours", "-1", "20", "hours"},
		{"zero rate", "5", "0", "hourly_rate"},
		{"negative rate", "5", "-20", "hourly_rate"},
	}

	c := newCalculator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.ComputeOvertime(dec(tt.hours), dec(tt.rate), compensation.OvertimeRegular)

			require.Error(t, err)
			assert.ErrorIs(t, err, generic.ErrInvalidInput)
			var vErr *generic.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestComputeOvertimeFromSalary(t *testing.T) {
	// GIVEN: 41600 annual / 2080 hours = 20.00/hour
	// WHEN: 5 weekend hours
	// THEN: Same result as an explicit 20/hour claim

	c := newCalculator()
	assertDecimal(t, "20", c.HourlyRate(dec("41600")))

	result, err := c.ComputeOvertimeFromSalary(dec("5"), dec("41600"), compensation.OvertimeWeekend)
	require.NoError(t, err)
	assertDecimal(t, "40", result.Rate)
	assertDecimal(t, "200", result.Amount)

	_, err = c.ComputeOvertimeFromSalary(dec("5"), decimal.Zero, compensation.OvertimeWeekend)
	assert.ErrorIs(t, err, generic.ErrInvalidInput, "zero salary yields a zero rate")
}

func TestComputeOvertime_Idempotent(t *testing.T) {
	c := newCalculator()
	first, err1 := c.ComputeOvertime(dec("7.5"), dec("18.40"), compensation.OvertimeHoliday)
	second, err2 := c.ComputeOvertime(dec("7.5"), dec("18.40"), compensation.OvertimeHoliday)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
}

func TestNormalizeOvertimeCategory(t *testing.T) {
	assert.Equal(t, compensation.OvertimeNight, compensation.NormalizeOvertimeCategory("Night Shift"))
	assert.Equal(t, compensation.OvertimeNight, compensation.NormalizeOvertimeCategory("night-shift"))
	assert.Equal(t, compensation.OvertimeWeekend, compensation.NormalizeOvertimeCategory(" WEEKEND "))
	assert.Equal(t, compensation.OvertimeHoliday, compensation.NormalizeOvertimeCategory("public holiday"))
	assert.Equal(t, compensation.OvertimeCategory("other"), compensation.NormalizeOvertimeCategory("Other"))
}

// =============================================================================
// INCREMENT CYCLE
// =============================================================================

func TestComputeIncrementProgress_MidCycle(t *testing.T) {
	progress := newCalculator().ComputeIncrementProgress(
		date(2025, time.January, 15),
		date(2026, time.January, 15),
		date(2025, time.July, 15),
	)

	assert.Equal(t, 6, progress.MonthsToNextReview)
	assert.InDelta(t, 50.0, progress.ReviewProgressPercent, 1e-9)
}

func TestComputeIncrementProgress_OverdueNotClamped(t *testing.T) {
	// GIVEN: Review was due 2026-01-15
	// WHEN: Checked on 2026-04-20
	// THEN: -3 months to review, 125% progress

	progress := newCalculator().ComputeIncrementProgress(
		date(2025, time.January, 15),
		date(2026, time.January, 15),
		date(2026, time.April, 20),
	)

	assert.Equal(t, -3, progress.MonthsToNextReview)
	assert.InDelta(t, 125.0, progress.ReviewProgressPercent, 1e-9)
}

func TestComputeIncrementProgress_PartialMonthsTruncated(t *testing.T) {
	progress := newCalculator().ComputeIncrementProgress(
		date(2025, time.January, 15),
		date(2026, time.January, 15),
		date(2025, time.April, 14),
	)

	assert.Equal(t, 9, progress.MonthsToNextReview, "Apr 14 -> Jan 15 is 9 full months")
	assert.InDelta(t, 2.0/12*100, progress.ReviewProgressPercent, 1e-9, "Jan 15 -> Apr 14 is 2 full months")
}

func TestProgress_DerivesMissingNextReview(t *testing.T) {
	c := newCalculator()
	state := compensation.IncrementCycleState{
		CurrentSalary:     dec("50000"),
		LastIncrementDate: date(2025, time.March, 1),
	}

	progress := c.Progress(state, date(2025, time.December, 1))

	assert.Equal(t, 3, progress.MonthsToNextReview)
	assert.InDelta(t, 75.0, progress.ReviewProgressPercent, 1e-9)
}

func TestProjectIncrement(t *testing.T) {
	projection, err := newCalculator().ProjectIncrement(dec("50000"), dec("5"), date(2025, time.June, 1))

	require.NoError(t, err)
	assertDecimal(t, "2500", projection.IncrementAmount)
	assertDecimal(t, "52500", projection.NewSalary)
	assertDecimal(t, "50000", projection.PreviousSalary)
	assert.Equal(t, date(2026, time.June, 1), projection.NextReviewDate)

	_, err = newCalculator().ProjectIncrement(dec("50000"), dec("-1"), date(2025, time.June, 1))
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}
