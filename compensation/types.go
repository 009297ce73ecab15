/*
Package compensation computes bonuses, overtime pay and salary review timing.

PURPOSE:
  Pure monetary calculations over already-resolved compensation data:

    ComputeBonus             base salary x rate(bonus type, performance tier)
    ComputeOvertime          hours x hourly rate x multiplier(category)
    ComputeIncrementProgress months to next review, % of cycle elapsed
    HourlyRate               annual salary / standard annual work hours
    ProjectIncrement         salary after an increment, next review date

  All rates come from the injected generic.DecisionPolicy.

ERRORS:
  Overtime is the only calculation that rejects input: non-positive hours
  or hourly rate cannot describe a real overtime claim and return a
  *generic.ValidationError. Bonus and increment calculations never fail.

SEE ALSO:
  - generic/policy.go: BonusPolicy, OvertimePolicy
  - api/handlers.go: /api/compensation endpoints
*/
package compensation

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/compensation-engine/generic"
)

// =============================================================================
// ENUMS
// =============================================================================

type PerformanceTier string

const (
	PerformanceExcellent PerformanceTier = "Excellent"
	PerformanceGood      PerformanceTier = "Good"
	PerformanceOther     PerformanceTier = "Other"
)

type BonusType string

const (
	BonusPerformance BonusType = "performance"
	BonusFestival    BonusType = "festival"
	BonusAnnual      BonusType = "annual"
)

type OvertimeCategory string

const (
	OvertimeRegular OvertimeCategory = "regular"
	OvertimeWeekend OvertimeCategory = "weekend"
	OvertimeHoliday OvertimeCategory = "holiday"
	OvertimeNight   OvertimeCategory = "night"
)

// NormalizeOvertimeCategory maps the spellings used by timesheet imports onto
// the known categories. Unknown values are returned lower-cased and are paid
// at the default multiplier.
func NormalizeOvertimeCategory(s string) OvertimeCategory {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")

	switch normalized {
	case "regular", "normal", "weekday":
		return OvertimeRegular
	case "weekend", "saturday", "sunday":
		return OvertimeWeekend
	case "holiday", "public_holiday":
		return OvertimeHoliday
	case "night", "night_shift", "nightshift":
		return OvertimeNight
	}
	return OvertimeCategory(normalized)
}

// =============================================================================
// RESULTS
// =============================================================================

// OvertimeResult is a priced overtime claim. Rate and Amount are rounded to cents.
type OvertimeResult struct {
	Hours    decimal.Decimal
	Category OvertimeCategory
	Rate     decimal.Decimal // effective hourly rate after the multiplier
	Amount   decimal.Decimal
}

// IncrementProgress describes where an employee is in the review cycle.
// Neither field is clamped: a negative MonthsToNextReview and a progress
// above 100 both mean the review is overdue.
type IncrementProgress struct {
	MonthsToNextReview    int
	ReviewProgressPercent float64
}

// IncrementCycleState is the salary review state of one employee.
type IncrementCycleState struct {
	CurrentSalary     decimal.Decimal
	LastIncrementDate generic.TimePoint
	NextReviewDate    generic.TimePoint
}

// IncrementProjection is the salary after applying an increment.
type IncrementProjection struct {
	PreviousSalary  decimal.Decimal
	IncrementAmount decimal.Decimal
	NewSalary       decimal.Decimal
	NextReviewDate  generic.TimePoint
}

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculator performs compensation calculations under a fixed policy.
type Calculator struct {
	policy generic.DecisionPolicy
}

// NewCalculator creates a calculator bound to policy.
func NewCalculator(policy generic.DecisionPolicy) *Calculator {
	return &Calculator{policy: policy.Clone()}
}
