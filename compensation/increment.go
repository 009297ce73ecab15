package compensation

import (
	"github.com/shopspring/decimal"
	"github.com/warp/compensation-engine/generic"
)

// ComputeIncrementProgress reports review timing as of today.
//
//	monthsToNextReview    = full months from today to nextReview (negative if overdue)
//	reviewProgressPercent = full months since lastIncrement / cycle x 100
func (c *Calculator) ComputeIncrementProgress(lastIncrement, nextReview, today generic.TimePoint) IncrementProgress {
	elapsed := generic.MonthsBetween(lastIncrement, today)
	return IncrementProgress{
		MonthsToNextReview:    generic.MonthsBetween(today, nextReview),
		ReviewProgressPercent: float64(elapsed) / float64(c.policy.IncrementCycleMonths) * 100,
	}
}

// Progress is ComputeIncrementProgress over a stored cycle state. A missing
// next review date is one cycle after the last increment.
func (c *Calculator) Progress(state IncrementCycleState, today generic.TimePoint) IncrementProgress {
	next := state.NextReviewDate
	if next.IsZero() {
		next = c.NextReviewDate(state.LastIncrementDate)
	}
	return c.ComputeIncrementProgress(state.LastIncrementDate, next, today)
}

// NextReviewDate is one increment cycle after lastIncrement.
func (c *Calculator) NextReviewDate(lastIncrement generic.TimePoint) generic.TimePoint {
	return lastIncrement.AddMonths(c.policy.IncrementCycleMonths)
}

// ProjectIncrement applies an increment percentage (e.g. 5 for 5%) effective
// on the given date. Negative percentages are rejected.
func (c *Calculator) ProjectIncrement(currentSalary, percent decimal.Decimal, effective generic.TimePoint) (IncrementProjection, error) {
	if percent.IsNegative() {
		return IncrementProjection{}, &generic.ValidationError{Field: "increment_percent", Value: percent.String(), Reason: "must not be negative"}
	}

	increment := generic.Round2(currentSalary.Mul(percent).Div(generic.Hundred))
	return IncrementProjection{
		PreviousSalary:  currentSalary,
		IncrementAmount: increment,
		NewSalary:       currentSalary.Add(increment),
		NextReviewDate:  c.NextReviewDate(effective),
	}, nil
}
