package compensation

import (
	"github.com/shopspring/decimal"
	"github.com/warp/compensation-engine/generic"
)

// ComputeOvertime prices an overtime claim.
//
//	rate   = round2(hourlyRate x multiplier(category))
//	amount = round2(hours x hourlyRate x multiplier(category))
//
// Amount is priced from the unrounded rate.
func (c *Calculator) ComputeOvertime(hours, hourlyRate decimal.Decimal, category OvertimeCategory) (OvertimeResult, error) {
	if !hours.IsPositive() {
		return OvertimeResult{}, &generic.ValidationError{Field: "hours", Value: hours.String(), Reason: "must be greater than zero"}
	}
	if !hourlyRate.IsPositive() {
		return OvertimeResult{}, &generic.ValidationError{Field: "hourly_rate", Value: hourlyRate.String(), Reason: "must be greater than zero"}
	}

	effective := hourlyRate.Mul(c.Multiplier(category))
	return OvertimeResult{
		Hours:    hours,
		Category: category,
		Rate:     generic.Round2(effective),
		Amount:   generic.Round2(hours.Mul(effective)),
	}, nil
}

// ComputeOvertimeFromSalary derives the hourly rate from an annual salary and
// prices the claim with it.
func (c *Calculator) ComputeOvertimeFromSalary(hours, annualSalary decimal.Decimal, category OvertimeCategory) (OvertimeResult, error) {
	return c.ComputeOvertime(hours, c.HourlyRate(annualSalary), category)
}

// Multiplier returns the pay multiplier for an overtime category.
func (c *Calculator) Multiplier(category OvertimeCategory) decimal.Decimal {
	o := c.policy.Overtime
	switch category {
	case OvertimeRegular:
		return o.Regular
	case OvertimeWeekend:
		return o.Weekend
	case OvertimeHoliday:
		return o.Holiday
	case OvertimeNight:
		return o.Night
	default:
		return o.Default
	}
}

// HourlyRate converts an annual salary into an hourly rate, rounded to cents.
func (c *Calculator) HourlyRate(annualSalary decimal.Decimal) decimal.Decimal {
	return generic.Round2(annualSalary.Div(c.policy.StandardAnnualWorkHours))
}
