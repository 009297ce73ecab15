package compensation

import (
	"github.com/shopspring/decimal"
	"github.com/warp/compensation-engine/generic"
)

// ComputeBonus returns the bonus for a base salary. Unknown bonus types pay 0.
// The amount is not rounded; display code rounds.
func (c *Calculator) ComputeBonus(baseSalary decimal.Decimal, tier PerformanceTier, bonusType BonusType) decimal.Decimal {
	rate := c.bonusRate(tier, bonusType)
	return generic.NonNegative(baseSalary.Mul(rate))
}

func (c *Calculator) bonusRate(tier PerformanceTier, bonusType BonusType) decimal.Decimal {
	b := c.policy.Bonus
	switch bonusType {
	case BonusPerformance:
		switch tier {
		case PerformanceExcellent:
			return b.PerformanceExcellentRate
		case PerformanceGood:
			return b.PerformanceGoodRate
		default:
			return b.PerformanceOtherRate
		}
	case BonusFestival:
		return b.FestivalRate
	case BonusAnnual:
		return b.AnnualRate
	default:
		return decimal.Zero
	}
}
