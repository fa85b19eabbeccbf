package compare

import (
	"github.com/shopspring/decimal"

	"github.com/csg33k/paycalc/internal/domain"
)

// BreakEven reasons.
const (
	ReasonNonPositiveGain      = "non-positive gain"
	ReasonInsufficientDuration = "insufficient duration"
	ReasonPaysBack             = "gain exceeds switching cost"
)

type BreakEvenOptions struct {
	SwitchingCosts           decimal.Decimal `json:"switchingCosts"`
	WeeksLostDuringSwitching float64         `json:"weeksLostDuringSwitching"`
}

type BreakEvenResult struct {
	WeeklyDelta      decimal.Decimal  `json:"weeklyDelta"`
	OpportunityCost  decimal.Decimal  `json:"opportunityCost"`
	SwitchingCost    decimal.Decimal  `json:"switchingCost"`    // fixed costs plus opportunity cost
	WeeksToBreakEven *decimal.Decimal `json:"weeksToBreakEven"` // nil when the gain is not positive
	NetGain          decimal.Decimal  `json:"netGain"`          // over the candidate's duration
	WorthSwitching   bool             `json:"worthSwitching"`
	Reason           string           `json:"reason"`
}

// BreakEven works from per-week net pay so offers of different lengths
// compare fairly.
func BreakEven(current, candidate Offer, opts BreakEvenOptions) (*BreakEvenResult, error) {
	if opts.SwitchingCosts.IsNegative() {
		return nil, domain.Invalid("switchingCosts", domain.ErrInvalidAmount, "switching costs cannot be negative")
	}
	if opts.WeeksLostDuringSwitching < 0 {
		return nil, domain.Invalid("weeksLostDuringSwitching", domain.ErrInvalidDuration, "weeks lost cannot be negative")
	}

	delta := candidate.NetPerWeek.Sub(current.NetPerWeek)
	opportunity := domain.Cents(current.NetPerWeek.Mul(decimal.NewFromFloat(opts.WeeksLostDuringSwitching)))
	cost := opts.SwitchingCosts.Add(opportunity)

	r := &BreakEvenResult{
		WeeklyDelta:     delta,
		OpportunityCost: opportunity,
		SwitchingCost:   cost,
		NetGain:         domain.Cents(candidate.DurationWeeks.Mul(delta).Sub(cost)),
	}
	if !delta.IsPositive() {
		r.Reason = ReasonNonPositiveGain
		return r, nil
	}
	weeks := cost.Div(delta).Round(2)
	r.WeeksToBreakEven = &weeks
	if !r.NetGain.IsPositive() {
		r.Reason = ReasonInsufficientDuration
		return r, nil
	}
	r.WorthSwitching = true
	r.Reason = ReasonPaysBack
	return r, nil
}
