// Package compare ranks calculated contracts and paychecks, finds the best
// match for a set of constraints, and works out break-even points between
// a current and a candidate job.
package compare

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/csg33k/paycalc/internal/domain"
)

var (
	weeksPerYear = decimal.NewFromInt(52)
	hundred      = decimal.NewFromInt(100)
)

// Offer is the comparable summary of one calculated arrangement. Money
// figures cover the whole arrangement: the contract's duration, or one
// year for a paycheck.
type Offer struct {
	Index            int                    `json:"index"`
	Label            string                 `json:"label"`
	Type             domain.CalculationType `json:"type"`
	Location         domain.Location        `json:"location"`
	Gross            decimal.Decimal        `json:"gross"`
	Net              decimal.Decimal        `json:"net"`
	Taxes            decimal.Decimal        `json:"taxes"`
	BenefitsValue    decimal.Decimal        `json:"benefitsValue"`
	Expenses         decimal.Decimal        `json:"expenses"`
	HourlyRate       decimal.Decimal        `json:"hourlyRate"` // effective, benefits included
	EffectiveTaxRate decimal.Decimal        `json:"effectiveTaxRate"`
	NetPerWeek       decimal.Decimal        `json:"netPerWeek"`
	DurationWeeks    decimal.Decimal        `json:"durationWeeks"`
	HoursPerWeek     decimal.Decimal        `json:"hoursPerWeek"`
}

// TotalValue is net pay plus the value of benefits.
func (o Offer) TotalValue() decimal.Decimal { return o.Net.Add(o.BenefitsValue) }

func (o Offer) HasBenefits() bool { return o.BenefitsValue.IsPositive() }

// FromContract summarises a calculated contract.
func FromContract(in domain.ContractInput, res *domain.ContractResult) Offer {
	hours := domain.SafeDiv(res.TotalHours, res.DurationWeeks)
	return Offer{
		Label:            contractLabel(in),
		Type:             domain.ContractCalculationType,
		Location:         in.Location,
		Gross:            res.GrossPay,
		Net:              res.NetPay,
		Taxes:            res.Taxes.Total,
		BenefitsValue:    res.BenefitsValue,
		Expenses:         res.TotalExpenses,
		HourlyRate:       res.Rates.Effective,
		EffectiveTaxRate: res.EffectiveTaxRate,
		NetPerWeek:       res.NetPerWeek,
		DurationWeeks:    res.DurationWeeks,
		HoursPerWeek:     hours.Round(2),
	}
}

// FromPaycheck summarises a paycheck over one year from its annual
// projection.
func FromPaycheck(in domain.PaycheckInput, res *domain.PaycheckResult) Offer {
	hours := decimal.NewFromInt(40)
	if in.Overtime != nil && in.Overtime.Hours > 0 {
		extra := decimal.NewFromFloat(in.Overtime.Hours).Mul(in.PayPeriod.Periods()).Div(weeksPerYear)
		hours = hours.Add(extra)
	}
	p := res.AnnualProjection
	return Offer{
		Label:            fmt.Sprintf("%s salary (%s)", domain.USD(in.GrossSalary), in.PayPeriod),
		Type:             domain.PaycheckCalculationType,
		Location:         domain.Location{State: in.State, City: in.City},
		Gross:            p.Gross,
		Net:              p.NetPay,
		Taxes:            p.TotalTaxes,
		HourlyRate:       domain.Cents(p.Gross.Div(hours.Mul(weeksPerYear))),
		EffectiveTaxRate: res.EffectiveTaxRate,
		NetPerWeek:       domain.Cents(p.NetPay.Div(weeksPerYear)),
		DurationWeeks:    weeksPerYear,
		HoursPerWeek:     hours.Round(2),
	}
}

func contractLabel(in domain.ContractInput) string {
	where := in.Location.State
	if in.Location.City != "" {
		where = in.Location.City + ", " + where
	}
	unit := map[domain.ContractType]string{
		domain.HourlyContract:  "hr",
		domain.DailyContract:   "day",
		domain.MonthlyContract: "mo",
	}[in.Type]
	if unit == "" {
		return where
	}
	return fmt.Sprintf("%s/%s in %s", domain.USD(in.Rate()), unit, where)
}
