// Package contract turns a fixed-term contract definition into an itemised
// gross/net breakdown.
package contract

import (
	"github.com/shopspring/decimal"

	"github.com/csg33k/paycalc/internal/domain"
	"github.com/csg33k/paycalc/internal/tax"
)

// Standard conversion factors.
var (
	weeksPerYear  = decimal.NewFromInt(52)
	monthsPerYear = decimal.NewFromInt(12)
	hoursPerDay   = decimal.NewFromInt(8)
	hoursPerWeek  = decimal.NewFromInt(40)
	hoursPerMonth = domain.Dollars("173.33")
	hundred       = decimal.NewFromInt(100)

	defaultOvertimeThreshold  = 40.0
	defaultOvertimeMultiplier = domain.Dollars("1.5")
)

// Engine is stateless; one instance may serve any number of goroutines.
type Engine struct {
	tax *tax.Calculator
}

func New(calc *tax.Calculator) *Engine {
	return &Engine{tax: calc}
}

// normalized is a validated input with durations resolved.
type normalized struct {
	in             domain.ContractInput
	rate           decimal.Decimal
	weeks          decimal.Decimal
	months         decimal.Decimal
	hoursPerWeek   decimal.Decimal
	status         domain.FilingStatus
	classification domain.Classification
}

// Calculate validates in and computes the contract's pay and tax.
//
// Taxes are computed on the annualised taxable gross (gross / weeks * 52)
// and the resulting annual liability is prorated back to the contract's
// length, so short contracts are taxed at their annualised marginal rate.
func (e *Engine) Calculate(in domain.ContractInput) (*domain.ContractResult, error) {
	n, err := e.validate(in)
	if err != nil {
		return nil, err
	}
	in = n.in

	breakdown := n.pay()
	gross := breakdown.Regular.Add(breakdown.Overtime).Add(breakdown.Premiums).
		Add(breakdown.Stipends).Add(breakdown.Bonuses)
	taxable := gross
	if in.Stipends != nil && in.Stipends.TaxFree {
		taxable = taxable.Sub(breakdown.Stipends)
	}

	taxes, err := e.taxes(n, taxable)
	if err != nil {
		return nil, err
	}
	net := gross.Sub(taxes.Total)

	expenses := decimal.Zero
	if in.Expenses != nil {
		expenses = domain.Cents(in.Expenses.Total())
	}
	benefits := decimal.Zero
	if in.Benefits != nil {
		benefits = domain.Cents(in.Benefits.Monthly().Mul(n.months))
	}

	totalHours := n.hoursPerWeek.Mul(n.weeks)
	hourly := domain.SafeDiv(gross, totalHours)

	annual := gross.Mul(weeksPerYear).Div(n.weeks)
	if in.Type == domain.MonthlyContract {
		annual = gross.Mul(monthsPerYear).Div(n.months)
	}

	return &domain.ContractResult{
		GrossPay:      gross,
		TaxableGross:  taxable,
		Breakdown:     breakdown,
		TotalExpenses: expenses,
		BenefitsValue: benefits,
		Taxes:         taxes,
		NetPay:        net,
		Rates: domain.DerivedRates{
			Hourly:    domain.Cents(hourly),
			Daily:     domain.Cents(hourly.Mul(hoursPerDay)),
			Weekly:    domain.Cents(gross.Div(n.weeks)),
			Monthly:   domain.Cents(hourly.Mul(hoursPerMonth)),
			Effective: domain.Cents(domain.SafeDiv(gross.Add(benefits), totalHours)),
			NetHourly: domain.Cents(domain.SafeDiv(net.Sub(expenses), totalHours)),
		},
		AnnualEquivalent: domain.Cents(annual),
		EffectiveTaxRate: domain.Cents(domain.SafeDiv(taxes.Total.Mul(hundred), gross)),
		TotalHours:       totalHours.Round(2),
		DurationWeeks:    n.weeks.Round(4),
		NetPerWeek:       domain.Cents(net.Div(n.weeks)),
	}, nil
}

// pay builds the gross breakdown over the whole contract.
func (n *normalized) pay() domain.PayBreakdown {
	in := n.in
	var b domain.PayBreakdown

	switch in.Type {
	case domain.HourlyContract:
		hours := n.hoursPerWeek
		regularHours, overtimeHours := hours, decimal.Zero
		if in.Overtime != nil {
			threshold := decimal.NewFromFloat(defaultOvertimeThreshold)
			if in.Overtime.Threshold > 0 {
				threshold = decimal.NewFromFloat(in.Overtime.Threshold)
			}
			multiplier := defaultOvertimeMultiplier
			if in.Overtime.Multiplier.IsPositive() {
				multiplier = in.Overtime.Multiplier
			}
			if hours.GreaterThan(threshold) {
				regularHours, overtimeHours = threshold, hours.Sub(threshold)
			}
			b.Overtime = domain.Cents(n.rate.Mul(multiplier).Mul(overtimeHours).Mul(n.weeks))
		}
		b.Regular = domain.Cents(n.rate.Mul(regularHours).Mul(n.weeks))
	case domain.DailyContract:
		b.Regular = domain.Cents(n.rate.Mul(decimal.NewFromFloat(in.DaysPerWeek)).Mul(n.weeks))
	case domain.MonthlyContract:
		b.Regular = domain.Cents(n.rate.Mul(n.months))
	}

	if p := in.Premiums; p != nil {
		weekly := p.WeekendRate.Mul(decimal.NewFromFloat(p.WeekendHoursPerWeek)).
			Add(p.HolidayRate.Mul(decimal.NewFromFloat(p.HolidayHoursPerWeek))).
			Add(p.OnCallStipend.Mul(decimal.NewFromFloat(p.OnCallShiftsPerWeek))).
			Add(p.CallbackRate.Mul(decimal.NewFromFloat(p.CallbackHoursPerWeek)))
		b.Premiums = domain.Cents(weekly.Mul(n.weeks))
	}
	if s := in.Stipends; s != nil {
		b.Stipends = domain.Cents(s.Weekly().Mul(n.weeks))
	}
	if bo := in.Bonuses; bo != nil {
		b.Bonuses = domain.Cents(bo.SignOn.Add(bo.Completion))
	}
	return b
}

func (e *Engine) taxes(n *normalized, taxable decimal.Decimal) (domain.ContractTaxes, error) {
	annual := taxable.Mul(weeksPerYear).Div(n.weeks)
	loc := n.in.Location

	federalBase := annual
	var payroll decimal.Decimal
	if n.classification == domain.Contractor {
		se, err := e.tax.SelfEmploymentTax(annual, n.status)
		if err != nil {
			return domain.ContractTaxes{}, err
		}
		payroll = se.Total
		federalBase = domain.MaxZero(annual.Sub(se.DeductiblePortion))
	} else {
		fica, err := e.tax.FICA(annual, n.status)
		if err != nil {
			return domain.ContractTaxes{}, err
		}
		payroll = fica.Total
	}

	federal, err := e.tax.FederalTax(federalBase, n.status)
	if err != nil {
		return domain.ContractTaxes{}, err
	}
	state, err := e.tax.StateTax(annual, loc.State, n.status)
	if err != nil {
		return domain.ContractTaxes{}, err
	}
	local, err := e.tax.LocalTax(annual, loc.State, loc.City)
	if err != nil {
		return domain.ContractTaxes{}, err
	}

	prorate := func(annualTax decimal.Decimal) decimal.Decimal {
		return domain.Cents(annualTax.Mul(n.weeks).Div(weeksPerYear))
	}
	t := domain.ContractTaxes{
		Federal: prorate(federal),
		State:   prorate(state),
		Local:   prorate(local),
		FICA:    prorate(payroll),
	}
	t.Total = t.Federal.Add(t.State).Add(t.Local).Add(t.FICA)
	return t, nil
}
