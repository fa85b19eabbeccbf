// Package paycheck computes per-period take-home pay for a salaried worker.
package paycheck

import (
	"github.com/shopspring/decimal"

	"github.com/csg33k/paycalc/internal/domain"
	"github.com/csg33k/paycalc/internal/tax"
)

var (
	hoursPerYear              = decimal.NewFromInt(2080)
	hundred                   = decimal.NewFromInt(100)
	defaultOvertimeMultiplier = domain.Dollars("1.5")
)

// Engine is stateless and safe for concurrent use.
type Engine struct {
	tax *tax.Calculator
}

func New(calc *tax.Calculator) *Engine {
	return &Engine{tax: calc}
}

// Calculate returns one pay period's gross, taxes, deductions and net.
//
// Taxes are figured on the annualised taxable income and divided back to
// the period. Allowances reduce only the federal withholding base.
func (e *Engine) Calculate(in domain.PaycheckInput) (*domain.PaycheckResult, error) {
	status, err := e.validate(in)
	if err != nil {
		return nil, err
	}
	periodsPerYear := in.PayPeriod.PeriodsPerYear()
	periods := in.PayPeriod.Periods()

	regular := domain.Cents(in.GrossSalary.Div(periods))
	overtime := decimal.Zero
	if ot := in.Overtime; ot != nil && ot.Hours > 0 {
		rate := ot.HourlyRate
		if !rate.IsPositive() {
			rate = in.GrossSalary.Div(hoursPerYear)
		}
		mult := defaultOvertimeMultiplier
		if ot.Multiplier.IsPositive() {
			mult = ot.Multiplier
		}
		overtime = domain.Cents(rate.Mul(mult).Mul(decimal.NewFromFloat(ot.Hours)))
	}
	gross := regular.Add(overtime)

	pre := e.capPreTax(in, periods)
	preTotal := pre.Total()
	postTotal := in.PostTax.Total()
	if preTotal.Add(postTotal).GreaterThan(gross) {
		return nil, domain.Invalid("deductions", domain.ErrDeductionsExceedGross,
			"deductions of %s exceed gross pay of %s", preTotal.Add(postTotal).StringFixed(2), gross.StringFixed(2))
	}

	taxable := domain.MaxZero(gross.Sub(preTotal))
	annual := taxable.Mul(periods)

	taxes, err := e.taxes(in, status, annual, periods)
	if err != nil {
		return nil, err
	}
	label, err := e.tax.BracketLabel(annual, status)
	if err != nil {
		return nil, err
	}

	net := gross.Sub(taxes.Total).Sub(preTotal).Sub(postTotal)
	res := &domain.PaycheckResult{
		GrossPay:      gross,
		RegularPay:    regular,
		OvertimePay:   overtime,
		TaxableIncome: taxable,
		Taxes:         taxes,
		Deductions: domain.PaycheckDeductions{
			PreTax:       pre,
			PreTaxTotal:  preTotal,
			PostTax:      in.PostTax,
			PostTaxTotal: postTotal,
		},
		NetPay:           net,
		EffectiveTaxRate: domain.Cents(domain.SafeDiv(taxes.Total.Mul(hundred), gross)),
		TaxBracket:       label,
		PeriodsPerYear:   periodsPerYear,
		AnnualProjection: domain.AnnualProjection{
			Gross:             gross.Mul(periods),
			TaxableIncome:     annual,
			Federal:           taxes.Federal.Mul(periods),
			State:             taxes.State.Mul(periods),
			Local:             taxes.Local.Mul(periods),
			FICA:              taxes.FICA.Mul(periods),
			TotalTaxes:        taxes.Total.Mul(periods),
			PreTaxDeductions:  preTotal.Mul(periods),
			PostTaxDeductions: postTotal.Mul(periods),
			NetPay:            net.Mul(periods),
		},
	}
	if in.YTD != nil {
		res.YTD = addPeriod(*in.YTD, res)
	}
	return res, nil
}

// capPreTax limits each capped deduction to its annual limit divided across
// the year's periods. Insurance premiums are not capped.
func (e *Engine) capPreTax(in domain.PaycheckInput, periods decimal.Decimal) domain.PreTaxDeductions {
	limits := e.tax.Tables().Limits
	retirement := limits.Retirement401k
	if in.Age50Plus {
		retirement = retirement.Add(limits.CatchUp401k)
	}
	hsa := limits.HSASelf
	if in.FamilyHSA {
		hsa = limits.HSAFamily
	}
	capAt := func(amount, annualLimit decimal.Decimal) decimal.Decimal {
		return decimal.Min(amount, domain.Cents(annualLimit.Div(periods)))
	}

	out := in.PreTax
	out.Retirement401k = capAt(in.PreTax.Retirement401k, retirement)
	out.HSA = capAt(in.PreTax.HSA, hsa)
	out.FSA = capAt(in.PreTax.FSA, limits.FSA)
	return out
}

func (e *Engine) taxes(in domain.PaycheckInput, status domain.FilingStatus, annual, periods decimal.Decimal) (domain.PaycheckTaxes, error) {
	allowances := e.tax.Tables().AllowanceAmount.Mul(decimal.NewFromInt(int64(in.Allowances)))
	federal, err := e.tax.FederalTax(domain.MaxZero(annual.Sub(allowances)), status)
	if err != nil {
		return domain.PaycheckTaxes{}, err
	}
	state, err := e.tax.StateTaxWithDependents(annual, in.State, status, in.Dependents)
	if err != nil {
		return domain.PaycheckTaxes{}, err
	}
	local, err := e.tax.LocalTax(annual, in.State, in.City)
	if err != nil {
		return domain.PaycheckTaxes{}, err
	}
	fica, err := e.tax.FICA(annual, status)
	if err != nil {
		return domain.PaycheckTaxes{}, err
	}

	per := func(v decimal.Decimal) decimal.Decimal { return domain.Cents(v.Div(periods)) }
	t := domain.PaycheckTaxes{
		Federal:            per(federal),
		State:              per(state),
		Local:              per(local),
		SocialSecurity:     per(fica.SocialSecurity),
		Medicare:           per(fica.Medicare),
		AdditionalMedicare: per(fica.AdditionalMedicare),
	}
	t.FICA = t.SocialSecurity.Add(t.Medicare).Add(t.AdditionalMedicare)
	t.Total = t.Federal.Add(t.State).Add(t.Local).Add(t.FICA)
	return t, nil
}

// addPeriod returns ytd plus this period's figures.
func addPeriod(ytd domain.YTDTotals, r *domain.PaycheckResult) *domain.YTDTotals {
	return &domain.YTDTotals{
		Gross:              ytd.Gross.Add(r.GrossPay),
		Federal:            ytd.Federal.Add(r.Taxes.Federal),
		State:              ytd.State.Add(r.Taxes.State),
		Local:              ytd.Local.Add(r.Taxes.Local),
		SocialSecurity:     ytd.SocialSecurity.Add(r.Taxes.SocialSecurity),
		Medicare:           ytd.Medicare.Add(r.Taxes.Medicare),
		AdditionalMedicare: ytd.AdditionalMedicare.Add(r.Taxes.AdditionalMedicare),
		PreTaxDeductions:   ytd.PreTaxDeductions.Add(r.Deductions.PreTaxTotal),
		PostTaxDeductions:  ytd.PostTaxDeductions.Add(r.Deductions.PostTaxTotal),
		NetPay:             ytd.NetPay.Add(r.NetPay),
	}
}

func (e *Engine) validate(in domain.PaycheckInput) (domain.FilingStatus, error) {
	if !in.GrossSalary.IsPositive() {
		return "", domain.Invalid("grossSalary", domain.ErrInvalidSalary, "gross salary must be greater than zero")
	}
	if in.PayPeriod.PeriodsPerYear() == 0 {
		return "", domain.Invalid("payPeriod", domain.ErrInvalidPayPeriod,
			"pay period %q is not one of weekly, biweekly, monthly, annual", in.PayPeriod)
	}
	status, err := domain.ParseFilingStatus(string(in.FilingStatus))
	if err != nil {
		return "", err
	}
	if _, err := e.tax.State(in.State); err != nil {
		return "", err
	}
	if in.Allowances < 0 {
		return "", domain.Invalid("allowances", domain.ErrInvalidAmount, "allowances cannot be negative")
	}
	if in.Dependents < 0 {
		return "", domain.Invalid("dependents", domain.ErrInvalidAmount, "dependents cannot be negative")
	}
	if ot := in.Overtime; ot != nil {
		if ot.Hours < 0 || ot.Hours > 168 {
			return "", domain.Invalid("overtime.hours", domain.ErrInvalidHours, "overtime hours must be in [0, 168], got %g", ot.Hours)
		}
		if ot.HourlyRate.IsNegative() || ot.Multiplier.IsNegative() {
			return "", domain.Invalid("overtime", domain.ErrInvalidRate, "overtime rate and multiplier cannot be negative")
		}
	}

	p, q := in.PreTax, in.PostTax
	amounts := []struct {
		field string
		v     decimal.Decimal
	}{
		{"preTax.retirement401k", p.Retirement401k},
		{"preTax.healthInsurance", p.HealthInsurance},
		{"preTax.dentalInsurance", p.DentalInsurance},
		{"preTax.visionInsurance", p.VisionInsurance},
		{"preTax.fsa", p.FSA},
		{"preTax.hsa", p.HSA},
		{"postTax.roth401k", q.Roth401k},
		{"postTax.lifeInsurance", q.LifeInsurance},
		{"postTax.disability", q.Disability},
		{"postTax.unionDues", q.UnionDues},
		{"postTax.garnishments", q.Garnishments},
		{"postTax.other", q.Other},
	}
	for _, a := range amounts {
		if a.v.IsNegative() {
			return "", domain.Invalid(a.field, domain.ErrInvalidAmount, "%s cannot be negative", a.field)
		}
	}
	return status, nil
}
