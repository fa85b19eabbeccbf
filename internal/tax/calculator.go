// Package tax computes federal, state, local and payroll taxes from an
// annual income figure. A Calculator is bound to one tax year's tables, has
// no mutable state, and is safe for concurrent use.
package tax

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/csg33k/paycalc/internal/domain"
	"github.com/csg33k/paycalc/internal/taxtables"
)

type Calculator struct {
	tables *taxtables.Year
}

// New binds a calculator to the given tables.
func New(tables *taxtables.Year) *Calculator {
	return &Calculator{tables: tables}
}

// NewForYear returns a calculator for year. When no table exists for year
// the default year is used and an error says so; the calculator is still
// usable.
func NewForYear(year int) (*Calculator, error) {
	if year == 0 {
		year = taxtables.DefaultYear
	}
	tables, exact := taxtables.ForYear(year)
	if !exact {
		return New(tables), fmt.Errorf("no tax tables for TY%d; using TY%d", year, taxtables.DefaultYear)
	}
	return New(tables), nil
}

func (c *Calculator) Year() int               { return c.tables.TaxYear }
func (c *Calculator) Tables() *taxtables.Year { return c.tables }

// State resolves a state code, failing with ErrUnknownState.
func (c *Calculator) State(code string) (domain.StateTaxInfo, error) {
	info, ok := c.tables.State(code)
	if !ok {
		return domain.StateTaxInfo{}, domain.Invalid("state", domain.ErrUnknownState, "unrecognised state code %q", code)
	}
	return info, nil
}

// FederalTax subtracts the standard deduction for status and applies the
// federal brackets marginally.
func (c *Calculator) FederalTax(taxableIncome decimal.Decimal, status domain.FilingStatus) (decimal.Decimal, error) {
	status, err := c.checkInputs(taxableIncome, status)
	if err != nil {
		return decimal.Zero, err
	}
	after := domain.MaxZero(taxableIncome.Sub(c.tables.StandardDeduction[status]))
	return domain.Cents(marginal(after, c.tables.Federal[status])), nil
}

// StateTax dispatches on the state's regime.
func (c *Calculator) StateTax(income decimal.Decimal, stateCode string, status domain.FilingStatus) (decimal.Decimal, error) {
	return c.StateTaxWithDependents(income, stateCode, status, 0)
}

// StateTaxWithDependents is StateTax with dependent exemptions applied in
// progressive states.
func (c *Calculator) StateTaxWithDependents(income decimal.Decimal, stateCode string, status domain.FilingStatus, dependents int) (decimal.Decimal, error) {
	status, err := c.checkInputs(income, status)
	if err != nil {
		return decimal.Zero, err
	}
	info, err := c.State(stateCode)
	if err != nil {
		return decimal.Zero, err
	}

	switch info.Regime {
	case domain.FlatTax:
		return domain.Cents(income.Mul(info.FlatRate)), nil
	case domain.Progressive:
		deduction := info.StandardDeduction.Add(info.PersonalExemption)
		ladder := info.Brackets
		if status == domain.MarriedJointly {
			deduction = deduction.Mul(decimal.NewFromInt(2))
			if info.JointBrackets != nil {
				ladder = info.JointBrackets
			}
		}
		if dependents > 0 {
			deduction = deduction.Add(info.DependentExemption.Mul(decimal.NewFromInt(int64(dependents))))
		}
		return domain.Cents(marginal(domain.MaxZero(income.Sub(deduction)), ladder)), nil
	}
	return decimal.Zero, nil
}

// LocalTax applies the city wage tax for state/city, falling back to the
// state's default local rate. Cities in states without local taxes owe 0.
func (c *Calculator) LocalTax(income decimal.Decimal, stateCode, city string) (decimal.Decimal, error) {
	if income.IsNegative() {
		return decimal.Zero, domain.Invalid("income", domain.ErrInvalidIncome, "income %s is negative", income)
	}
	info, err := c.State(stateCode)
	if err != nil {
		return decimal.Zero, err
	}
	if !info.HasLocalTax || city == "" {
		return decimal.Zero, nil
	}
	if l, ok := c.tables.Locality(stateCode, city); ok {
		if l.Brackets != nil {
			return domain.Cents(marginal(income, l.Brackets)), nil
		}
		return domain.Cents(income.Mul(l.Rate)), nil
	}
	return domain.Cents(income.Mul(info.LocalRate)), nil
}

// FICA returns the employee's Social Security and Medicare liability.
func (c *Calculator) FICA(income decimal.Decimal, status domain.FilingStatus) (domain.FICAResult, error) {
	status, err := c.checkInputs(income, status)
	if err != nil {
		return domain.FICAResult{}, err
	}
	return c.payroll(income, status, decimal.NewFromInt(1)), nil
}

// SelfEmploymentTax applies both halves of FICA to 92.35% of net earnings.
func (c *Calculator) SelfEmploymentTax(income decimal.Decimal, status domain.FilingStatus) (domain.SelfEmploymentResult, error) {
	status, err := c.checkInputs(income, status)
	if err != nil {
		return domain.SelfEmploymentResult{}, err
	}
	adjusted := domain.Cents(income.Mul(c.tables.SEEarningsFactor))
	p := c.payroll(adjusted, status, decimal.NewFromInt(2))
	return domain.SelfEmploymentResult{
		AdjustedIncome:     adjusted,
		SocialSecurity:     p.SocialSecurity,
		Medicare:           p.Medicare,
		AdditionalMedicare: p.AdditionalMedicare,
		Total:              p.Total,
		DeductiblePortion:  domain.Cents(p.Total.Div(decimal.NewFromInt(2))),
	}, nil
}

// payroll computes the capped Social Security, Medicare and additional
// Medicare components. share is 1 for an employee, 2 for self-employment.
func (c *Calculator) payroll(wages decimal.Decimal, status domain.FilingStatus, share decimal.Decimal) domain.FICAResult {
	t := c.tables
	ss := domain.Cents(decimal.Min(wages, t.SSWageBase).Mul(t.SSRate).Mul(share))
	med := domain.Cents(wages.Mul(t.MedicareRate).Mul(share))
	extra := domain.Cents(domain.MaxZero(wages.Sub(t.AdditionalMedicareFloor[status])).Mul(t.AdditionalMedicareRate))
	return domain.FICAResult{
		SocialSecurity:     ss,
		Medicare:           med,
		AdditionalMedicare: extra,
		Total:              ss.Add(med).Add(extra),
	}
}

// QuarterlyEstimates plans estimated payments for self-employment income.
// Federal tax is computed after deducting half the self-employment tax.
func (c *Calculator) QuarterlyEstimates(p domain.QuarterlyParams) (domain.QuarterlyEstimate, error) {
	if p.W2Withholding.IsNegative() {
		return domain.QuarterlyEstimate{}, domain.Invalid("w2Withholding", domain.ErrInvalidAmount, "withholding %s is negative", p.W2Withholding)
	}
	se, err := c.SelfEmploymentTax(p.SelfEmploymentIncome, p.FilingStatus)
	if err != nil {
		return domain.QuarterlyEstimate{}, err
	}
	adjusted := domain.MaxZero(p.SelfEmploymentIncome.Sub(se.DeductiblePortion))
	federal, err := c.FederalTax(adjusted, p.FilingStatus)
	if err != nil {
		return domain.QuarterlyEstimate{}, err
	}
	state, err := c.StateTax(p.SelfEmploymentIncome, p.State, p.FilingStatus)
	if err != nil {
		return domain.QuarterlyEstimate{}, err
	}

	total := federal.Add(state).Add(se.Total).Sub(p.W2Withholding)
	quarterly := domain.Cents(domain.MaxZero(total).Div(decimal.NewFromInt(4)))
	return domain.QuarterlyEstimate{
		AdjustedIncome:    adjusted,
		FederalTax:        federal,
		StateTax:          state,
		SelfEmployment:    se,
		TotalEstimatedTax: total,
		QuarterlyPayment:  quarterly,
		Payments:          c.schedule(quarterly),
	}, nil
}

func (c *Calculator) schedule(amount decimal.Decimal) []domain.QuarterlyPayment {
	y := c.tables.TaxYear
	due := []time.Time{
		time.Date(y, time.April, 15, 0, 0, 0, 0, time.UTC),
		time.Date(y, time.June, 15, 0, 0, 0, 0, time.UTC),
		time.Date(y, time.September, 15, 0, 0, 0, 0, time.UTC),
		time.Date(y+1, time.January, 15, 0, 0, 0, 0, time.UTC),
	}
	out := make([]domain.QuarterlyPayment, len(due))
	for i, d := range due {
		out[i] = domain.QuarterlyPayment{Quarter: i + 1, DueDate: d, Amount: amount}
	}
	return out
}

// Bracket returns the federal bracket containing income after the standard
// deduction.
func (c *Calculator) Bracket(income decimal.Decimal, status domain.FilingStatus) (domain.TaxBracket, error) {
	status, err := c.checkInputs(income, status)
	if err != nil {
		return domain.TaxBracket{}, err
	}
	after := domain.MaxZero(income.Sub(c.tables.StandardDeduction[status]))
	ladder := c.tables.Federal[status]
	for _, b := range ladder {
		if b.Contains(after) {
			return b, nil
		}
	}
	return ladder[len(ladder)-1], nil
}

// BracketLabel formats the marginal rate, e.g. "22%".
func (c *Calculator) BracketLabel(income decimal.Decimal, status domain.FilingStatus) (string, error) {
	b, err := c.Bracket(income, status)
	if err != nil {
		return "", err
	}
	return RateLabel(b.Rate), nil
}

// RateLabel renders a fractional rate as a percentage string.
func RateLabel(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).String() + "%"
}

func (c *Calculator) checkInputs(income decimal.Decimal, status domain.FilingStatus) (domain.FilingStatus, error) {
	if income.IsNegative() {
		return "", domain.Invalid("income", domain.ErrInvalidIncome, "income %s is negative", income)
	}
	status = status.OrSingle()
	if !status.Valid() {
		return "", domain.Invalid("filingStatus", domain.ErrInvalidFilingStatus, "unrecognised filing status %q", status)
	}
	return status, nil
}

// marginal sums (min(income, max) - min) * rate over the brackets income
// reaches.
func marginal(income decimal.Decimal, ladder []domain.TaxBracket) decimal.Decimal {
	total := decimal.Zero
	for _, b := range ladder {
		if !income.GreaterThan(b.Min) {
			break
		}
		upper := income
		if b.Max != nil && b.Max.LessThan(income) {
			upper = *b.Max
		}
		total = total.Add(upper.Sub(b.Min).Mul(b.Rate))
	}
	return total
}
