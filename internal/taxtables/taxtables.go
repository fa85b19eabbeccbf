// Package taxtables holds the read-only reference data for each supported
// tax year: federal brackets and standard deductions per filing status,
// payroll-tax constants, contribution limits, and state and local regimes.
// Tables are built once at package init and never mutated afterwards.
package taxtables

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/csg33k/paycalc/internal/domain"
)

const DefaultYear = 2024

// Limits are annual IRS contribution limits.
type Limits struct {
	Retirement401k decimal.Decimal
	CatchUp401k    decimal.Decimal
	HSASelf        decimal.Decimal
	HSAFamily      decimal.Decimal
	FSA            decimal.Decimal
}

// Year is the complete rate table for one tax year.
type Year struct {
	TaxYear           int
	StandardDeduction map[domain.FilingStatus]decimal.Decimal
	Federal           map[domain.FilingStatus][]domain.TaxBracket

	SSRate                  decimal.Decimal
	SSWageBase              decimal.Decimal
	MedicareRate            decimal.Decimal
	AdditionalMedicareRate  decimal.Decimal
	AdditionalMedicareFloor map[domain.FilingStatus]decimal.Decimal
	SEEarningsFactor        decimal.Decimal // share of net earnings subject to SE tax

	// AllowanceAmount is the annual withholding reduction per W-4 allowance.
	AllowanceAmount decimal.Decimal
	Limits          Limits

	States     map[string]domain.StateTaxInfo
	Localities map[string]domain.LocalTaxInfo // keyed by localityKey(state, city)
}

// Supported returns the tax years with tables, ascending.
func Supported() []int { return []int{2024, 2025} }

// ForYear returns the table for year. Unknown years get the default table
// and ok=false.
func ForYear(year int) (*Year, bool) {
	y, ok := years[year]
	if !ok {
		y = years[DefaultYear]
	}
	return y, ok
}

// MustYear is ForYear without the fallback signal.
func MustYear(year int) *Year {
	y, _ := ForYear(year)
	return y
}

var years = map[int]*Year{
	2024: ty2024(),
	2025: ty2025(),
}

// State returns the regime for a two-letter code.
func (y *Year) State(code string) (domain.StateTaxInfo, bool) {
	s, ok := y.States[normalizeState(code)]
	return s, ok
}

// Locality returns the city wage tax for state/city, if any.
func (y *Year) Locality(state, city string) (domain.LocalTaxInfo, bool) {
	l, ok := y.Localities[localityKey(state, city)]
	return l, ok
}

// Validate checks every bracket table for ascending minimums, contiguous
// bounds, non-decreasing rates and an open top bracket.
func (y *Year) Validate() error {
	for status, b := range y.Federal {
		if err := validateBrackets(b); err != nil {
			return fmt.Errorf("TY%d federal %s: %w", y.TaxYear, status, err)
		}
		if _, ok := y.StandardDeduction[status]; !ok {
			return fmt.Errorf("TY%d: no standard deduction for %s", y.TaxYear, status)
		}
	}
	for _, status := range domain.FilingStatuses() {
		if _, ok := y.Federal[status]; !ok {
			return fmt.Errorf("TY%d: no federal brackets for %s", y.TaxYear, status)
		}
		if _, ok := y.AdditionalMedicareFloor[status]; !ok {
			return fmt.Errorf("TY%d: no additional Medicare threshold for %s", y.TaxYear, status)
		}
	}
	for code, s := range y.States {
		switch s.Regime {
		case domain.NoIncomeTax:
		case domain.FlatTax:
			if !s.FlatRate.IsPositive() {
				return fmt.Errorf("TY%d state %s: flat regime without rate", y.TaxYear, code)
			}
		case domain.Progressive:
			if err := validateBrackets(s.Brackets); err != nil {
				return fmt.Errorf("TY%d state %s: %w", y.TaxYear, code, err)
			}
			if s.JointBrackets != nil {
				if err := validateBrackets(s.JointBrackets); err != nil {
					return fmt.Errorf("TY%d state %s joint: %w", y.TaxYear, code, err)
				}
			}
		default:
			return fmt.Errorf("TY%d state %s: unknown regime %q", y.TaxYear, code, s.Regime)
		}
	}
	for key, l := range y.Localities {
		if l.Brackets != nil {
			if err := validateBrackets(l.Brackets); err != nil {
				return fmt.Errorf("TY%d locality %s: %w", y.TaxYear, key, err)
			}
		}
	}
	return nil
}

func validateBrackets(b []domain.TaxBracket) error {
	if len(b) == 0 {
		return fmt.Errorf("no brackets")
	}
	if !b[0].Min.IsZero() {
		return fmt.Errorf("first bracket starts at %s, want 0", b[0].Min)
	}
	for i := range b {
		last := i == len(b)-1
		if last != (b[i].Max == nil) {
			return fmt.Errorf("bracket %d: only the last bracket may be open", i)
		}
		if i == 0 {
			continue
		}
		prev := b[i-1]
		if !b[i].Min.Equal(*prev.Max) {
			return fmt.Errorf("bracket %d: min %s does not continue previous max %s", i, b[i].Min, prev.Max)
		}
		if !b[i].Min.GreaterThan(prev.Min) {
			return fmt.Errorf("bracket %d: min %s not ascending", i, b[i].Min)
		}
		if b[i].Rate.LessThan(prev.Rate) {
			return fmt.Errorf("bracket %d: rate %s below previous %s", i, b[i].Rate, prev.Rate)
		}
	}
	return nil
}
