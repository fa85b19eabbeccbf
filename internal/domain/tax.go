package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxBracket is one marginal band. Max is nil for the open top bracket.
type TaxBracket struct {
	Min  decimal.Decimal  `json:"min" yaml:"min"`
	Max  *decimal.Decimal `json:"max" yaml:"max"`
	Rate decimal.Decimal  `json:"rate" yaml:"rate"`
}

// Contains reports whether income falls in [Min, Max).
func (b TaxBracket) Contains(income decimal.Decimal) bool {
	if income.LessThan(b.Min) {
		return false
	}
	return b.Max == nil || income.LessThan(*b.Max)
}

// StateTaxInfo describes one state's income-tax regime.
type StateTaxInfo struct {
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	Regime             Regime          `json:"regime"`
	FlatRate           decimal.Decimal `json:"flatRate"`
	Brackets           []TaxBracket    `json:"brackets,omitempty"`
	JointBrackets      []TaxBracket    `json:"jointBrackets,omitempty"`
	StandardDeduction  decimal.Decimal `json:"standardDeduction"`
	PersonalExemption  decimal.Decimal `json:"personalExemption"`
	DependentExemption decimal.Decimal `json:"dependentExemption"`
	HasLocalTax        bool            `json:"hasLocalTax"`
	// LocalRate applies to wages in cities of this state that have no
	// entry of their own in the locality table.
	LocalRate decimal.Decimal `json:"localRate"`
}

// LocalTaxInfo is a city or county wage tax.
type LocalTaxInfo struct {
	Name     string          `json:"name"`
	State    string          `json:"state"`
	Rate     decimal.Decimal `json:"rate"`
	Brackets []TaxBracket    `json:"brackets,omitempty"`
}

// FICAResult is the employee share of payroll tax.
type FICAResult struct {
	SocialSecurity     decimal.Decimal `json:"socialSecurity"`
	Medicare           decimal.Decimal `json:"medicare"`
	AdditionalMedicare decimal.Decimal `json:"additionalMedicare"`
	Total              decimal.Decimal `json:"total"`
}

// SelfEmploymentResult is FICA computed on net self-employment earnings.
type SelfEmploymentResult struct {
	AdjustedIncome     decimal.Decimal `json:"adjustedIncome"`
	SocialSecurity     decimal.Decimal `json:"socialSecurity"`
	Medicare           decimal.Decimal `json:"medicare"`
	AdditionalMedicare decimal.Decimal `json:"additionalMedicare"`
	Total              decimal.Decimal `json:"total"`
	DeductiblePortion  decimal.Decimal `json:"deductiblePortion"`
}

// QuarterlyParams are the inputs for estimated-tax planning.
type QuarterlyParams struct {
	SelfEmploymentIncome decimal.Decimal `json:"selfEmploymentIncome"`
	FilingStatus         FilingStatus    `json:"filingStatus"`
	State                string          `json:"state"`
	W2Withholding        decimal.Decimal `json:"w2Withholding"`
}

type QuarterlyPayment struct {
	Quarter int             `json:"quarter"`
	DueDate time.Time       `json:"dueDate"`
	Amount  decimal.Decimal `json:"amount"`
}

type QuarterlyEstimate struct {
	AdjustedIncome    decimal.Decimal      `json:"adjustedIncome"`
	FederalTax        decimal.Decimal      `json:"federalTax"`
	StateTax          decimal.Decimal      `json:"stateTax"`
	SelfEmployment    SelfEmploymentResult `json:"selfEmployment"`
	TotalEstimatedTax decimal.Decimal      `json:"totalEstimatedTax"`
	QuarterlyPayment  decimal.Decimal      `json:"quarterlyPayment"`
	Payments          []QuarterlyPayment   `json:"payments"`
}
