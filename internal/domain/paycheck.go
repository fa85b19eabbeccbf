package domain

import "github.com/shopspring/decimal"

// PreTaxDeductions are per-period amounts taken before income tax.
type PreTaxDeductions struct {
	Retirement401k  decimal.Decimal `json:"retirement401k"`
	HealthInsurance decimal.Decimal `json:"healthInsurance"`
	DentalInsurance decimal.Decimal `json:"dentalInsurance"`
	VisionInsurance decimal.Decimal `json:"visionInsurance"`
	FSA             decimal.Decimal `json:"fsa"`
	HSA             decimal.Decimal `json:"hsa"`
}

func (p PreTaxDeductions) Total() decimal.Decimal {
	return p.Retirement401k.Add(p.HealthInsurance).Add(p.DentalInsurance).
		Add(p.VisionInsurance).Add(p.FSA).Add(p.HSA)
}

// PostTaxDeductions are per-period amounts taken after tax.
type PostTaxDeductions struct {
	Roth401k      decimal.Decimal `json:"roth401k"`
	LifeInsurance decimal.Decimal `json:"lifeInsurance"`
	Disability    decimal.Decimal `json:"disability"`
	UnionDues     decimal.Decimal `json:"unionDues"`
	Garnishments  decimal.Decimal `json:"garnishments"`
	Other         decimal.Decimal `json:"other"`
}

func (p PostTaxDeductions) Total() decimal.Decimal {
	return p.Roth401k.Add(p.LifeInsurance).Add(p.Disability).
		Add(p.UnionDues).Add(p.Garnishments).Add(p.Other)
}

// PaycheckOvertime is overtime worked in the period. When HourlyRate is zero
// the salary's hourly equivalent (annual / 2080) is used.
type PaycheckOvertime struct {
	Hours      float64         `json:"hours"`
	HourlyRate decimal.Decimal `json:"hourlyRate"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

// YTDTotals are year-to-date amounts before or after this period.
type YTDTotals struct {
	Gross              decimal.Decimal `json:"gross"`
	Federal            decimal.Decimal `json:"federal"`
	State              decimal.Decimal `json:"state"`
	Local              decimal.Decimal `json:"local"`
	SocialSecurity     decimal.Decimal `json:"socialSecurity"`
	Medicare           decimal.Decimal `json:"medicare"`
	AdditionalMedicare decimal.Decimal `json:"additionalMedicare"`
	PreTaxDeductions   decimal.Decimal `json:"preTaxDeductions"`
	PostTaxDeductions  decimal.Decimal `json:"postTaxDeductions"`
	NetPay             decimal.Decimal `json:"netPay"`
}

type PaycheckInput struct {
	GrossSalary  decimal.Decimal   `json:"grossSalary"`
	PayPeriod    PayPeriod         `json:"payPeriod"`
	FilingStatus FilingStatus      `json:"filingStatus"`
	State        string            `json:"state"`
	City         string            `json:"city,omitempty"`
	Allowances   int               `json:"allowances"`
	Dependents   int               `json:"dependents,omitempty"`
	Age50Plus    bool              `json:"age50Plus,omitempty"`
	FamilyHSA    bool              `json:"familyHsa,omitempty"`
	PreTax       PreTaxDeductions  `json:"preTax"`
	PostTax      PostTaxDeductions `json:"postTax"`
	Overtime     *PaycheckOvertime `json:"overtime,omitempty"`
	YTD          *YTDTotals        `json:"ytd,omitempty"`
}

type PaycheckTaxes struct {
	Federal            decimal.Decimal `json:"federal"`
	State              decimal.Decimal `json:"state"`
	Local              decimal.Decimal `json:"local"`
	SocialSecurity     decimal.Decimal `json:"socialSecurity"`
	Medicare           decimal.Decimal `json:"medicare"`
	AdditionalMedicare decimal.Decimal `json:"additionalMedicare"`
	FICA               decimal.Decimal `json:"fica"`
	Total              decimal.Decimal `json:"total"`
}

type PaycheckDeductions struct {
	PreTax       PreTaxDeductions  `json:"preTax"` // after statutory caps
	PreTaxTotal  decimal.Decimal   `json:"preTaxTotal"`
	PostTax      PostTaxDeductions `json:"postTax"`
	PostTaxTotal decimal.Decimal   `json:"postTaxTotal"`
}

type AnnualProjection struct {
	Gross             decimal.Decimal `json:"gross"`
	TaxableIncome     decimal.Decimal `json:"taxableIncome"`
	Federal           decimal.Decimal `json:"federal"`
	State             decimal.Decimal `json:"state"`
	Local             decimal.Decimal `json:"local"`
	FICA              decimal.Decimal `json:"fica"`
	TotalTaxes        decimal.Decimal `json:"totalTaxes"`
	PreTaxDeductions  decimal.Decimal `json:"preTaxDeductions"`
	PostTaxDeductions decimal.Decimal `json:"postTaxDeductions"`
	NetPay            decimal.Decimal `json:"netPay"`
}

// PaycheckResult figures are per pay period unless stated otherwise.
type PaycheckResult struct {
	GrossPay         decimal.Decimal    `json:"grossPay"`
	RegularPay       decimal.Decimal    `json:"regularPay"`
	OvertimePay      decimal.Decimal    `json:"overtimePay"`
	TaxableIncome    decimal.Decimal    `json:"taxableIncome"`
	Taxes            PaycheckTaxes      `json:"taxes"`
	Deductions       PaycheckDeductions `json:"deductions"`
	NetPay           decimal.Decimal    `json:"netPay"`
	EffectiveTaxRate decimal.Decimal    `json:"effectiveTaxRate"`
	TaxBracket       string             `json:"taxBracket"`
	PeriodsPerYear   int                `json:"periodsPerYear"`
	AnnualProjection AnnualProjection   `json:"annualProjection"`
	YTD              *YTDTotals         `json:"ytd,omitempty"`
}
