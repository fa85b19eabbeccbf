package domain

import "github.com/shopspring/decimal"

// Location is where the work is performed. City is optional and only
// consulted for local wage taxes.
type Location struct {
	State string `json:"state"`
	City  string `json:"city,omitempty"`
}

// OvertimeRule pays hours beyond Threshold per week at Multiplier times the
// base rate. Zero values default to 40 hours and 1.5x.
type OvertimeRule struct {
	Threshold  float64         `json:"threshold"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

// Premiums are per-week additions on top of base pay.
type Premiums struct {
	WeekendHoursPerWeek  float64         `json:"weekendHoursPerWeek"`
	WeekendRate          decimal.Decimal `json:"weekendRate"` // added per weekend hour
	HolidayHoursPerWeek  float64         `json:"holidayHoursPerWeek"`
	HolidayRate          decimal.Decimal `json:"holidayRate"`
	OnCallShiftsPerWeek  float64         `json:"onCallShiftsPerWeek"`
	OnCallStipend        decimal.Decimal `json:"onCallStipend"` // per shift
	CallbackHoursPerWeek float64         `json:"callbackHoursPerWeek"`
	CallbackRate         decimal.Decimal `json:"callbackRate"`
}

// Stipends are weekly allowances. When TaxFree is set they are excluded from
// taxable income.
type Stipends struct {
	HousingPerWeek decimal.Decimal `json:"housingPerWeek"`
	MealsPerWeek   decimal.Decimal `json:"mealsPerWeek"`
	TravelPerWeek  decimal.Decimal `json:"travelPerWeek"`
	TaxFree        bool            `json:"taxFree"`
}

func (s Stipends) Weekly() decimal.Decimal {
	return s.HousingPerWeek.Add(s.MealsPerWeek).Add(s.TravelPerWeek)
}

type Bonuses struct {
	SignOn     decimal.Decimal `json:"signOn"`
	Completion decimal.Decimal `json:"completion"`
}

// Expenses are one-off costs borne by the worker over the whole contract.
type Expenses struct {
	Travel      decimal.Decimal `json:"travel"`
	Housing     decimal.Decimal `json:"housing"`
	Malpractice decimal.Decimal `json:"malpractice"`
	Licensure   decimal.Decimal `json:"licensure"`
	Other       decimal.Decimal `json:"other"`
}

func (e Expenses) Total() decimal.Decimal {
	return e.Travel.Add(e.Housing).Add(e.Malpractice).Add(e.Licensure).Add(e.Other)
}

// Benefits are monthly values of employer-provided benefits.
type Benefits struct {
	Health     decimal.Decimal `json:"health"`
	Dental     decimal.Decimal `json:"dental"`
	Vision     decimal.Decimal `json:"vision"`
	Retirement decimal.Decimal `json:"retirement"`
	Life       decimal.Decimal `json:"life"`
	Disability decimal.Decimal `json:"disability"`
	CME        decimal.Decimal `json:"cme"`
}

func (b Benefits) Monthly() decimal.Decimal {
	return b.Health.Add(b.Dental).Add(b.Vision).Add(b.Retirement).
		Add(b.Life).Add(b.Disability).Add(b.CME)
}

// ContractInput defines a fixed-term work arrangement. Exactly one of the
// rate fields is set, matching Type. Monthly contracts may give their
// length in DurationMonths instead of DurationWeeks.
type ContractInput struct {
	Type           ContractType    `json:"type"`
	HourlyRate     decimal.Decimal `json:"hourlyRate"`
	DailyRate      decimal.Decimal `json:"dailyRate"`
	MonthlyRate    decimal.Decimal `json:"monthlyRate"`
	HoursPerWeek   float64         `json:"hoursPerWeek"`
	DaysPerWeek    float64         `json:"daysPerWeek"`
	DurationWeeks  float64         `json:"durationWeeks"`
	DurationMonths float64         `json:"durationMonths,omitempty"`
	Location       Location        `json:"location"`
	FilingStatus   FilingStatus    `json:"filingStatus,omitempty"`
	Classification Classification  `json:"classification,omitempty"`
	Overtime       *OvertimeRule   `json:"overtime,omitempty"`
	Premiums       *Premiums       `json:"premiums,omitempty"`
	Stipends       *Stipends       `json:"stipends,omitempty"`
	Bonuses        *Bonuses        `json:"bonuses,omitempty"`
	Expenses       *Expenses       `json:"expenses,omitempty"`
	Benefits       *Benefits       `json:"benefits,omitempty"`
}

// Rate returns whichever rate field matches the contract type.
func (c ContractInput) Rate() decimal.Decimal {
	switch c.Type {
	case DailyContract:
		return c.DailyRate
	case MonthlyContract:
		return c.MonthlyRate
	}
	return c.HourlyRate
}

type PayBreakdown struct {
	Regular  decimal.Decimal `json:"regular"`
	Overtime decimal.Decimal `json:"overtime"`
	Premiums decimal.Decimal `json:"premiums"`
	Stipends decimal.Decimal `json:"stipends"`
	Bonuses  decimal.Decimal `json:"bonuses"`
}

// ContractTaxes holds the liability over the contract's actual duration.
// FICA carries self-employment tax for 1099 contracts.
type ContractTaxes struct {
	Federal decimal.Decimal `json:"federal"`
	State   decimal.Decimal `json:"state"`
	Local   decimal.Decimal `json:"local"`
	FICA    decimal.Decimal `json:"fica"`
	Total   decimal.Decimal `json:"total"`
}

type DerivedRates struct {
	Hourly    decimal.Decimal `json:"hourly"`
	Daily     decimal.Decimal `json:"daily"`
	Weekly    decimal.Decimal `json:"weekly"`
	Monthly   decimal.Decimal `json:"monthly"`
	Effective decimal.Decimal `json:"effective"`
	NetHourly decimal.Decimal `json:"netHourly"`
}

// ContractResult is the itemised outcome. NetPay is GrossPay minus
// Taxes.Total; expenses and benefits are reported separately.
type ContractResult struct {
	GrossPay         decimal.Decimal `json:"grossPay"`
	TaxableGross     decimal.Decimal `json:"taxableGross"`
	Breakdown        PayBreakdown    `json:"breakdown"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	BenefitsValue    decimal.Decimal `json:"benefitsValue"`
	Taxes            ContractTaxes   `json:"taxes"`
	NetPay           decimal.Decimal `json:"netPay"`
	Rates            DerivedRates    `json:"rates"`
	AnnualEquivalent decimal.Decimal `json:"annualEquivalent"`
	EffectiveTaxRate decimal.Decimal `json:"effectiveTaxRate"`
	TotalHours       decimal.Decimal `json:"totalHours"`
	DurationWeeks    decimal.Decimal `json:"durationWeeks"`
	NetPerWeek       decimal.Decimal `json:"netPerWeek"`
}
