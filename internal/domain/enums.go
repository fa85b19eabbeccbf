package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

type FilingStatus string

const (
	Single            FilingStatus = "SINGLE"
	MarriedJointly    FilingStatus = "MARRIED_JOINTLY"
	MarriedSeparately FilingStatus = "MARRIED_SEPARATELY"
	HeadOfHousehold   FilingStatus = "HEAD_OF_HOUSEHOLD"
)

// FilingStatuses lists every recognised filing status in display order.
func FilingStatuses() []FilingStatus {
	return []FilingStatus{Single, MarriedJointly, MarriedSeparately, HeadOfHousehold}
}

// ParseFilingStatus accepts the canonical names plus the short forms used by
// forms and persisted rows ("single", "mfj", "married-separately", "head").
func ParseFilingStatus(s string) (FilingStatus, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	switch norm {
	case "", "SINGLE", "S":
		return Single, nil
	case "MARRIED_JOINTLY", "MARRIED_FILING_JOINTLY", "MARRIED", "MFJ":
		return MarriedJointly, nil
	case "MARRIED_SEPARATELY", "MARRIED_FILING_SEPARATELY", "MFS":
		return MarriedSeparately, nil
	case "HEAD_OF_HOUSEHOLD", "HEAD", "HOH":
		return HeadOfHousehold, nil
	}
	return "", &ValidationError{Field: "filingStatus", Err: ErrInvalidFilingStatus,
		Message: "filing status " + s + " is not one of single, married jointly, married separately, head of household"}
}

// Valid reports whether f is one of the four recognised statuses.
func (f FilingStatus) Valid() bool {
	switch f {
	case Single, MarriedJointly, MarriedSeparately, HeadOfHousehold:
		return true
	}
	return false
}

// OrSingle treats the empty status as single.
func (f FilingStatus) OrSingle() FilingStatus {
	if f == "" {
		return Single
	}
	return f
}

type PayPeriod string

const (
	Weekly   PayPeriod = "weekly"
	Biweekly PayPeriod = "biweekly"
	Monthly  PayPeriod = "monthly"
	Annual   PayPeriod = "annual"
)

// PeriodsPerYear returns 52/26/12/1, or 0 for an unrecognised period.
func (p PayPeriod) PeriodsPerYear() int {
	switch p {
	case Weekly:
		return 52
	case Biweekly:
		return 26
	case Monthly:
		return 12
	case Annual:
		return 1
	}
	return 0
}

func (p PayPeriod) Periods() decimal.Decimal { return decimal.NewFromInt(int64(p.PeriodsPerYear())) }

type ContractType string

const (
	HourlyContract  ContractType = "hourly"
	DailyContract   ContractType = "daily"
	MonthlyContract ContractType = "monthly"
)

// Classification is how the worker is paid for tax purposes.
type Classification string

const (
	W2Employee Classification = "W2"
	Contractor Classification = "1099"
)

type CalculationType string

const (
	ContractCalculationType CalculationType = "contract"
	PaycheckCalculationType CalculationType = "paycheck"
)

// Regime is the shape of a state's income tax.
type Regime string

const (
	NoIncomeTax Regime = "none"
	FlatTax     Regime = "flat"
	Progressive Regime = "progressive"
)
