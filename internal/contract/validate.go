package contract

import (
	"github.com/shopspring/decimal"

	"github.com/csg33k/paycalc/internal/domain"
)

const maxHoursPerWeek = 168

// validate checks in and resolves its defaults. Hours, days and durations
// are floats on the input and decimals from here on.
func (e *Engine) validate(in domain.ContractInput) (*normalized, error) {
	if in.Type == "" {
		in.Type = inferType(in)
	}
	switch in.Type {
	case domain.HourlyContract, domain.DailyContract, domain.MonthlyContract:
	default:
		return nil, domain.Invalid("type", domain.ErrInvalidContractType,
			"contract type %q is not one of hourly, daily, monthly", in.Type)
	}

	if err := checkRates(in); err != nil {
		return nil, err
	}

	n := &normalized{in: in, rate: in.Rate()}

	switch in.Type {
	case domain.HourlyContract:
		if in.HoursPerWeek <= 0 || in.HoursPerWeek > maxHoursPerWeek {
			return nil, domain.Invalid("hoursPerWeek", domain.ErrInvalidHours,
				"hours per week must be in (0, %d], got %g", maxHoursPerWeek, in.HoursPerWeek)
		}
		n.hoursPerWeek = decimal.NewFromFloat(in.HoursPerWeek)
	case domain.DailyContract:
		if in.DaysPerWeek <= 0 || in.DaysPerWeek > 7 {
			return nil, domain.Invalid("daysPerWeek", domain.ErrInvalidHours,
				"days per week must be in (0, 7], got %g", in.DaysPerWeek)
		}
		n.hoursPerWeek = decimal.NewFromFloat(in.DaysPerWeek).Mul(hoursPerDay)
	case domain.MonthlyContract:
		n.hoursPerWeek = hoursPerWeek
	}
	if in.Type != domain.HourlyContract && in.HoursPerWeek != 0 {
		if in.HoursPerWeek < 0 || in.HoursPerWeek > maxHoursPerWeek {
			return nil, domain.Invalid("hoursPerWeek", domain.ErrInvalidHours,
				"hours per week must be in (0, %d], got %g", maxHoursPerWeek, in.HoursPerWeek)
		}
		n.hoursPerWeek = decimal.NewFromFloat(in.HoursPerWeek)
	}

	switch {
	case in.DurationWeeks < 0 || in.DurationMonths < 0:
		return nil, domain.Invalid("durationWeeks", domain.ErrInvalidDuration, "duration cannot be negative")
	case in.Type == domain.MonthlyContract && in.DurationMonths > 0,
		in.DurationWeeks == 0 && in.DurationMonths > 0:
		// Multiply before dividing: 6 months is exactly 26 weeks.
		n.months = decimal.NewFromFloat(in.DurationMonths)
		n.weeks = n.months.Mul(weeksPerYear).Div(monthsPerYear)
	case in.DurationWeeks > 0:
		n.weeks = decimal.NewFromFloat(in.DurationWeeks)
		n.months = n.weeks.Mul(monthsPerYear).Div(weeksPerYear)
	default:
		return nil, domain.Invalid("durationWeeks", domain.ErrInvalidDuration, "duration must be greater than zero")
	}

	if in.Location.State == "" {
		return nil, domain.Invalid("location.state", domain.ErrInvalidLocation, "a work state is required")
	}
	if _, err := e.tax.State(in.Location.State); err != nil {
		return nil, domain.Invalid("location.state", domain.ErrInvalidLocation,
			"state %q is not a recognised US state", in.Location.State)
	}

	status, err := domain.ParseFilingStatus(string(in.FilingStatus))
	if err != nil {
		return nil, err
	}
	n.status = status

	switch in.Classification {
	case "":
		n.classification = domain.W2Employee
	case domain.W2Employee, domain.Contractor:
		n.classification = in.Classification
	default:
		return nil, domain.Invalid("classification", domain.ErrInvalidContractType,
			"classification %q is not one of W2, 1099", in.Classification)
	}

	if o := in.Overtime; o != nil {
		if o.Threshold < 0 || o.Threshold > maxHoursPerWeek {
			return nil, domain.Invalid("overtime.threshold", domain.ErrInvalidHours,
				"overtime threshold must be in [0, %d], got %g", maxHoursPerWeek, o.Threshold)
		}
		if o.Multiplier.IsNegative() {
			return nil, domain.Invalid("overtime.multiplier", domain.ErrInvalidRate, "overtime multiplier cannot be negative")
		}
	}

	return n, checkAmounts(in)
}

// inferType picks the contract type from the single populated rate.
func inferType(in domain.ContractInput) domain.ContractType {
	switch {
	case in.HourlyRate.IsPositive() && in.DailyRate.IsZero() && in.MonthlyRate.IsZero():
		return domain.HourlyContract
	case in.DailyRate.IsPositive() && in.HourlyRate.IsZero() && in.MonthlyRate.IsZero():
		return domain.DailyContract
	case in.MonthlyRate.IsPositive() && in.HourlyRate.IsZero() && in.DailyRate.IsZero():
		return domain.MonthlyContract
	}
	return ""
}

func checkRates(in domain.ContractInput) error {
	rates := []struct {
		field string
		typ   domain.ContractType
		v     decimal.Decimal
	}{
		{"hourlyRate", domain.HourlyContract, in.HourlyRate},
		{"dailyRate", domain.DailyContract, in.DailyRate},
		{"monthlyRate", domain.MonthlyContract, in.MonthlyRate},
	}
	for _, r := range rates {
		switch {
		case r.typ == in.Type && !r.v.IsPositive():
			return domain.Invalid(r.field, domain.ErrInvalidRate, "%s must be greater than zero", r.field)
		case r.typ != in.Type && !r.v.IsZero():
			return domain.Invalid(r.field, domain.ErrInvalidRate,
				"exactly one rate may be set; %s conflicts with a %s contract", r.field, in.Type)
		}
	}
	return nil
}

type amount struct {
	field string
	v     decimal.Decimal
}

// checkAmounts rejects negative money and counts anywhere in the optional
// sections.
func checkAmounts(in domain.ContractInput) error {
	var list []amount
	if p := in.Premiums; p != nil {
		list = append(list,
			amount{"premiums.weekendHoursPerWeek", decimal.NewFromFloat(p.WeekendHoursPerWeek)},
			amount{"premiums.weekendRate", p.WeekendRate},
			amount{"premiums.holidayHoursPerWeek", decimal.NewFromFloat(p.HolidayHoursPerWeek)},
			amount{"premiums.holidayRate", p.HolidayRate},
			amount{"premiums.onCallShiftsPerWeek", decimal.NewFromFloat(p.OnCallShiftsPerWeek)},
			amount{"premiums.onCallStipend", p.OnCallStipend},
			amount{"premiums.callbackHoursPerWeek", decimal.NewFromFloat(p.CallbackHoursPerWeek)},
			amount{"premiums.callbackRate", p.CallbackRate},
		)
	}
	if s := in.Stipends; s != nil {
		list = append(list,
			amount{"stipends.housingPerWeek", s.HousingPerWeek},
			amount{"stipends.mealsPerWeek", s.MealsPerWeek},
			amount{"stipends.travelPerWeek", s.TravelPerWeek},
		)
	}
	if b := in.Bonuses; b != nil {
		list = append(list, amount{"bonuses.signOn", b.SignOn}, amount{"bonuses.completion", b.Completion})
	}
	if x := in.Expenses; x != nil {
		list = append(list,
			amount{"expenses.travel", x.Travel},
			amount{"expenses.housing", x.Housing},
			amount{"expenses.malpractice", x.Malpractice},
			amount{"expenses.licensure", x.Licensure},
			amount{"expenses.other", x.Other},
		)
	}
	if b := in.Benefits; b != nil {
		list = append(list,
			amount{"benefits.health", b.Health},
			amount{"benefits.dental", b.Dental},
			amount{"benefits.vision", b.Vision},
			amount{"benefits.retirement", b.Retirement},
			amount{"benefits.life", b.Life},
			amount{"benefits.disability", b.Disability},
			amount{"benefits.cme", b.CME},
		)
	}
	for _, a := range list {
		if a.v.IsNegative() {
			return domain.Invalid(a.field, domain.ErrInvalidAmount, "%s cannot be negative", a.field)
		}
	}
	return nil
}
