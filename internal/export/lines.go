package export

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/csg33k/paycalc/internal/domain"
)

type unit string

const (
	unitUSD     unit = "USD"
	unitPercent unit = "percent"
	unitHours   unit = "hours"
	unitWeeks   unit = "weeks"
	unitCount   unit = "count"
	unitText    unit = "text"
)

// line is one exported figure with its raw value and display form.
type line struct {
	key      string
	label    string
	raw      decimal.Decimal
	text     string // unitText only
	unit     unit
	emphasis bool
}

func (l line) display() string {
	switch l.unit {
	case unitUSD:
		return domain.USD(l.raw)
	case unitPercent:
		return domain.Percent(l.raw)
	case unitText:
		return l.text
	}
	return l.raw.String()
}

type section struct {
	key   string
	title string
	lines []line
}

// document is everything a format needs about one calculation.
type document struct {
	kind     domain.CalculationType
	title    string
	subtitle string
	sections []section
	notes    []string
	formulas map[string]string
	input    any
	result   any
}

func usd(key, label string, v decimal.Decimal) line {
	return line{key: key, label: label, raw: v, unit: unitUSD}
}

func total(key, label string, v decimal.Decimal) line {
	return line{key: key, label: label, raw: v, unit: unitUSD, emphasis: true}
}

func pct(key, label string, v decimal.Decimal) line {
	return line{key: key, label: label, raw: v, unit: unitPercent}
}

func num(key, label string, v decimal.Decimal, u unit) line {
	return line{key: key, label: label, raw: v, unit: u}
}

func text(key, label, v string) line {
	return line{key: key, label: label, text: v, unit: unitText}
}

var contractFormulas = map[string]string{
	"netPay":           "grossPay - taxes.total",
	"effectiveTaxRate": "taxes.total / grossPay * 100",
	"annualEquivalent": "grossPay / durationWeeks * 52",
	"taxes":            "tax(taxableGross / durationWeeks * 52) * durationWeeks / 52",
	"benefitsValue":    "sum(monthly benefits) * durationWeeks * 12 / 52",
	"rates.effective":  "(grossPay + benefitsValue) / totalHours",
	"rates.netHourly":  "(netPay - totalExpenses) / totalHours",
}

var paycheckFormulas = map[string]string{
	"grossPay":         "grossSalary / periodsPerYear + overtimePay",
	"taxableIncome":    "grossPay - preTaxDeductions",
	"netPay":           "grossPay - taxes.total - preTaxDeductions - postTaxDeductions",
	"effectiveTaxRate": "taxes.total / grossPay * 100",
	"taxes":            "tax(taxableIncome * periodsPerYear) / periodsPerYear",
	"annualProjection": "per-period figure * periodsPerYear",
}

// newDocument extracts the exportable figures from c. Missing optional
// parts are skipped rather than rejected.
func newDocument(c *domain.Calculation) (*document, error) {
	if !c.HasResult() {
		return nil, domain.ErrNilResult
	}
	switch c.Type {
	case domain.ContractCalculationType:
		return contractDocument(c.ContractInput, c.ContractResult), nil
	case domain.PaycheckCalculationType:
		return paycheckDocument(c.PaycheckInput, c.PaycheckResult), nil
	}
	return nil, domain.ErrNilResult
}

func contractDocument(in *domain.ContractInput, r *domain.ContractResult) *document {
	d := &document{
		kind:     domain.ContractCalculationType,
		title:    "Contract Pay Report",
		formulas: contractFormulas,
		result:   r,
		notes: []string{
			"Taxes are estimated on the annualised gross and prorated to the contract length.",
			"Expenses and benefits are shown separately and are not deducted from net pay.",
		},
	}
	if in != nil {
		d.input = in
		d.subtitle = contractSubtitle(in)
	}
	d.sections = []section{
		{key: "summary", title: "Summary", lines: []line{
			usd("grossPay", "Gross pay", r.GrossPay),
			usd("taxableGross", "Taxable gross", r.TaxableGross),
			usd("taxes.total", "Total taxes", r.Taxes.Total),
			total("netPay", "Net pay", r.NetPay),
			pct("effectiveTaxRate", "Effective tax rate", r.EffectiveTaxRate),
			usd("annualEquivalent", "Annual equivalent", r.AnnualEquivalent),
			usd("netPerWeek", "Net per week", r.NetPerWeek),
			num("durationWeeks", "Duration (weeks)", r.DurationWeeks, unitWeeks),
			num("totalHours", "Total hours", r.TotalHours, unitHours),
		}},
		{key: "breakdown", title: "Pay Breakdown", lines: []line{
			usd("breakdown.regular", "Regular pay", r.Breakdown.Regular),
			usd("breakdown.overtime", "Overtime", r.Breakdown.Overtime),
			usd("breakdown.premiums", "Premiums", r.Breakdown.Premiums),
			usd("breakdown.stipends", "Stipends", r.Breakdown.Stipends),
			usd("breakdown.bonuses", "Bonuses", r.Breakdown.Bonuses),
		}},
		{key: "taxes", title: "Taxes", lines: []line{
			usd("taxes.federal", "Federal income tax", r.Taxes.Federal),
			usd("taxes.state", "State income tax", r.Taxes.State),
			usd("taxes.local", "Local tax", r.Taxes.Local),
			usd("taxes.fica", ficaLabel(in), r.Taxes.FICA),
			total("taxes.total", "Total taxes", r.Taxes.Total),
		}},
		{key: "rates", title: "Rates", lines: []line{
			usd("rates.hourly", "Hourly", r.Rates.Hourly),
			usd("rates.daily", "Daily", r.Rates.Daily),
			usd("rates.weekly", "Weekly", r.Rates.Weekly),
			usd("rates.monthly", "Monthly", r.Rates.Monthly),
			usd("rates.effective", "Effective hourly (with benefits)", r.Rates.Effective),
			usd("rates.netHourly", "Net hourly (after expenses)", r.Rates.NetHourly),
		}},
		{key: "extras", title: "Expenses & Benefits", lines: []line{
			usd("totalExpenses", "Total expenses", r.TotalExpenses),
			usd("benefitsValue", "Benefits value", r.BenefitsValue),
			total("netAfterExpenses", "Net after expenses", r.NetPay.Sub(r.TotalExpenses)),
		}},
	}
	return d
}

func paycheckDocument(in *domain.PaycheckInput, r *domain.PaycheckResult) *document {
	d := &document{
		kind:     domain.PaycheckCalculationType,
		title:    "Paycheck Report",
		formulas: paycheckFormulas,
		result:   r,
		notes: []string{
			"Federal withholding is an estimate; allowances reduce the withholding base only.",
		},
	}
	if in != nil {
		d.input = in
		d.subtitle = domain.USD(in.GrossSalary) + " per year, paid " + string(in.PayPeriod) + " in " + in.State
	}
	p := r.AnnualProjection
	d.sections = []section{
		{key: "summary", title: "This Paycheck", lines: []line{
			usd("grossPay", "Gross pay", r.GrossPay),
			usd("regularPay", "Regular pay", r.RegularPay),
			usd("overtimePay", "Overtime pay", r.OvertimePay),
			usd("taxableIncome", "Taxable income", r.TaxableIncome),
			total("netPay", "Net pay", r.NetPay),
			pct("effectiveTaxRate", "Effective tax rate", r.EffectiveTaxRate),
			text("taxBracket", "Federal bracket", r.TaxBracket),
			num("periodsPerYear", "Pay periods per year", decimal.NewFromInt(int64(r.PeriodsPerYear)), unitCount),
		}},
		{key: "taxes", title: "Taxes", lines: []line{
			usd("taxes.federal", "Federal income tax", r.Taxes.Federal),
			usd("taxes.state", "State income tax", r.Taxes.State),
			usd("taxes.local", "Local tax", r.Taxes.Local),
			usd("taxes.socialSecurity", "Social Security", r.Taxes.SocialSecurity),
			usd("taxes.medicare", "Medicare", r.Taxes.Medicare),
			usd("taxes.additionalMedicare", "Additional Medicare", r.Taxes.AdditionalMedicare),
			total("taxes.total", "Total taxes", r.Taxes.Total),
		}},
		{key: "deductions", title: "Deductions", lines: []line{
			usd("deductions.preTaxTotal", "Pre-tax deductions", r.Deductions.PreTaxTotal),
			usd("deductions.postTaxTotal", "Post-tax deductions", r.Deductions.PostTaxTotal),
		}},
		{key: "annualProjection", title: "Annual Projection", lines: []line{
			usd("annualProjection.gross", "Gross", p.Gross),
			usd("annualProjection.totalTaxes", "Taxes", p.TotalTaxes),
			usd("annualProjection.preTaxDeductions", "Pre-tax deductions", p.PreTaxDeductions),
			usd("annualProjection.postTaxDeductions", "Post-tax deductions", p.PostTaxDeductions),
			total("annualProjection.netPay", "Net pay", p.NetPay),
		}},
	}
	if y := r.YTD; y != nil {
		d.sections = append(d.sections, section{key: "ytd", title: "Year to Date", lines: []line{
			usd("ytd.gross", "Gross", y.Gross),
			usd("ytd.federal", "Federal", y.Federal),
			usd("ytd.state", "State", y.State),
			usd("ytd.fica", "FICA", y.SocialSecurity.Add(y.Medicare).Add(y.AdditionalMedicare)),
			total("ytd.netPay", "Net pay", y.NetPay),
		}})
	}
	return d
}

func contractSubtitle(in *domain.ContractInput) string {
	where := in.Location.State
	if in.Location.City != "" {
		where = in.Location.City + ", " + where
	}
	kind := in.Type
	if kind == "" {
		switch {
		case in.MonthlyRate.IsPositive():
			kind = domain.MonthlyContract
		case in.DailyRate.IsPositive():
			kind = domain.DailyContract
		default:
			kind = domain.HourlyContract
		}
	}
	typed := *in
	typed.Type = kind
	s := domain.USD(typed.Rate()) + " " + string(kind)
	s += " in " + where
	if in.DurationWeeks > 0 {
		s += " for " + strconv.FormatFloat(in.DurationWeeks, 'f', -1, 64) + " weeks"
	} else if in.DurationMonths > 0 {
		s += " for " + strconv.FormatFloat(in.DurationMonths, 'f', -1, 64) + " months"
	}
	return s
}

func ficaLabel(in *domain.ContractInput) string {
	if in != nil && in.Classification == domain.Contractor {
		return "Self-employment tax"
	}
	return "FICA"
}
