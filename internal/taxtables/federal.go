package taxtables

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/csg33k/paycalc/internal/domain"
)

func ty2024() *Year {
	y := baseYear(2024)
	y.StandardDeduction = map[domain.FilingStatus]decimal.Decimal{
		domain.Single:            domain.Dollars("14600"),
		domain.MarriedJointly:    domain.Dollars("29200"),
		domain.MarriedSeparately: domain.Dollars("14600"),
		domain.HeadOfHousehold:   domain.Dollars("21900"),
	}
	y.Federal = map[domain.FilingStatus][]domain.TaxBracket{
		domain.Single:            brackets("10:11600", "12:47150", "22:100525", "24:191950", "32:243725", "35:609350", "37"),
		domain.MarriedJointly:    brackets("10:23200", "12:94300", "22:201050", "24:383900", "32:487450", "35:731200", "37"),
		domain.MarriedSeparately: brackets("10:11600", "12:47150", "22:100525", "24:191950", "32:243725", "35:365600", "37"),
		domain.HeadOfHousehold:   brackets("10:16550", "12:63100", "22:100500", "24:191950", "32:243700", "35:609350", "37"),
	}
	y.SSWageBase = domain.Dollars("168600")
	y.Limits = Limits{
		Retirement401k: domain.Dollars("23000"),
		CatchUp401k:    domain.Dollars("7500"),
		HSASelf:        domain.Dollars("4150"),
		HSAFamily:      domain.Dollars("8300"),
		FSA:            domain.Dollars("3200"),
	}
	return y
}

func ty2025() *Year {
	y := baseYear(2025)
	y.StandardDeduction = map[domain.FilingStatus]decimal.Decimal{
		domain.Single:            domain.Dollars("15750"),
		domain.MarriedJointly:    domain.Dollars("31500"),
		domain.MarriedSeparately: domain.Dollars("15750"),
		domain.HeadOfHousehold:   domain.Dollars("23625"),
	}
	y.Federal = map[domain.FilingStatus][]domain.TaxBracket{
		domain.Single:            brackets("10:11925", "12:48475", "22:103350", "24:197300", "32:250525", "35:626350", "37"),
		domain.MarriedJointly:    brackets("10:23850", "12:96950", "22:206700", "24:394600", "32:501050", "35:751600", "37"),
		domain.MarriedSeparately: brackets("10:11925", "12:48475", "22:103350", "24:197300", "32:250525", "35:375800", "37"),
		domain.HeadOfHousehold:   brackets("10:17000", "12:64850", "22:103350", "24:197300", "32:250500", "35:626350", "37"),
	}
	y.SSWageBase = domain.Dollars("176100")
	y.Limits = Limits{
		Retirement401k: domain.Dollars("23500"),
		CatchUp401k:    domain.Dollars("7500"),
		HSASelf:        domain.Dollars("4300"),
		HSAFamily:      domain.Dollars("8550"),
		FSA:            domain.Dollars("3300"),
	}
	return y
}

// baseYear returns the payroll constants that have not changed across the
// supported years, with the shared state and locality tables.
func baseYear(year int) *Year {
	return &Year{
		TaxYear:                year,
		SSRate:                 percent("6.2"),
		MedicareRate:           percent("1.45"),
		AdditionalMedicareRate: percent("0.9"),
		AdditionalMedicareFloor: map[domain.FilingStatus]decimal.Decimal{
			domain.Single:            domain.Dollars("200000"),
			domain.HeadOfHousehold:   domain.Dollars("200000"),
			domain.MarriedJointly:    domain.Dollars("250000"),
			domain.MarriedSeparately: domain.Dollars("125000"),
		},
		SEEarningsFactor: percent("92.35"),
		AllowanceAmount:  domain.Dollars("4300"),
		States:           stateTable(),
		Localities:       localityTable(),
	}
}

// brackets builds a contiguous ladder from "rate:upper" steps, where rate is
// a percentage. The final step has no upper bound.
//
//	brackets("10:11600", "12:47150", "22")
func brackets(steps ...string) []domain.TaxBracket {
	out := make([]domain.TaxBracket, 0, len(steps))
	lower := decimal.Zero
	for _, step := range steps {
		rate, upper, bounded := strings.Cut(step, ":")
		b := domain.TaxBracket{Min: lower, Rate: percent(rate)}
		if bounded {
			hi := domain.Dollars(upper)
			b.Max = &hi
			lower = hi
		}
		out = append(out, b)
	}
	return out
}

func percent(p string) decimal.Decimal {
	return domain.Dollars(p).Div(decimal.NewFromInt(100))
}
