package history

import (
	"fmt"
	"strings"

	"github.com/csg33k/paycalc/internal/domain"
)

var rateUnits = map[domain.ContractType]string{
	domain.HourlyContract:  "hr",
	domain.DailyContract:   "day",
	domain.MonthlyContract: "mo",
}

// autoName derives a readable name such as
// "Hourly contract in Austin, TX ($85.00/hr)".
func autoName(c *domain.Calculation) string {
	switch c.Type {
	case domain.ContractCalculationType:
		in := c.ContractInput
		kind := "Contract"
		if in.Type != "" {
			kind = strings.ToUpper(string(in.Type[:1])) + string(in.Type[1:]) + " contract"
		}
		return fmt.Sprintf("%s in %s (%s)", kind, locationOf(c), rateOf(c))
	case domain.PaycheckCalculationType:
		in := c.PaycheckInput
		return fmt.Sprintf("Paycheck in %s (%s, %s)", locationOf(c), rateOf(c), in.PayPeriod)
	}
	return "Calculation"
}

func autoTags(c *domain.Calculation) []string {
	tags := []string{string(c.Type)}
	switch c.Type {
	case domain.ContractCalculationType:
		in := c.ContractInput
		tags = append(tags, string(in.Type), in.Location.State)
		if in.Classification != "" {
			tags = append(tags, string(in.Classification))
		}
	case domain.PaycheckCalculationType:
		in := c.PaycheckInput
		tags = append(tags, string(in.PayPeriod), in.State)
	}
	return domain.NormalizeTags(tags)
}

// locationOf formats "City, ST" or "ST".
func locationOf(c *domain.Calculation) string {
	var state, city string
	switch c.Type {
	case domain.ContractCalculationType:
		if c.ContractInput == nil {
			return ""
		}
		state, city = c.ContractInput.Location.State, c.ContractInput.Location.City
	case domain.PaycheckCalculationType:
		if c.PaycheckInput == nil {
			return ""
		}
		state, city = c.PaycheckInput.State, c.PaycheckInput.City
	}
	state = strings.ToUpper(strings.TrimSpace(state))
	if city = strings.TrimSpace(city); city != "" {
		return city + ", " + state
	}
	return state
}

// rateOf formats the headline rate, e.g. "$85.00/hr" or "$120,000.00/yr".
func rateOf(c *domain.Calculation) string {
	switch c.Type {
	case domain.ContractCalculationType:
		if in := c.ContractInput; in != nil {
			unit := rateUnits[in.Type]
			if unit == "" {
				return domain.USD(in.Rate())
			}
			return domain.USD(in.Rate()) + "/" + unit
		}
	case domain.PaycheckCalculationType:
		if in := c.PaycheckInput; in != nil {
			return domain.USD(in.GrossSalary) + "/yr"
		}
	}
	return ""
}
