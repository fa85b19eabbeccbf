package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/csg33k/paycalc/internal/domain"
)

// Constraints are ANDed together. Zero values are ignored.
type Constraints struct {
	MaxHoursPerWeek   float64         `json:"maxHoursPerWeek,omitempty"`
	MinHourlyRate     decimal.Decimal `json:"minHourlyRate"`
	MinNetPay         decimal.Decimal `json:"minNetPay"`
	MinDurationWeeks  float64         `json:"minDurationWeeks,omitempty"`
	MaxDurationWeeks  float64         `json:"maxDurationWeeks,omitempty"`
	PreferredLocation string          `json:"preferredLocation,omitempty"` // state code, city, or "City, ST"
	RequireBenefits   bool            `json:"requireBenefits,omitempty"`
}

// Constraint names reported in Optimal.Unmet.
const (
	ConstraintMaxHours    = "maxHoursPerWeek"
	ConstraintMinHourly   = "minHourlyRate"
	ConstraintMinNet      = "minNetPay"
	ConstraintMinDuration = "minDuration"
	ConstraintMaxDuration = "maxDuration"
	ConstraintLocation    = "preferredLocation"
	ConstraintBenefits    = "requireBenefits"
)

// Optimal is the chosen offer. When nothing satisfies every constraint the
// offer meeting the most constraints is returned with MeetsAllConstraints
// false and the constraints it misses in Unmet.
type Optimal struct {
	Offer               Offer    `json:"offer"`
	MeetsAllConstraints bool     `json:"meetsAllConstraints"`
	Unmet               []string `json:"unmet,omitempty"`
	Candidates          []int    `json:"candidates"`
}

// FindOptimal picks the highest net pay among offers meeting every
// constraint. On a tie an offer in the preferred location wins, then the
// lowest index.
func FindOptimal(offers []Offer, c Constraints) (*Optimal, error) {
	if len(offers) == 0 {
		return nil, fmt.Errorf("find optimal: %w", domain.ErrEmptyInputSet)
	}
	offers = indexed(offers)

	unmet := make([][]string, len(offers))
	candidates := []int{}
	for i, o := range offers {
		unmet[i] = c.unmet(o)
		if len(unmet[i]) == 0 {
			candidates = append(candidates, i)
		}
	}

	if len(candidates) > 0 {
		best := candidates[0]
		for _, i := range candidates[1:] {
			if c.better(offers[i], offers[best]) {
				best = i
			}
		}
		return &Optimal{Offer: offers[best], MeetsAllConstraints: true, Candidates: candidates}, nil
	}

	best := 0
	for i := 1; i < len(offers); i++ {
		switch {
		case len(unmet[i]) < len(unmet[best]):
			best = i
		case len(unmet[i]) == len(unmet[best]) && c.better(offers[i], offers[best]):
			best = i
		}
	}
	return &Optimal{Offer: offers[best], Unmet: unmet[best], Candidates: candidates}, nil
}

func (c Constraints) better(a, b Offer) bool {
	if !a.Net.Equal(b.Net) {
		return a.Net.GreaterThan(b.Net)
	}
	if c.PreferredLocation != "" {
		return c.matches(a.Location) && !c.matches(b.Location)
	}
	return false
}

func (c Constraints) unmet(o Offer) []string {
	var out []string
	if c.MaxHoursPerWeek > 0 && o.HoursPerWeek.GreaterThan(decimal.NewFromFloat(c.MaxHoursPerWeek)) {
		out = append(out, ConstraintMaxHours)
	}
	if c.MinHourlyRate.IsPositive() && o.HourlyRate.LessThan(c.MinHourlyRate) {
		out = append(out, ConstraintMinHourly)
	}
	if c.MinNetPay.IsPositive() && o.Net.LessThan(c.MinNetPay) {
		out = append(out, ConstraintMinNet)
	}
	if c.MinDurationWeeks > 0 && o.DurationWeeks.LessThan(decimal.NewFromFloat(c.MinDurationWeeks)) {
		out = append(out, ConstraintMinDuration)
	}
	if c.MaxDurationWeeks > 0 && o.DurationWeeks.GreaterThan(decimal.NewFromFloat(c.MaxDurationWeeks)) {
		out = append(out, ConstraintMaxDuration)
	}
	if c.PreferredLocation != "" && !c.matches(o.Location) {
		out = append(out, ConstraintLocation)
	}
	if c.RequireBenefits && !o.HasBenefits() {
		out = append(out, ConstraintBenefits)
	}
	return out
}

func (c Constraints) matches(loc domain.Location) bool {
	pref := strings.TrimSpace(c.PreferredLocation)
	if strings.EqualFold(pref, loc.State) {
		return true
	}
	if loc.City == "" {
		return false
	}
	return strings.EqualFold(pref, loc.City) || strings.EqualFold(pref, loc.City+", "+loc.State)
}
