package compare

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/csg33k/paycalc/internal/domain"
)

// Difference is the change from one offer to the next in input order.
type Difference struct {
	From       int             `json:"from"`
	To         int             `json:"to"`
	Gross      decimal.Decimal `json:"gross"`
	Net        decimal.Decimal `json:"net"`
	NetPercent decimal.Decimal `json:"netPercent"` // relative to From's net
}

// Best holds the index of the leading offer for each criterion.
type Best struct {
	Gross         int `json:"gross"`
	Net           int `json:"net"`
	HourlyRate    int `json:"hourlyRate"`
	TaxEfficiency int `json:"taxEfficiency"` // lowest effective tax rate
	TotalValue    int `json:"totalValue"`
}

type Result struct {
	Offers          []Offer      `json:"offers"`
	Differences     []Difference `json:"differences"`
	Best            Best         `json:"best"`
	Winner          Offer        `json:"winner"` // highest total value
	Recommendations []string     `json:"recommendations"`
}

// Compare ranks offers. Offer indices are reassigned to input order and
// ties go to the lowest index.
func Compare(offers []Offer) (*Result, error) {
	if len(offers) == 0 {
		return nil, fmt.Errorf("compare: %w", domain.ErrEmptyInputSet)
	}
	offers = indexed(offers)

	diffs := make([]Difference, 0, len(offers)-1)
	for i := 1; i < len(offers); i++ {
		prev, cur := offers[i-1], offers[i]
		net := cur.Net.Sub(prev.Net)
		diffs = append(diffs, Difference{
			From:       prev.Index,
			To:         cur.Index,
			Gross:      cur.Gross.Sub(prev.Gross),
			Net:        net,
			NetPercent: domain.Cents(domain.SafeDiv(net.Mul(hundred), prev.Net.Abs())),
		})
	}

	best := Best{
		Gross:         argBest(offers, func(o Offer) decimal.Decimal { return o.Gross }, true),
		Net:           argBest(offers, func(o Offer) decimal.Decimal { return o.Net }, true),
		HourlyRate:    argBest(offers, func(o Offer) decimal.Decimal { return o.HourlyRate }, true),
		TaxEfficiency: argBest(offers, func(o Offer) decimal.Decimal { return o.EffectiveTaxRate }, false),
		TotalValue:    argBest(offers, Offer.TotalValue, true),
	}
	return &Result{
		Offers:          offers,
		Differences:     diffs,
		Best:            best,
		Winner:          offers[best.TotalValue],
		Recommendations: recommend(offers, best),
	}, nil
}

func indexed(offers []Offer) []Offer {
	out := make([]Offer, len(offers))
	for i, o := range offers {
		o.Index = i
		if o.Label == "" {
			o.Label = fmt.Sprintf("Option %d", i+1)
		}
		out[i] = o
	}
	return out
}

// argBest returns the index of the highest (or lowest) key; the first seen
// wins ties.
func argBest(offers []Offer, key func(Offer) decimal.Decimal, highest bool) int {
	best := 0
	for i := 1; i < len(offers); i++ {
		k, b := key(offers[i]), key(offers[best])
		if (highest && k.GreaterThan(b)) || (!highest && k.LessThan(b)) {
			best = i
		}
	}
	return best
}

func recommend(offers []Offer, best Best) []string {
	if len(offers) < 2 {
		return nil
	}
	var out []string
	top := offers[best.Net]
	out = append(out, fmt.Sprintf("%s pays the most after tax (%s)", top.Label, domain.USD(top.Net)))
	if best.TotalValue != best.Net {
		o := offers[best.TotalValue]
		out = append(out, fmt.Sprintf("%s is worth the most once benefits are counted (%s)",
			o.Label, domain.USD(o.TotalValue())))
	}
	if best.HourlyRate != best.Net {
		o := offers[best.HourlyRate]
		out = append(out, fmt.Sprintf("%s has the best effective hourly rate (%s)", o.Label, domain.USD(o.HourlyRate)))
	}
	if best.TaxEfficiency != best.Net {
		o := offers[best.TaxEfficiency]
		out = append(out, fmt.Sprintf("%s has the lowest effective tax rate (%s)", o.Label, domain.Percent(o.EffectiveTaxRate)))
	}
	return out
}
