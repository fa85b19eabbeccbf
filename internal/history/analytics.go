package history

import (
	"context"
	"slices"

	"github.com/csg33k/paycalc/internal/domain"
)

// topN bounds the most-used rankings.
const topN = 5

// Analytics summarises the history of ownerID (all owners when empty).
// Rankings are by count, descending; ties keep the order in which values
// were first saved.
func (m *Manager) Analytics(ctx context.Context, ownerID string) (*domain.HistoryAnalytics, error) {
	page, err := m.List(ctx, domain.HistoryFilter{OwnerID: ownerID})
	if err != nil {
		return nil, err
	}

	out := &domain.HistoryAnalytics{
		Total:  page.Total,
		ByType: map[domain.CalculationType]int{},
	}
	var locations, rates counter
	// List is newest first; walk oldest first so ties favour the earliest.
	for _, h := range slices.Backward(page.Items) {
		out.ByType[h.Type]++
		if h.IsFavorite {
			out.Favorites++
		}
		if loc := locationOf(&h.Calculation); loc != "" {
			locations.add(loc)
		}
		if rate := rateOf(&h.Calculation); rate != "" {
			rates.add(rate)
		}
	}
	out.TopLocations = locations.top(topN)
	out.TopRates = rates.top(topN)
	return out, nil
}

type counter struct {
	order  []string
	counts map[string]int
}

func (c *counter) add(v string) {
	if c.counts == nil {
		c.counts = map[string]int{}
	}
	if c.counts[v] == 0 {
		c.order = append(c.order, v)
	}
	c.counts[v]++
}

func (c *counter) top(n int) []domain.Frequency {
	out := make([]domain.Frequency, 0, len(c.order))
	for _, v := range c.order {
		out = append(out, domain.Frequency{Value: v, Count: c.counts[v]})
	}
	slices.SortStableFunc(out, func(a, b domain.Frequency) int { return b.Count - a.Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}
