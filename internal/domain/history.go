package domain

import (
	"slices"
	"strings"
	"time"
)

// Calculation pairs an engine input with its result. Exactly one of the
// contract or paycheck pairs is set, matching Type.
type Calculation struct {
	Type           CalculationType `json:"type"`
	ContractInput  *ContractInput  `json:"contractInput,omitempty"`
	ContractResult *ContractResult `json:"contractResult,omitempty"`
	PaycheckInput  *PaycheckInput  `json:"paycheckInput,omitempty"`
	PaycheckResult *PaycheckResult `json:"paycheckResult,omitempty"`
}

// HasResult reports whether the calculation carries a result for its type.
func (c *Calculation) HasResult() bool {
	if c == nil {
		return false
	}
	switch c.Type {
	case ContractCalculationType:
		return c.ContractResult != nil
	case PaycheckCalculationType:
		return c.PaycheckResult != nil
	}
	return false
}

// HistoryItem is a saved calculation.
type HistoryItem struct {
	ID         string   `json:"id"`
	OwnerID    string   `json:"ownerId,omitempty"`
	Name       string   `json:"name"`
	Tags       []string `json:"tags"`
	IsFavorite bool     `json:"isFavorite"`
	Calculation
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone copies the item so callers cannot mutate stored tag slices.
// Inputs and results are treated as immutable and shared.
func (h *HistoryItem) Clone() *HistoryItem {
	c := *h
	c.Tags = slices.Clone(h.Tags)
	return &c
}

// HistoryFilter narrows list and clear operations. Zero fields match all.
type HistoryFilter struct {
	OwnerID       string          `json:"ownerId,omitempty"`
	Type          CalculationType `json:"type,omitempty"`
	FavoritesOnly bool            `json:"favoritesOnly,omitempty"`
	From          *time.Time      `json:"from,omitempty"`
	To            *time.Time      `json:"to,omitempty"`
	Tags          []string        `json:"tags,omitempty"` // any-of
	Search        string          `json:"search,omitempty"`
	Limit         int             `json:"limit,omitempty"`
	Offset        int             `json:"offset,omitempty"`
}

// Matches applies every predicate except pagination.
func (f HistoryFilter) Matches(h *HistoryItem) bool {
	if f.OwnerID != "" && h.OwnerID != f.OwnerID {
		return false
	}
	if f.Type != "" && h.Type != f.Type {
		return false
	}
	if f.FavoritesOnly && !h.IsFavorite {
		return false
	}
	if f.From != nil && h.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && h.CreatedAt.After(*f.To) {
		return false
	}
	if len(f.Tags) > 0 && !slices.ContainsFunc(f.Tags, func(t string) bool {
		return slices.Contains(h.Tags, NormalizeTag(t))
	}) {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(h.Name), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// Page applies Limit and Offset to an already filtered, ordered list.
func (f HistoryFilter) Page(items []*HistoryItem) HistoryPage {
	total := len(items)
	start := min(max(f.Offset, 0), total)
	end := total
	if f.Limit > 0 {
		end = min(start+f.Limit, total)
	}
	return HistoryPage{Items: items[start:end], Total: total, HasMore: end < total}
}

type HistoryPage struct {
	Items   []*HistoryItem `json:"items"`
	Total   int            `json:"total"`
	HasMore bool           `json:"hasMore"`
}

// HistoryPatch is a partial update. Nil fields are left unchanged.
type HistoryPatch struct {
	Name       *string  `json:"name,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	IsFavorite *bool    `json:"isFavorite,omitempty"`
}

type ShareLink struct {
	ItemID    string    `json:"itemId"`
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	Public    bool      `json:"public"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Frequency is one entry of a most-used ranking.
type Frequency struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type HistoryAnalytics struct {
	Total        int                     `json:"total"`
	ByType       map[CalculationType]int `json:"byType"`
	Favorites    int                     `json:"favorites"`
	TopLocations []Frequency             `json:"topLocations"`
	TopRates     []Frequency             `json:"topRates"`
}

// HistoryArchive is the bulk export envelope.
type HistoryArchive struct {
	Version    string         `json:"version"`
	ExportedAt time.Time      `json:"exportedAt"`
	Items      []*HistoryItem `json:"items"`
}

type ItemFailure struct {
	Index int    `json:"index"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error"`
}

type ImportReport struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Failures []ItemFailure `json:"failures,omitempty"`
}

// NormalizeTag lowercases and trims a tag.
func NormalizeTag(t string) string { return strings.ToLower(strings.TrimSpace(t)) }

// NormalizeTags returns the sorted set of non-empty normalised tags.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = NormalizeTag(t); t != "" {
			out = append(out, t)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
