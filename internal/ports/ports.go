package ports

import (
	"context"
	"io"

	"github.com/csg33k/paycalc/internal/domain"
)

// HistoryStorage persists saved calculations.
//
// Implementations report a full store by wrapping domain.ErrQuotaExceeded,
// a missing item with domain.ErrNotFound, and a backend that cannot be
// reached with domain.ErrStorageUnavailable.
type HistoryStorage interface {
	// Save inserts or replaces the item keyed by item.ID and returns the ID.
	Save(ctx context.Context, item *domain.HistoryItem) (string, error)
	Get(ctx context.Context, id string) (*domain.HistoryItem, error)
	// List returns matching items newest first, paginated by the filter.
	List(ctx context.Context, f domain.HistoryFilter) (domain.HistoryPage, error)
	Delete(ctx context.Context, id string) error
	// Clear removes every matching item and returns how many were removed.
	Clear(ctx context.Context, f domain.HistoryFilter) (int, error)
}

// ReportRenderer writes a format-neutral report as a document.
type ReportRenderer interface {
	Render(ctx context.Context, r *domain.Report, w io.Writer) error
}
