package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/csg33k/paycalc/internal/domain"
)

// Export returns every item matching f, newest first, in a versioned
// archive. Pagination fields are ignored.
func (m *Manager) Export(ctx context.Context, f domain.HistoryFilter) (*domain.HistoryArchive, error) {
	f.Limit, f.Offset = 0, 0
	page, err := m.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &domain.HistoryArchive{
		Version:    ArchiveVersion,
		ExportedAt: m.now().UTC(),
		Items:      page.Items,
	}, nil
}

// Import stores archived items with their IDs and timestamps intact.
// Items whose ID already exists are skipped unless overwrite is set.
// Invalid items are reported and do not stop the rest.
func (m *Manager) Import(ctx context.Context, a *domain.HistoryArchive, overwrite bool) (*domain.ImportReport, error) {
	if a == nil {
		return nil, domain.Invalid("archive", domain.ErrNilResult, "no archive supplied")
	}
	if a.Version != ArchiveVersion {
		return nil, domain.Invalid("version", domain.ErrUnsupportedFormat, "archive version %q is not %q", a.Version, ArchiveVersion)
	}

	report := &domain.ImportReport{}
	fail := func(i int, id string, err error) {
		report.Failures = append(report.Failures, domain.ItemFailure{Index: i, ID: id, Error: err.Error()})
	}
	for i, item := range a.Items {
		if item == nil {
			fail(i, "", errors.New("empty item"))
			continue
		}
		if err := checkCalculation(&item.Calculation); err != nil {
			fail(i, item.ID, err)
			continue
		}
		imported, err := m.importOne(ctx, item, overwrite)
		switch {
		case err != nil:
			fail(i, item.ID, err)
		case imported:
			report.Imported++
		default:
			report.Skipped++
		}
	}
	m.log.Info("history imported", "imported", report.Imported, "skipped", report.Skipped, "failed", len(report.Failures))
	return report, nil
}

func (m *Manager) importOne(ctx context.Context, item *domain.HistoryItem, overwrite bool) (bool, error) {
	h := item.Clone()
	if h.ID == "" {
		h.ID = m.newID()
	}
	now := m.now().UTC()
	if h.CreatedAt.IsZero() {
		h.CreatedAt = now
	}
	if h.UpdatedAt.IsZero() {
		h.UpdatedAt = h.CreatedAt
	}
	if h.Name == "" {
		h.Name = autoName(&h.Calculation)
	}
	h.Tags = domain.NormalizeTags(h.Tags)

	unlock := m.locks.Lock(h.ID)
	defer unlock()

	if !overwrite {
		_, err := m.store.Get(ctx, h.ID)
		switch {
		case err == nil:
			return false, nil
		case !errors.Is(err, domain.ErrNotFound):
			return false, fmt.Errorf("check existing: %w", err)
		}
	}
	if err := m.put(ctx, "import", h); err != nil {
		return false, err
	}
	return true, nil
}
