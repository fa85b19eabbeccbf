// Package history records, searches and aggregates saved calculations on
// top of a pluggable ports.HistoryStorage.
package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/csg33k/paycalc/internal/domain"
	"github.com/csg33k/paycalc/internal/ports"
)

// ArchiveVersion is written to, and required of, history archives.
const ArchiveVersion = "1"

// DefaultShareTTL is how long a share link stays valid when no TTL is given.
const DefaultShareTTL = 7 * 24 * time.Hour

// Manager owns every mutation of saved calculations. Read-modify-write
// operations on one item ID never interleave.
type Manager struct {
	store    ports.HistoryStorage
	log      *slog.Logger
	now      func() time.Time
	newID    func() string
	shareURL string
	locks    keyedMutex
}

type Option func(*Manager)

func WithLogger(l *slog.Logger) Option { return func(m *Manager) { m.log = l } }

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option { return func(m *Manager) { m.now = now } }

func WithIDGenerator(f func() string) Option { return func(m *Manager) { m.newID = f } }

// WithShareBaseURL sets the prefix of generated share links.
func WithShareBaseURL(u string) Option {
	return func(m *Manager) { m.shareURL = strings.TrimRight(u, "/") }
}

func New(store ports.HistoryStorage, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		log:   slog.Default(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Save stores a new calculation. The ID, timestamps, and a missing name or
// tag set are filled in. A caller-supplied ID that is already taken fails
// with domain.ErrAlreadyExists. When the store is full the oldest
// non-favourite items are evicted until the write fits.
func (m *Manager) Save(ctx context.Context, item *domain.HistoryItem) (*domain.HistoryItem, error) {
	if err := checkCalculation(&item.Calculation); err != nil {
		return nil, err
	}
	h := item.Clone()
	if h.ID == "" {
		h.ID = m.newID()
	}
	now := m.now().UTC()
	h.CreatedAt, h.UpdatedAt = now, now
	if strings.TrimSpace(h.Name) == "" {
		h.Name = autoName(&h.Calculation)
	}
	if len(h.Tags) == 0 {
		h.Tags = autoTags(&h.Calculation)
	}
	h.Tags = domain.NormalizeTags(h.Tags)

	unlock := m.locks.Lock(h.ID)
	defer unlock()
	switch _, err := m.store.Get(ctx, h.ID); {
	case err == nil:
		return nil, &domain.StorageError{Op: "save", ID: h.ID, Err: domain.ErrAlreadyExists}
	case !errors.Is(err, domain.ErrNotFound):
		return nil, &domain.StorageError{Op: "save", ID: h.ID, Err: err}
	}
	if err := m.put(ctx, "save", h); err != nil {
		return nil, err
	}
	m.log.Debug("history item saved", "id", h.ID, "type", h.Type)
	return h.Clone(), nil
}

func (m *Manager) Get(ctx context.Context, id string) (*domain.HistoryItem, error) {
	h, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, &domain.StorageError{Op: "get", ID: id, Err: err}
	}
	return h, nil
}

func (m *Manager) List(ctx context.Context, f domain.HistoryFilter) (domain.HistoryPage, error) {
	p, err := m.store.List(ctx, f)
	if err != nil {
		return domain.HistoryPage{}, &domain.StorageError{Op: "list", Err: err}
	}
	return p, nil
}

// Update merges the non-nil fields of patch into the item.
func (m *Manager) Update(ctx context.Context, id string, patch domain.HistoryPatch) (*domain.HistoryItem, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, domain.Invalid("name", domain.ErrInvalidCalculation, "name cannot be blank")
	}
	return m.modify(ctx, "update", id, func(h *domain.HistoryItem) {
		if patch.Name != nil {
			h.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Tags != nil {
			h.Tags = domain.NormalizeTags(patch.Tags)
		}
		if patch.IsFavorite != nil {
			h.IsFavorite = *patch.IsFavorite
		}
	})
}

func (m *Manager) ToggleFavorite(ctx context.Context, id string) (*domain.HistoryItem, error) {
	return m.modify(ctx, "favorite", id, func(h *domain.HistoryItem) { h.IsFavorite = !h.IsFavorite })
}

// AddTags unions tags into the item's tag set.
func (m *Manager) AddTags(ctx context.Context, id string, tags ...string) (*domain.HistoryItem, error) {
	return m.modify(ctx, "tag", id, func(h *domain.HistoryItem) {
		h.Tags = domain.NormalizeTags(append(h.Tags, tags...))
	})
}

// RemoveTags subtracts tags from the item's tag set.
func (m *Manager) RemoveTags(ctx context.Context, id string, tags ...string) (*domain.HistoryItem, error) {
	drop := domain.NormalizeTags(tags)
	return m.modify(ctx, "untag", id, func(h *domain.HistoryItem) {
		h.Tags = slices.DeleteFunc(h.Tags, func(t string) bool { return slices.Contains(drop, t) })
	})
}

func (m *Manager) Delete(ctx context.Context, id string) error {
	unlock := m.locks.Lock(id)
	defer unlock()
	if err := m.store.Delete(ctx, id); err != nil {
		return &domain.StorageError{Op: "delete", ID: id, Err: err}
	}
	return nil
}

// Clear removes every item matching f. Pagination fields are ignored.
func (m *Manager) Clear(ctx context.Context, f domain.HistoryFilter) (int, error) {
	f.Limit, f.Offset = 0, 0
	n, err := m.store.Clear(ctx, f)
	if err != nil {
		return n, &domain.StorageError{Op: "clear", Err: err}
	}
	m.log.Info("history cleared", "removed", n)
	return n, nil
}

// Duplicate saves a copy of id under a new ID, named "<name> (Copy)" and
// not marked favourite.
func (m *Manager) Duplicate(ctx context.Context, id string) (*domain.HistoryItem, error) {
	src, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	cp := src.Clone()
	cp.ID = ""
	cp.Name = src.Name + " (Copy)"
	cp.IsFavorite = false
	return m.Save(ctx, cp)
}

// Share builds a link to id. ttl <= 0 uses DefaultShareTTL.
func (m *Manager) Share(ctx context.Context, id string, public bool, ttl time.Duration) (*domain.ShareLink, error) {
	if _, err := m.Get(ctx, id); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultShareTTL
	}
	now := m.now().UTC()
	token := uuid.NewString()
	return &domain.ShareLink{
		ItemID:    id,
		Token:     token,
		URL:       fmt.Sprintf("%s/history/%s?token=%s", m.shareURL, id, token),
		Public:    public,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// modify runs a read-modify-write on id while holding its lock.
func (m *Manager) modify(ctx context.Context, op, id string, mutate func(*domain.HistoryItem)) (*domain.HistoryItem, error) {
	unlock := m.locks.Lock(id)
	defer unlock()

	cur, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, &domain.StorageError{Op: op, ID: id, Err: err}
	}
	h := cur.Clone()
	mutate(h)
	h.UpdatedAt = m.now().UTC()
	if err := m.put(ctx, op, h); err != nil {
		return nil, err
	}
	return h.Clone(), nil
}

// put writes h, evicting the oldest non-favourite item each time the store
// reports its quota is full. Favourites, h itself, and items another
// operation currently holds are never evicted.
func (m *Manager) put(ctx context.Context, op string, h *domain.HistoryItem) error {
	for {
		_, err := m.store.Save(ctx, h)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrQuotaExceeded) {
			return &domain.StorageError{Op: op, ID: h.ID, Err: err}
		}
		evicted, evErr := m.evictOldest(ctx, h.ID)
		if evErr != nil {
			return &domain.StorageError{Op: op, ID: h.ID, Err: errors.Join(err, evErr)}
		}
		if !evicted {
			m.log.Warn("history quota exceeded with nothing left to evict", "id", h.ID)
			return &domain.StorageError{Op: op, ID: h.ID, Err: err}
		}
	}
}

func (m *Manager) evictOldest(ctx context.Context, keep string) (bool, error) {
	page, err := m.store.List(ctx, domain.HistoryFilter{})
	if err != nil {
		return false, err
	}
	for i := len(page.Items) - 1; i >= 0; i-- {
		victim := page.Items[i]
		if victim.IsFavorite || victim.ID == keep {
			continue
		}
		unlock, ok := m.locks.TryLock(victim.ID)
		if !ok {
			continue
		}
		err := m.store.Delete(ctx, victim.ID)
		unlock()
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return false, err
		}
		m.log.Info("history item evicted", "id", victim.ID, "created", victim.CreatedAt)
		return true, nil
	}
	return false, nil
}

func checkCalculation(c *domain.Calculation) error {
	switch c.Type {
	case domain.ContractCalculationType:
		if c.ContractInput == nil || c.ContractResult == nil {
			return domain.Invalid("calculation", domain.ErrInvalidCalculation, "contract calculation needs an input and a result")
		}
	case domain.PaycheckCalculationType:
		if c.PaycheckInput == nil || c.PaycheckResult == nil {
			return domain.Invalid("calculation", domain.ErrInvalidCalculation, "paycheck calculation needs an input and a result")
		}
	default:
		return domain.Invalid("type", domain.ErrInvalidCalculation, "calculation type %q is not one of contract, paycheck", c.Type)
	}
	return nil
}
