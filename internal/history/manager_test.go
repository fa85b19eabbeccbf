package history_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/csg33k/paycalc/internal/adapters/memory"
	"github.com/csg33k/paycalc/internal/domain"
	"github.com/csg33k/paycalc/internal/history"
	"github.com/csg33k/paycalc/internal/ports"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newManager(t *testing.T, store ports.HistoryStorage) *history.Manager {
	t.Helper()
	c := &clock{t: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}
	return history.New(store,
		history.WithClock(c.Now),
		history.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		history.WithShareBaseURL("https://pay.example.com/"),
	)
}

func contractCalc(state, city, rate string) domain.Calculation {
	return domain.Calculation{
		Type: domain.ContractCalculationType,
		ContractInput: &domain.ContractInput{
			Type:          domain.HourlyContract,
			HourlyRate:    domain.Dollars(rate),
			HoursPerWeek:  40,
			DurationWeeks: 13,
			Location:      domain.Location{State: state, City: city},
		},
		ContractResult: &domain.ContractResult{GrossPay: domain.Dollars("52000")},
	}
}

func paycheckCalc(state string) domain.Calculation {
	return domain.Calculation{
		Type: domain.PaycheckCalculationType,
		PaycheckInput: &domain.PaycheckInput{
			GrossSalary: domain.Dollars("120000"), PayPeriod: domain.Biweekly, State: state,
		},
		PaycheckResult: &domain.PaycheckResult{GrossPay: domain.Dollars("4615.38")},
	}
}

func save(t *testing.T, m *history.Manager, c domain.Calculation) *domain.HistoryItem {
	t.Helper()
	h, err := m.Save(context.Background(), &domain.HistoryItem{Calculation: c})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	return h
}

// ---------------------------------------------------------------------------
// Save and naming
// ---------------------------------------------------------------------------

func TestSave_FillsDefaults(t *testing.T) {
	m := newManager(t, memory.New(0))
	h := save(t, m, contractCalc("tx", "Austin", "85"))

	if h.ID == "" {
		t.Error("ID not assigned")
	}
	if h.CreatedAt.IsZero() || !h.CreatedAt.Equal(h.UpdatedAt) {
		t.Errorf("timestamps = %v / %v", h.CreatedAt, h.UpdatedAt)
	}
	if want := "Hourly contract in Austin, TX ($85.00/hr)"; h.Name != want {
		t.Errorf("Name = %q, want %q", h.Name, want)
	}
	if want := []string{"contract", "hourly", "tx"}; strings.Join(h.Tags, ",") != strings.Join(want, ",") {
		t.Errorf("Tags = %v, want %v", h.Tags, want)
	}

	p := save(t, m, paycheckCalc("CA"))
	if want := "Paycheck in CA ($120,000.00/yr, biweekly)"; p.Name != want {
		t.Errorf("Name = %q, want %q", p.Name, want)
	}
}

func TestSave_KeepsGivenNameAndNormalisesTags(t *testing.T) {
	m := newManager(t, memory.New(0))
	h, err := m.Save(context.Background(), &domain.HistoryItem{
		Name:        "Travel gig",
		Tags:        []string{" Nursing", "nursing", "ICU "},
		Calculation: contractCalc("CA", "", "90"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if h.Name != "Travel gig" || strings.Join(h.Tags, ",") != "icu,nursing" {
		t.Errorf("got name %q tags %v", h.Name, h.Tags)
	}
}

func TestSave_RejectsIncompleteCalculation(t *testing.T) {
	m := newManager(t, memory.New(0))
	_, err := m.Save(context.Background(), &domain.HistoryItem{
		Calculation: domain.Calculation{Type: domain.ContractCalculationType},
	})
	if !errors.Is(err, domain.ErrInvalidCalculation) {
		t.Fatalf("err = %v, want ErrInvalidCalculation", err)
	}
}

func TestSave_RejectsTakenID(t *testing.T) {
	m := newManager(t, memory.New(0))
	ctx := context.Background()

	orig := save(t, m, contractCalc("TX", "", "50"))
	if _, err := m.ToggleFavorite(ctx, orig.ID); err != nil {
		t.Fatal(err)
	}
	_, err := m.Save(ctx, &domain.HistoryItem{ID: orig.ID, Name: "other", Calculation: paycheckCalc("CA")})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}

	got, err := m.Get(ctx, orig.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsFavorite || got.Type != domain.ContractCalculationType || got.Name != orig.Name || !got.CreatedAt.Equal(orig.CreatedAt) {
		t.Errorf("item changed: %+v", got)
	}
}

func TestSave_HonoursFreeID(t *testing.T) {
	m := newManager(t, memory.New(0))
	h, err := m.Save(context.Background(), &domain.HistoryItem{ID: "chosen", Calculation: paycheckCalc("TX")})
	if err != nil {
		t.Fatal(err)
	}
	if h.ID != "chosen" {
		t.Errorf("ID = %q, want chosen", h.ID)
	}
}

// ---------------------------------------------------------------------------
// Quota eviction
// ---------------------------------------------------------------------------

func TestSave_EvictsOldestNonFavourite(t *testing.T) {
	store := memory.New(3)
	m := newManager(t, store)
	ctx := context.Background()

	oldest := save(t, m, contractCalc("TX", "", "50"))
	if _, err := m.ToggleFavorite(ctx, oldest.ID); err != nil {
		t.Fatal(err)
	}
	second := save(t, m, contractCalc("TX", "", "60"))
	third := save(t, m, contractCalc("TX", "", "70"))
	fourth := save(t, m, contractCalc("TX", "", "80"))

	if store.Len() != 3 {
		t.Fatalf("Len = %d, want 3", store.Len())
	}
	if _, err := m.Get(ctx, oldest.ID); err != nil {
		t.Errorf("favourite was evicted: %v", err)
	}
	if _, err := m.Get(ctx, second.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second item should be evicted, got %v", err)
	}
	for _, id := range []string{third.ID, fourth.ID} {
		if _, err := m.Get(ctx, id); err != nil {
			t.Errorf("Get(%s): %v", id, err)
		}
	}
}

func TestSave_QuotaWithOnlyFavourites(t *testing.T) {
	store := memory.New(1)
	m := newManager(t, store)
	ctx := context.Background()

	fav := save(t, m, contractCalc("TX", "", "50"))
	if _, err := m.ToggleFavorite(ctx, fav.ID); err != nil {
		t.Fatal(err)
	}
	_, err := m.Save(ctx, &domain.HistoryItem{Calculation: contractCalc("TX", "", "60")})
	if !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}
	var se *domain.StorageError
	if !errors.As(err, &se) || !se.Retryable() {
		t.Errorf("err %v is not a retryable StorageError", err)
	}
	if _, err := m.Get(ctx, fav.ID); err != nil {
		t.Errorf("favourite lost: %v", err)
	}
}

// pausingStore blocks the first Get of pause until release is closed.
type pausingStore struct {
	*memory.Store
	pause   string
	once    sync.Once
	reached chan struct{}
	release chan struct{}
}

func (p *pausingStore) Get(ctx context.Context, id string) (*domain.HistoryItem, error) {
	if id == p.pause {
		p.once.Do(func() {
			close(p.reached)
			<-p.release
		})
	}
	return p.Store.Get(ctx, id)
}

func TestSave_DoesNotEvictItemBeingModified(t *testing.T) {
	store := &pausingStore{
		Store:   memory.New(2),
		reached: make(chan struct{}),
		release: make(chan struct{}),
	}
	m := newManager(t, store)
	ctx := context.Background()

	old := save(t, m, contractCalc("TX", "", "50"))
	keep := save(t, m, contractCalc("TX", "", "60"))
	store.pause = old.ID

	done := make(chan error, 1)
	go func() {
		_, err := m.AddTags(ctx, old.ID, "pending")
		done <- err
	}()
	<-store.reached

	fresh := save(t, m, contractCalc("TX", "", "70"))
	close(store.release)
	if err := <-done; err != nil {
		t.Fatalf("AddTags: %v", err)
	}

	if store.Len() != 2 {
		t.Errorf("Len = %d, want 2", store.Len())
	}
	got, err := m.Get(ctx, old.ID)
	if err != nil {
		t.Fatalf("item under modification was evicted: %v", err)
	}
	if !strings.Contains(strings.Join(got.Tags, ","), "pending") {
		t.Errorf("tags = %v, update lost", got.Tags)
	}
	if _, err := m.Get(ctx, keep.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("next oldest item should be evicted, got %v", err)
	}
	if _, err := m.Get(ctx, fresh.ID); err != nil {
		t.Errorf("Get(fresh): %v", err)
	}
}

type brokenStore struct{ *memory.Store }

func (brokenStore) Save(context.Context, *domain.HistoryItem) (string, error) {
	return "", fmt.Errorf("dial backend: %w", domain.ErrStorageUnavailable)
}

func TestSave_SurfacesBackendFailure(t *testing.T) {
	m := history.New(brokenStore{memory.New(0)})
	_, err := m.Save(context.Background(), &domain.HistoryItem{Calculation: paycheckCalc("TX")})
	var se *domain.StorageError
	if !errors.As(err, &se) || se.Op != "save" || !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("err = %v, want save StorageError wrapping ErrStorageUnavailable", err)
	}
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

func TestUpdateTagsAndFavorite(t *testing.T) {
	m := newManager(t, memory.New(0))
	ctx := context.Background()
	h := save(t, m, contractCalc("NY", "New York", "120"))

	name := "NYC offer"
	fav := true
	got, err := m.Update(ctx, h.ID, domain.HistoryPatch{Name: &name, IsFavorite: &fav})
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != name || !got.IsFavorite || !got.UpdatedAt.After(h.UpdatedAt) {
		t.Errorf("after update: %+v", got)
	}

	got, err = m.AddTags(ctx, h.ID, "Shortlist", "hourly")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(got.Tags, ",") != "contract,hourly,ny,shortlist" {
		t.Errorf("Tags after add = %v", got.Tags)
	}
	got, err = m.RemoveTags(ctx, h.ID, "NY", "missing")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(got.Tags, ",") != "contract,hourly,shortlist" {
		t.Errorf("Tags after remove = %v", got.Tags)
	}

	got, err = m.ToggleFavorite(ctx, h.ID)
	if err != nil || got.IsFavorite {
		t.Errorf("ToggleFavorite = %v, %v", got, err)
	}

	blank := "  "
	if _, err := m.Update(ctx, h.ID, domain.HistoryPatch{Name: &blank}); err == nil {
		t.Error("blank name accepted")
	}
	if _, err := m.Update(ctx, "missing", domain.HistoryPatch{}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("update missing: %v", err)
	}
}

func TestConcurrentTagUpdatesDoNotLoseWrites(t *testing.T) {
	m := newManager(t, memory.New(0))
	ctx := context.Background()
	h := save(t, m, contractCalc("TX", "", "50"))

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.AddTags(ctx, h.ID, fmt.Sprintf("t%02d", i)); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	got, err := m.Get(ctx, h.ID)
	if err != nil {
		t.Fatal(err)
	}
	// 3 automatic tags plus 20 added.
	if len(got.Tags) != 23 {
		t.Errorf("len(Tags) = %d, want 23: %v", len(got.Tags), got.Tags)
	}
}

func TestDuplicate(t *testing.T) {
	m := newManager(t, memory.New(0))
	ctx := context.Background()
	h := save(t, m, contractCalc("TX", "", "50"))
	if _, err := m.ToggleFavorite(ctx, h.ID); err != nil {
		t.Fatal(err)
	}

	cp, err := m.Duplicate(ctx, h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if cp.ID == h.ID || cp.IsFavorite || cp.Name != h.Name+" (Copy)" {
		t.Errorf("duplicate = %+v", cp)
	}
	if cp.ContractInput.HourlyRate.String() != "50" {
		t.Errorf("duplicate input = %+v", cp.ContractInput)
	}
}

func TestDeleteAndClear(t *testing.T) {
	m := newManager(t, memory.New(0))
	ctx := context.Background()
	a := save(t, m, contractCalc("TX", "", "50"))
	save(t, m, paycheckCalc("TX"))
	save(t, m, paycheckCalc("CA"))

	if err := m.Delete(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	if err := m.Delete(ctx, a.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second delete: %v", err)
	}
	n, err := m.Clear(ctx, domain.HistoryFilter{Type: domain.PaycheckCalculationType, Limit: 1})
	if err != nil || n != 2 {
		t.Errorf("Clear = %d, %v; want 2", n, err)
	}
}

func TestShare(t *testing.T) {
	m := newManager(t, memory.New(0))
	ctx := context.Background()
	h := save(t, m, contractCalc("TX", "", "50"))

	link, err := m.Share(ctx, h.ID, true, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(link.URL, "https://pay.example.com/history/"+h.ID+"?token=") {
		t.Errorf("URL = %q", link.URL)
	}
	if !link.Public || link.ExpiresAt.Sub(link.CreatedAt) != history.DefaultShareTTL {
		t.Errorf("link = %+v", link)
	}
	if _, err := m.Share(ctx, "missing", false, time.Hour); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("share missing: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Archive round trip
// ---------------------------------------------------------------------------

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newManager(t, memory.New(0))
	save(t, src, contractCalc("TX", "Austin", "85"))
	save(t, src, paycheckCalc("CA"))
	fav := save(t, src, contractCalc("NY", "", "120"))
	if _, err := src.ToggleFavorite(ctx, fav.ID); err != nil {
		t.Fatal(err)
	}

	archive, err := src.Export(ctx, domain.HistoryFilter{})
	if err != nil {
		t.Fatal(err)
	}
	raw, err := json.Marshal(archive)
	if err != nil {
		t.Fatal(err)
	}
	var decoded domain.HistoryArchive
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}

	dst := newManager(t, memory.New(0))
	report, err := dst.Import(ctx, &decoded, false)
	if err != nil {
		t.Fatal(err)
	}
	if report.Imported != 3 || report.Skipped != 0 || len(report.Failures) != 0 {
		t.Fatalf("report = %+v", report)
	}

	again, err := dst.Export(ctx, domain.HistoryFilter{})
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range archive.Items {
		got := again.Items[i]
		if got.ID != want.ID {
			t.Fatalf("item %d id = %s, want %s", i, got.ID, want.ID)
		}
		wantJSON, _ := json.Marshal(want.Calculation)
		gotJSON, _ := json.Marshal(got.Calculation)
		if string(wantJSON) != string(gotJSON) {
			t.Errorf("item %s calculation differs:\n got %s\nwant %s", got.ID, gotJSON, wantJSON)
		}
		if got.IsFavorite != want.IsFavorite || !got.CreatedAt.Equal(want.CreatedAt) {
			t.Errorf("item %s metadata differs", got.ID)
		}
	}

	report, err = dst.Import(ctx, &decoded, false)
	if err != nil || report.Skipped != 3 {
		t.Errorf("re-import = %+v, %v; want 3 skipped", report, err)
	}
}

func TestImport_ReportsBadItems(t *testing.T) {
	m := newManager(t, memory.New(0))
	archive := &domain.HistoryArchive{
		Version: history.ArchiveVersion,
		Items: []*domain.HistoryItem{
			{ID: "ok", Calculation: paycheckCalc("TX")},
			nil,
			{ID: "bad", Calculation: domain.Calculation{Type: "pension"}},
		},
	}
	report, err := m.Import(context.Background(), archive, false)
	if err != nil {
		t.Fatal(err)
	}
	if report.Imported != 1 || len(report.Failures) != 2 || report.Failures[1].ID != "bad" {
		t.Errorf("report = %+v", report)
	}

	if _, err := m.Import(context.Background(), &domain.HistoryArchive{Version: "9"}, false); !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Errorf("version mismatch err = %v", err)
	}
}

// ---------------------------------------------------------------------------
// Analytics
// ---------------------------------------------------------------------------

func TestAnalytics(t *testing.T) {
	m := newManager(t, memory.New(0))
	ctx := context.Background()
	save(t, m, contractCalc("CA", "", "90"))
	save(t, m, contractCalc("TX", "Austin", "85"))
	save(t, m, contractCalc("TX", "Austin", "90"))
	p := save(t, m, paycheckCalc("CA"))
	if _, err := m.ToggleFavorite(ctx, p.ID); err != nil {
		t.Fatal(err)
	}

	a, err := m.Analytics(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if a.Total != 4 || a.Favorites != 1 {
		t.Errorf("Total=%d Favorites=%d", a.Total, a.Favorites)
	}
	if a.ByType[domain.ContractCalculationType] != 3 || a.ByType[domain.PaycheckCalculationType] != 1 {
		t.Errorf("ByType = %v", a.ByType)
	}
	// CA and "Austin, TX" both appear twice; CA was seen first.
	wantLoc := []domain.Frequency{{Value: "CA", Count: 2}, {Value: "Austin, TX", Count: 2}}
	if len(a.TopLocations) != 2 || a.TopLocations[0] != wantLoc[0] || a.TopLocations[1] != wantLoc[1] {
		t.Errorf("TopLocations = %v, want %v", a.TopLocations, wantLoc)
	}
	if a.TopRates[0] != (domain.Frequency{Value: "$90.00/hr", Count: 2}) {
		t.Errorf("TopRates[0] = %v", a.TopRates[0])
	}
}
