package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/csg33k/paycalc/internal/adapters/memory"
	"github.com/csg33k/paycalc/internal/adapters/pdf"
	"github.com/csg33k/paycalc/internal/contract"
	"github.com/csg33k/paycalc/internal/domain"
	"github.com/csg33k/paycalc/internal/export"
	"github.com/csg33k/paycalc/internal/handlers"
	"github.com/csg33k/paycalc/internal/history"
	"github.com/csg33k/paycalc/internal/tax"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type fixture struct {
	srv  http.Handler
	calc *tax.Calculator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	calc, err := tax.NewForYear(2024)
	if err != nil {
		t.Fatal(err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	hist := history.New(memory.New(50), history.WithLogger(log), history.WithShareBaseURL("https://pay.example.com/"))
	exp := export.New(pdf.New(), export.WithLogger(log))
	return &fixture{srv: handlers.New(calc, hist, exp, log).Routes(), calc: calc}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, want, rec.Body.String())
	}
}

func texasYear() domain.ContractInput {
	return domain.ContractInput{
		Type:          domain.HourlyContract,
		HourlyRate:    domain.Dollars("50"),
		HoursPerWeek:  40,
		DurationWeeks: 52,
		Location:      domain.Location{State: "TX"},
		FilingStatus:  domain.Single,
	}
}

func (f *fixture) saved(t *testing.T) domain.HistoryItem {
	t.Helper()
	in := texasYear()
	res, err := contract.New(f.calc).Calculate(in)
	if err != nil {
		t.Fatal(err)
	}
	rec := f.do(t, http.MethodPost, "/api/history", domain.HistoryItem{
		Calculation: domain.Calculation{
			Type:           domain.ContractCalculationType,
			ContractInput:  &in,
			ContractResult: res,
		},
	})
	wantStatus(t, rec, http.StatusCreated)
	var item domain.HistoryItem
	decodeBody(t, rec, &item)
	return item
}

// ---------------------------------------------------------------------------
// Calculations
// ---------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	rec := newFixture(t).do(t, http.MethodGet, "/healthz", nil)
	wantStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"taxYear":2024`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestCalculateContract(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/contracts/calculate", texasYear())
	wantStatus(t, rec, http.StatusOK)

	var res domain.ContractResult
	decodeBody(t, rec, &res)
	if !res.GrossPay.Equal(decimal.NewFromInt(104000)) || !res.NetPay.Equal(decimal.NewFromInt(81323)) {
		t.Errorf("gross=%s net=%s", res.GrossPay, res.NetPay)
	}
}

func TestCalculateContract_ValidationError(t *testing.T) {
	f := newFixture(t)
	in := texasYear()
	in.Location.State = "ZZ"
	rec := f.do(t, http.MethodPost, "/api/contracts/calculate", in)
	wantStatus(t, rec, http.StatusBadRequest)

	var body struct{ Error, Field string }
	decodeBody(t, rec, &body)
	if body.Field != "location.state" {
		t.Errorf("field = %q (%s)", body.Field, body.Error)
	}
}

func TestCalculateContract_MalformedBody(t *testing.T) {
	f := newFixture(t)
	wantStatus(t, f.do(t, http.MethodPost, "/api/contracts/calculate", `{"hourlyRate":`), http.StatusBadRequest)
	wantStatus(t, f.do(t, http.MethodPost, "/api/contracts/calculate", `{"wage":10}`), http.StatusBadRequest)
}

func TestCalculatePaycheck(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/paychecks/calculate", domain.PaycheckInput{
		GrossSalary:  domain.Dollars("120000"),
		PayPeriod:    domain.Biweekly,
		FilingStatus: domain.Single,
		State:        "TX",
	})
	wantStatus(t, rec, http.StatusOK)
	var res domain.PaycheckResult
	decodeBody(t, rec, &res)
	if !res.NetPay.Equal(domain.Dollars("3556.98")) || res.TaxBracket != "24%" {
		t.Errorf("net=%s bracket=%s", res.NetPay, res.TaxBracket)
	}
}

func TestCompareContracts(t *testing.T) {
	f := newFixture(t)
	low, high := texasYear(), texasYear()
	high.HourlyRate = domain.Dollars("60")
	rec := f.do(t, http.MethodPost, "/api/contracts/compare", []domain.ContractInput{low, high})
	wantStatus(t, rec, http.StatusOK)

	var res struct {
		Winner struct {
			Index int `json:"index"`
		} `json:"winner"`
	}
	decodeBody(t, rec, &res)
	if res.Winner.Index != 1 {
		t.Errorf("winner = %d, want 1", res.Winner.Index)
	}

	wantStatus(t, f.do(t, http.MethodPost, "/api/contracts/compare", "[]"), http.StatusBadRequest)
}

func TestBreakEven(t *testing.T) {
	f := newFixture(t)
	candidate := texasYear()
	candidate.HourlyRate = domain.Dollars("60")
	rec := f.do(t, http.MethodPost, "/api/contracts/break-even", map[string]any{
		"current":   texasYear(),
		"candidate": candidate,
		"options":   map[string]any{"switchingCosts": "1000"},
	})
	wantStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"weeksToBreakEven":"`) {
		t.Errorf("expected a break-even week count: %s", rec.Body.String())
	}
}

// ---------------------------------------------------------------------------
// History
// ---------------------------------------------------------------------------

func TestHistoryLifecycle(t *testing.T) {
	f := newFixture(t)
	item := f.saved(t)
	if item.ID == "" || item.Name == "" {
		t.Fatalf("saved item = %+v", item)
	}
	base := "/api/history/" + item.ID

	wantStatus(t, f.do(t, http.MethodGet, base, nil), http.StatusOK)

	rec := f.do(t, http.MethodPost, base+"/favorite", nil)
	wantStatus(t, rec, http.StatusOK)
	var fav domain.HistoryItem
	decodeBody(t, rec, &fav)
	if !fav.IsFavorite {
		t.Error("favorite not toggled on")
	}

	rec = f.do(t, http.MethodPost, base+"/tags", map[string]any{"tags": []string{"Travel"}})
	wantStatus(t, rec, http.StatusOK)
	var tagged domain.HistoryItem
	decodeBody(t, rec, &tagged)
	if !strings.Contains(strings.Join(tagged.Tags, ","), "travel") {
		t.Errorf("tags = %v", tagged.Tags)
	}

	rec = f.do(t, http.MethodGet, "/api/history?favorites=true&tag=travel", nil)
	wantStatus(t, rec, http.StatusOK)
	var page domain.HistoryPage
	decodeBody(t, rec, &page)
	if page.Total != 1 {
		t.Errorf("filtered total = %d, want 1", page.Total)
	}

	rec = f.do(t, http.MethodPost, base+"/share", `{"public":true}`)
	wantStatus(t, rec, http.StatusCreated)
	var link domain.ShareLink
	decodeBody(t, rec, &link)
	if !strings.HasPrefix(link.URL, "https://pay.example.com/history/"+item.ID+"?token=") {
		t.Errorf("share url = %q", link.URL)
	}

	wantStatus(t, f.do(t, http.MethodPost, base+"/duplicate", nil), http.StatusCreated)
	wantStatus(t, f.do(t, http.MethodDelete, base, nil), http.StatusNoContent)
	wantStatus(t, f.do(t, http.MethodGet, base, nil), http.StatusNotFound)

	rec = f.do(t, http.MethodDelete, "/api/history", nil)
	wantStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"removed":1`) {
		t.Errorf("clear body = %s", rec.Body.String())
	}
}

func TestHistory_SaveTakenIDConflicts(t *testing.T) {
	f := newFixture(t)
	item := f.saved(t)
	item.Name = "replacement"
	rec := f.do(t, http.MethodPost, "/api/history", item)
	wantStatus(t, rec, http.StatusConflict)

	rec = f.do(t, http.MethodGet, "/api/history/"+item.ID, nil)
	wantStatus(t, rec, http.StatusOK)
	var got domain.HistoryItem
	decodeBody(t, rec, &got)
	if got.Name == "replacement" {
		t.Error("existing item was overwritten")
	}
}

func TestHistory_BadQuery(t *testing.T) {
	f := newFixture(t)
	wantStatus(t, f.do(t, http.MethodGet, "/api/history?limit=-3", nil), http.StatusBadRequest)
	wantStatus(t, f.do(t, http.MethodGet, "/api/history?from=yesterday", nil), http.StatusBadRequest)
}

func TestHistory_SaveWithoutResult(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/history", `{"type":"contract"}`)
	wantStatus(t, rec, http.StatusBadRequest)
}

func TestHistoryArchiveRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.saved(t)

	rec := f.do(t, http.MethodGet, "/api/history/archive", nil)
	wantStatus(t, rec, http.StatusOK)
	archive := rec.Body.String()

	rec = f.do(t, http.MethodPost, "/api/history/archive", archive)
	wantStatus(t, rec, http.StatusOK)
	var rep domain.ImportReport
	decodeBody(t, rec, &rep)
	if rep.Imported != 0 || rep.Skipped != 1 {
		t.Errorf("report = %+v, want the existing item skipped", rep)
	}
}

// ---------------------------------------------------------------------------
// Export
// ---------------------------------------------------------------------------

func TestExportItem(t *testing.T) {
	f := newFixture(t)
	item := f.saved(t)

	rec := f.do(t, http.MethodGet, "/api/history/"+item.ID+"/export?format=csv", nil)
	wantStatus(t, rec, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, ".csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "section,key,label") {
		t.Errorf("body = %q", rec.Body.String())
	}

	wantStatus(t, f.do(t, http.MethodGet, "/api/history/"+item.ID+"/export?format=docx", nil), http.StatusBadRequest)
}

func TestExportCalculation_NothingToExport(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/export?format=text", `{"type":"paycheck"}`)
	wantStatus(t, rec, http.StatusBadRequest)
}

func TestExportMany(t *testing.T) {
	f := newFixture(t)
	item := f.saved(t)

	rec := f.do(t, http.MethodPost, "/api/history/exports?format=json", map[string]any{"ids": []string{item.ID, "missing"}})
	wantStatus(t, rec, http.StatusOK)
	var resp struct {
		Items []struct {
			ID      string `json:"id"`
			Content []byte `json:"content"`
			Error   string `json:"error"`
		} `json:"items"`
		Succeeded, Failed int
	}
	decodeBody(t, rec, &resp)
	if resp.Succeeded != 1 || resp.Failed != 1 {
		t.Fatalf("succeeded=%d failed=%d", resp.Succeeded, resp.Failed)
	}
	if len(resp.Items[0].Content) == 0 || resp.Items[1].Error == "" {
		t.Errorf("items = %+v", resp.Items)
	}
}
