package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/csg33k/paycalc/internal/compare"
	"github.com/csg33k/paycalc/internal/contract"
	"github.com/csg33k/paycalc/internal/domain"
	"github.com/csg33k/paycalc/internal/export"
	"github.com/csg33k/paycalc/internal/history"
	"github.com/csg33k/paycalc/internal/paycheck"
	"github.com/csg33k/paycalc/internal/tax"
)

// maxBody caps request bodies, archives included.
const maxBody = 8 << 20

type Handler struct {
	tax       *tax.Calculator
	contracts *contract.Engine
	paychecks *paycheck.Engine
	compare   *compare.Service
	history   *history.Manager
	exports   *export.Manager
	log       *slog.Logger
}

func New(calc *tax.Calculator, hist *history.Manager, exp *export.Manager, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	contracts := contract.New(calc)
	paychecks := paycheck.New(calc)
	return &Handler{
		tax:       calc,
		contracts: contracts,
		paychecks: paychecks,
		compare:   compare.NewService(contracts, paychecks, 0),
		history:   hist,
		exports:   exp,
		log:       log,
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)

	r.Get("/healthz", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/contracts/calculate", h.calculateContract)
		r.Post("/contracts/compare", h.compareContracts)
		r.Post("/contracts/optimal", h.optimalContract)
		r.Post("/contracts/break-even", h.breakEven)
		r.Post("/paychecks/calculate", h.calculatePaycheck)
		r.Post("/paychecks/compare", h.comparePaychecks)
		r.Post("/taxes/quarterly", h.quarterly)
		r.Post("/export", h.exportCalculation)

		r.Route("/history", func(r chi.Router) {
			r.Get("/", h.listHistory)
			r.Post("/", h.saveHistory)
			r.Delete("/", h.clearHistory)
			r.Get("/analytics", h.analytics)
			r.Get("/archive", h.exportArchive)
			r.Post("/archive", h.importArchive)
			r.Post("/exports", h.exportMany)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getHistory)
				r.Patch("/", h.updateHistory)
				r.Delete("/", h.deleteHistory)
				r.Post("/favorite", h.toggleFavorite)
				r.Post("/tags", h.addTags)
				r.Delete("/tags", h.removeTags)
				r.Post("/duplicate", h.duplicate)
				r.Post("/share", h.share)
				r.Get("/export", h.exportItem)
			})
		})
	})
	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "taxYear": h.tax.Year()})
}

// requestLogger logs one line per request at debug level.
func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

type errorBody struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

// fail maps domain errors onto HTTP statuses.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	body := errorBody{Error: err.Error()}
	status := http.StatusInternalServerError

	var verr *domain.ValidationError
	var serr *domain.StorageError
	switch {
	case errors.As(err, &verr):
		status, body.Field = http.StatusBadRequest, verr.Field
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrEmptyInputSet),
		errors.Is(err, domain.ErrUnsupportedFormat),
		errors.Is(err, domain.ErrNilResult):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrQuotaExceeded):
		status = http.StatusInsufficientStorage
	case errors.Is(err, domain.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
	}
	if errors.As(err, &serr) {
		body.Retryable = serr.Retryable()
	}
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads a JSON body into v, rejecting unknown fields.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &domain.ValidationError{Field: "body", Err: err, Message: "malformed JSON: " + err.Error()}
	}
	return nil
}

func attachment(w http.ResponseWriter, a *domain.Artifact) {
	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, a.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(a.Size))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.Content)
}

// filterFrom reads a history filter from query parameters.
func filterFrom(r *http.Request) (domain.HistoryFilter, error) {
	q := r.URL.Query()
	f := domain.HistoryFilter{
		OwnerID:       q.Get("owner"),
		Type:          domain.CalculationType(q.Get("type")),
		FavoritesOnly: q.Get("favorites") == "true",
		Search:        q.Get("q"),
	}
	for _, t := range q["tag"] {
		f.Tags = append(f.Tags, strings.Split(t, ",")...)
	}
	var err error
	if f.Limit, err = queryInt(q.Get("limit"), "limit"); err != nil {
		return f, err
	}
	if f.Offset, err = queryInt(q.Get("offset"), "offset"); err != nil {
		return f, err
	}
	if f.From, err = queryTime(q.Get("from"), "from"); err != nil {
		return f, err
	}
	if f.To, err = queryTime(q.Get("to"), "to"); err != nil {
		return f, err
	}
	return f, nil
}

func queryInt(s, field string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, domain.Invalid(field, domain.ErrInvalidAmount, "%q is not a non-negative integer", s)
	}
	return n, nil
}

func queryTime(s, field string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		if t, err = time.Parse(time.DateOnly, s); err != nil {
			return nil, domain.Invalid(field, domain.ErrInvalidAmount, "%q is not an RFC 3339 time or date", s)
		}
	}
	return &t, nil
}
