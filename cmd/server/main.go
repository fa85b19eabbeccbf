package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/csg33k/paycalc/internal/adapters/memory"
	"github.com/csg33k/paycalc/internal/adapters/pdf"
	sqliteadapter "github.com/csg33k/paycalc/internal/adapters/sqlite"
	"github.com/csg33k/paycalc/internal/config"
	"github.com/csg33k/paycalc/internal/export"
	"github.com/csg33k/paycalc/internal/handlers"
	"github.com/csg33k/paycalc/internal/history"
	"github.com/csg33k/paycalc/internal/logging"
	"github.com/csg33k/paycalc/internal/ports"
	"github.com/csg33k/paycalc/internal/tax"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("failed to open history store: %v", err)
	}
	defer closeStore()

	calc, err := tax.NewForYear(cfg.TaxYear)
	if err != nil {
		log.Fatalf("failed to load tax tables: %v", err)
	}

	hist := history.New(store,
		history.WithLogger(logger),
		history.WithShareBaseURL(cfg.ShareBaseURL),
	)
	exp := export.New(pdf.New(), export.WithLogger(logger))
	h := handlers.New(calc, hist, exp, logger)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			slog.Error("shutdown", "err", err)
		}
	}()

	slog.Info("paycalc running",
		"addr", "http://localhost:"+cfg.Port,
		"tax_year", cfg.TaxYear,
		"history", cfg.HistoryBackend,
		"max_items", cfg.HistoryMaxItems,
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func openStore(cfg config.Config) (ports.HistoryStorage, func(), error) {
	if cfg.HistoryBackend == config.BackendMemory {
		return memory.New(cfg.HistoryMaxItems), func() {}, nil
	}
	repo, err := sqliteadapter.New(cfg.DBPath, cfg.HistoryMaxItems)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("database opened", "path", cfg.DBPath)
	return repo, func() {
		if err := repo.Close(); err != nil {
			slog.Error("close database", "err", err)
		}
	}, nil
}
