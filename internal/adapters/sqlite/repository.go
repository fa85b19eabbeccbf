// Package sqlite is the durable history store, backed by mattn/go-sqlite3
// with embedded goose migrations.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/csg33k/paycalc/internal/domain"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Repository struct {
	db       *sql.DB
	maxItems int
}

// New opens the database at dsn and applies pending migrations. At most
// maxItems rows are kept (unbounded when maxItems <= 0); saving a new item
// beyond that fails with domain.ErrQuotaExceeded.
func New(dsn string, maxItems int) (*Repository, error) {
	db, err := sql.Open("sqlite3", dsn+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set sqlite pragmas: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Repository{db: db, maxItems: maxItems}, nil
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}
	return nil
}

func (r *Repository) Close() error { return r.db.Close() }

// ── Writes ────────────────────────────────────────────────────────────────────

func (r *Repository) Save(ctx context.Context, h *domain.HistoryItem) (string, error) {
	if h.ID == "" {
		return "", errors.New("sqlite store: item has no id")
	}
	calc, err := json.Marshal(h.Calculation)
	if err != nil {
		return "", fmt.Errorf("encode calculation: %w", err)
	}
	tags, err := json.Marshal(nonNil(h.Tags))
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", classify(err)
	}
	defer tx.Rollback()

	if r.maxItems > 0 {
		var exists, count int
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM history_items WHERE id=?), COUNT(*) FROM history_items`, h.ID,
		).Scan(&exists, &count); err != nil {
			return "", classify(err)
		}
		if exists == 0 && count >= r.maxItems {
			return "", fmt.Errorf("sqlite store holds %d items: %w", r.maxItems, domain.ErrQuotaExceeded)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO history_items (
			id, owner_id, type, name, tags, is_favorite, calculation, created_at, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id=excluded.owner_id, type=excluded.type, name=excluded.name,
			tags=excluded.tags, is_favorite=excluded.is_favorite,
			calculation=excluded.calculation, updated_at=excluded.updated_at`,
		h.ID, h.OwnerID, string(h.Type), h.Name, string(tags), boolToInt(h.IsFavorite),
		string(calc), h.CreatedAt.UnixNano(), h.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return "", classify(err)
	}
	if err := tx.Commit(); err != nil {
		return "", classify(err)
	}
	return h.ID, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM history_items WHERE id=?`, id)
	if err != nil {
		return classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) Clear(ctx context.Context, f domain.HistoryFilter) (int, error) {
	where, args := whereClause(f)
	res, err := r.db.ExecContext(ctx, `DELETE FROM history_items`+where, args...)
	if err != nil {
		return 0, classify(err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// ── Reads ─────────────────────────────────────────────────────────────────────

const selectColumns = `SELECT id, owner_id, type, name, tags, is_favorite, calculation, created_at, updated_at FROM history_items`

func (r *Repository) Get(ctx context.Context, id string) (*domain.HistoryItem, error) {
	h, err := scanItem(r.db.QueryRowContext(ctx, selectColumns+` WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, classify(err)
	}
	return h, nil
}

func (r *Repository) List(ctx context.Context, f domain.HistoryFilter) (domain.HistoryPage, error) {
	where, args := whereClause(f)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history_items`+where, args...).Scan(&total); err != nil {
		return domain.HistoryPage{}, classify(err)
	}

	limit := -1
	if f.Limit > 0 {
		limit = f.Limit
	}
	offset := max(f.Offset, 0)
	rows, err := r.db.QueryContext(ctx,
		selectColumns+where+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, limit, offset)...)
	if err != nil {
		return domain.HistoryPage{}, classify(err)
	}
	defer rows.Close()

	items := []*domain.HistoryItem{}
	for rows.Next() {
		h, err := scanItem(rows)
		if err != nil {
			return domain.HistoryPage{}, classify(err)
		}
		items = append(items, h)
	}
	if err := rows.Err(); err != nil {
		return domain.HistoryPage{}, classify(err)
	}
	return domain.HistoryPage{Items: items, Total: total, HasMore: offset+len(items) < total}, nil
}

// whereClause translates every filter predicate except pagination.
func whereClause(f domain.HistoryFilter) (string, []any) {
	var conds []string
	var args []any
	if f.OwnerID != "" {
		conds, args = append(conds, "owner_id = ?"), append(args, f.OwnerID)
	}
	if f.Type != "" {
		conds, args = append(conds, "type = ?"), append(args, string(f.Type))
	}
	if f.FavoritesOnly {
		conds = append(conds, "is_favorite = 1")
	}
	if f.From != nil {
		conds, args = append(conds, "created_at >= ?"), append(args, f.From.UnixNano())
	}
	if f.To != nil {
		conds, args = append(conds, "created_at <= ?"), append(args, f.To.UnixNano())
	}
	if tags := domain.NormalizeTags(f.Tags); len(tags) > 0 {
		marks := strings.TrimSuffix(strings.Repeat("?,", len(tags)), ",")
		conds = append(conds, "EXISTS (SELECT 1 FROM json_each(history_items.tags) WHERE json_each.value IN ("+marks+"))")
		for _, t := range tags {
			args = append(args, t)
		}
	}
	if f.Search != "" {
		conds, args = append(conds, "instr(lower(name), lower(?)) > 0"), append(args, f.Search)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*domain.HistoryItem, error) {
	var (
		h                domain.HistoryItem
		typ, tags, calc  string
		favorite         int
		created, updated int64
	)
	if err := s.Scan(&h.ID, &h.OwnerID, &typ, &h.Name, &tags, &favorite, &calc, &created, &updated); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(calc), &h.Calculation); err != nil {
		return nil, fmt.Errorf("decode calculation %s: %w", h.ID, err)
	}
	if err := json.Unmarshal([]byte(tags), &h.Tags); err != nil {
		return nil, fmt.Errorf("decode tags %s: %w", h.ID, err)
	}
	h.Type = domain.CalculationType(typ)
	h.IsFavorite = favorite == 1
	h.CreatedAt = time.Unix(0, created).UTC()
	h.UpdatedAt = time.Unix(0, updated).UTC()
	return &h, nil
}

// classify maps driver errors onto the storage sentinels.
func classify(err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.Code {
		case sqlite3.ErrFull:
			return fmt.Errorf("%w: %w", domain.ErrQuotaExceeded, err)
		case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrCantOpen, sqlite3.ErrIoErr, sqlite3.ErrReadonly:
			return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
		}
	}
	if errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
	return err
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
