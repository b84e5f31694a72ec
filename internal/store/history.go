// Package store provides a SQLite-backed history of computed budgets.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/pilotbudget/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrRunNotFound is returned by LoadRun for an unknown id.
var ErrRunNotFound = errors.New("run not found")

// History stores computed plan results.
type History struct {
	db  *sql.DB
	now func() time.Time
}

// Run is one recorded computation of a plan's scaled budget.
type Run struct {
	ID                int64
	PlanKey           string
	PlanTitle         string
	Currency          string
	Units             int64
	ContingencyRate   float64
	ExchangeRate      *float64
	Subtotal          int64
	ContingencyAmount int64
	Total             int64
	ConvertedEstimate *float64
	Mismatches        int
	Source            string
	ComputedAt        time.Time
	Items             model.LineItemSet // only filled by LoadRun
}

// RunFromResult flattens a plan result into a Run, using the scaled budget.
func RunFromResult(res model.PlanResult) Run {
	return Run{
		PlanKey:           res.Plan.Key,
		PlanTitle:         res.Plan.Title,
		Currency:          res.Plan.Currency,
		Units:             res.Plan.Units,
		ContingencyRate:   res.Scaled.ContingencyRate,
		ExchangeRate:      res.Scaled.ExchangeRate,
		Subtotal:          res.Scaled.Subtotal,
		ContingencyAmount: res.Scaled.ContingencyAmount,
		Total:             res.Scaled.Total,
		ConvertedEstimate: res.Scaled.ConvertedEstimate,
		Mismatches:        res.MismatchCount(),
		Source:            res.Plan.Source,
		Items:             res.Scaled.Items.Clone(),
	}
}

// Dir returns the platform-appropriate cache directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "pilotbudget")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "pilotbudget")
}

// Path returns the full path to the history database.
func Path() string {
	return filepath.Join(Dir(), "history.db")
}

// Open opens or creates the history database at the given path.
func Open(dbPath string) (*History, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &History{db: db, now: time.Now}, nil
}

// Close closes the history database.
func (h *History) Close() error {
	return h.db.Close()
}

// SaveRun stores a run and its line items, returning the new run id.
func (h *History) SaveRun(r Run) (int64, error) {
	tx, err := h.db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	computedAt := r.ComputedAt
	if computedAt.IsZero() {
		computedAt = h.now()
	}

	res, err := tx.Exec(`INSERT INTO runs
		(plan_key, plan_title, currency, units, contingency_rate, exchange_rate,
		 subtotal, contingency_amount, total, converted_estimate, mismatches, source, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.PlanKey, r.PlanTitle, r.Currency, r.Units, r.ContingencyRate, nullFloat(r.ExchangeRate),
		r.Subtotal, r.ContingencyAmount, r.Total, nullFloat(r.ConvertedEstimate), r.Mismatches,
		r.Source, computedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for i, it := range r.Items {
		_, err = tx.Exec(`INSERT INTO run_items (run_id, position, name, amount) VALUES (?, ?, ?, ?)`,
			id, i, it.Name, it.Amount)
		if err != nil {
			return 0, fmt.Errorf("inserting run item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

const runColumns = `id, plan_key, plan_title, currency, units, contingency_rate, exchange_rate,
	subtotal, contingency_amount, total, converted_estimate, mismatches, source, computed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		r          Run
		exchange   sql.NullFloat64
		estimate   sql.NullFloat64
		source     sql.NullString
		computedAt string
	)
	err := row.Scan(&r.ID, &r.PlanKey, &r.PlanTitle, &r.Currency, &r.Units, &r.ContingencyRate, &exchange,
		&r.Subtotal, &r.ContingencyAmount, &r.Total, &estimate, &r.Mismatches, &source, &computedAt)
	if err != nil {
		return Run{}, err
	}

	if exchange.Valid {
		v := exchange.Float64
		r.ExchangeRate = &v
	}
	if estimate.Valid {
		v := estimate.Float64
		r.ConvertedEstimate = &v
	}
	if source.Valid {
		r.Source = source.String
	}
	r.ComputedAt, _ = time.Parse(time.RFC3339Nano, computedAt)
	return r, nil
}

// ListRuns returns up to limit runs, most recent first. A limit <= 0 returns all.
// An empty planKey matches every plan.
func (h *History) ListRuns(planKey string, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if planKey != "" {
		query += ` WHERE plan_key = ?`
		args = append(args, planKey)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LoadRun returns one run with its line items in their original order.
func (h *History) LoadRun(id int64) (Run, error) {
	r, err := scanRun(h.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, err
	}

	rows, err := h.db.Query(`SELECT name, amount FROM run_items WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return Run{}, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var it model.LineItem
		if err := rows.Scan(&it.Name, &it.Amount); err != nil {
			return Run{}, err
		}
		r.Items = append(r.Items, it)
	}
	return r, rows.Err()
}

// Prune deletes all but the newest keep runs and returns how many were removed.
func (h *History) Prune(keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := h.db.Exec(`DELETE FROM runs WHERE id NOT IN
		(SELECT id FROM runs ORDER BY id DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning history: %w", err)
	}
	return res.RowsAffected()
}

// RunCount returns the number of stored runs.
func (h *History) RunCount() (int, error) {
	var n int
	err := h.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&n)
	return n, err
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
