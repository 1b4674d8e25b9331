package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists batch run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single connection keeps :memory: databases alive across calls
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS batch_runs (
			id         TEXT PRIMARY KEY,
			timestamp  INTEGER NOT NULL,
			scenario   TEXT,
			succeeded  INTEGER,
			failed     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON batch_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS sector_snapshots (
			id                       INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id                   TEXT NOT NULL REFERENCES batch_runs(id),
			sector                   TEXT NOT NULL,
			total_market_size        REAL,
			known_player_revenue     REAL,
			residual_market          REAL,
			remaining_company_count  INTEGER,
			avg_small_player_revenue REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sector_run ON sector_snapshots(run_id)`,

		`CREATE TABLE IF NOT EXISTS company_estimates (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL REFERENCES batch_runs(id),
			company     TEXT NOT NULL,
			sector      TEXT,
			revenue     REAL,
			source      TEXT,
			confidence  TEXT,
			weight      REAL,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_estimates_run ON company_estimates(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun writes the run, its sector snapshots and company results in one transaction.
func (r *SQLiteRecorder) RecordRun(run *BatchRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	succeeded := run.Succeeded()
	if _, err := tx.Exec(`INSERT INTO batch_runs (id, timestamp, scenario, succeeded, failed)
		VALUES (?,?,?,?,?)`,
		run.ID, run.StartedAt.Unix(), run.Scenario, succeeded, len(run.Results)-succeeded,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, s := range run.Sectors {
		if _, err := tx.Exec(`INSERT INTO sector_snapshots
			(run_id, sector, total_market_size, known_player_revenue, residual_market,
			 remaining_company_count, avg_small_player_revenue)
			VALUES (?,?,?,?,?,?,?)`,
			run.ID, s.Name, s.TotalMarketSize, s.KnownPlayerRevenue, s.ResidualMarket,
			s.RemainingCompanyCount, s.AvgSmallPlayerRevenue,
		); err != nil {
			return fmt.Errorf("insert sector %s: %w", s.Name, err)
		}
	}

	for _, c := range run.Results {
		if _, err := tx.Exec(`INSERT INTO company_estimates
			(run_id, company, sector, revenue, source, confidence, weight, error)
			VALUES (?,?,?,?,?,?,?,?)`,
			run.ID, c.Company, c.Sector, c.Revenue, string(c.Source), string(c.Confidence), c.Weight, c.Error,
		); err != nil {
			return fmt.Errorf("insert estimate %s: %w", c.Company, err)
		}
	}

	return tx.Commit()
}

// RecentRuns returns the latest runs, newest first.
func (r *SQLiteRecorder) RecentRuns(limit int) ([]RunSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, timestamp, scenario, succeeded, failed
		FROM batch_runs ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		var ts int64
		if err := rows.Scan(&s.ID, &ts, &s.Scenario, &s.Succeeded, &s.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		s.StartedAt = time.Unix(ts, 0)
		out = append(out, s)
	}
	return out, rows.Err()
}

// CountEstimates returns the number of company rows stored for a run.
func (r *SQLiteRecorder) CountEstimates(runID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM company_estimates WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
