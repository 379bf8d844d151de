// Package trace records cache events into a SQLite database so runs can be
// compared offline.
package trace

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/e20sim/cache"
)

// DefaultBatchSize is the number of buffered events that triggers a flush.
const DefaultBatchSize = 10000

// RunInfo summarizes a finished run.
type RunInfo struct {
	Program      string
	CacheConfig  string
	Backend      string
	Instructions uint64
	Halted       bool
	Err          string
}

// StoredEvent is a cache event read back from the database.
type StoredEvent struct {
	Seq uint64
	PC  uint16
	cache.Event
}

type eventRow struct {
	seq uint64
	pc  uint16
	ev  cache.Event
}

// SQLiteRecorder writes cache events of one run into a SQLite database.
// Events are buffered and written in batches inside a transaction.
type SQLiteRecorder struct {
	*sql.DB
	statement *sql.Stmt

	dbName    string
	runID     string
	pending   []eventRow
	batchSize int
	seq       uint64
	err       error
	closed    bool
}

// RecorderOption is a functional option for configuring a SQLiteRecorder.
type RecorderOption func(*SQLiteRecorder)

// WithBatchSize sets how many events are buffered before a flush.
func WithBatchSize(n int) RecorderOption {
	return func(r *SQLiteRecorder) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// NewSQLiteRecorder opens (or creates) the database at path and starts a
// new run with a fresh ID. Buffered events are flushed at process exit.
func NewSQLiteRecorder(path string, opts ...RecorderOption) (*SQLiteRecorder, error) {
	r := &SQLiteRecorder{
		dbName:    path,
		runID:     xid.New().String(),
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(r)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace database: %w", err)
	}
	r.DB = db

	if err := r.createTables(); err != nil {
		_ = db.Close()
		return nil, err
	}

	r.statement, err = db.Prepare(`INSERT INTO cache_events
		(run_id, seq, pc, addr, level, outcome, row_index) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare trace statement: %w", err)
	}

	atexit.Register(func() { _ = r.Flush() })

	return r, nil
}

func (r *SQLiteRecorder) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			program TEXT,
			cache_config TEXT,
			backend TEXT,
			instructions INTEGER,
			halted INTEGER,
			error TEXT,
			finished_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS cache_events (
			run_id TEXT,
			seq INTEGER,
			pc INTEGER,
			addr INTEGER,
			level TEXT,
			outcome TEXT,
			row_index INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS cache_events_run ON cache_events (run_id, seq)`,
	}

	for _, s := range stmts {
		if _, err := r.Exec(s); err != nil {
			return fmt.Errorf("failed to create trace tables: %w", err)
		}
	}

	return nil
}

// RunID returns the ID of the run being recorded.
func (r *SQLiteRecorder) RunID() string {
	return r.runID
}

// Path returns the database path.
func (r *SQLiteRecorder) Path() string {
	return r.dbName
}

// RecordEvent buffers one cache event. Write failures are kept and
// reported by Flush and Close.
func (r *SQLiteRecorder) RecordEvent(pc uint16, ev cache.Event) {
	r.pending = append(r.pending, eventRow{seq: r.seq, pc: pc, ev: ev})
	r.seq++

	if len(r.pending) >= r.batchSize {
		_ = r.Flush()
	}
}

// Flush writes all buffered events to the database.
func (r *SQLiteRecorder) Flush() error {
	if r.err != nil || r.closed || len(r.pending) == 0 {
		return r.err
	}

	tx, err := r.Begin()
	if err != nil {
		r.err = fmt.Errorf("failed to begin trace transaction: %w", err)
		return r.err
	}

	stmt := tx.Stmt(r.statement)
	for _, row := range r.pending {
		_, err := stmt.Exec(r.runID, row.seq, row.pc, row.ev.Addr,
			row.ev.Level, row.ev.Outcome.String(), row.ev.Row)
		if err != nil {
			_ = tx.Rollback()
			r.err = fmt.Errorf("failed to insert cache event %d: %w", row.seq, err)
			return r.err
		}
	}

	if err := tx.Commit(); err != nil {
		r.err = fmt.Errorf("failed to commit trace transaction: %w", err)
		return r.err
	}

	r.pending = nil
	return nil
}

// FinishRun flushes buffered events and stores the run summary.
func (r *SQLiteRecorder) FinishRun(info RunInfo) error {
	if err := r.Flush(); err != nil {
		return err
	}

	_, err := r.Exec(`INSERT OR REPLACE INTO runs
		(id, program, cache_config, backend, instructions, halted, error, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.runID, info.Program, info.CacheConfig, info.Backend,
		info.Instructions, info.Halted, info.Err, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	return nil
}

// Events reads back the events of this run in order.
func (r *SQLiteRecorder) Events() ([]StoredEvent, error) {
	return ReadEvents(r.DB, r.runID)
}

// ReadEvents reads the events of one run in order.
func ReadEvents(db *sql.DB, runID string) ([]StoredEvent, error) {
	rows, err := db.Query(`SELECT seq, pc, addr, level, outcome, row_index
		FROM cache_events WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cache events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []StoredEvent
	for rows.Next() {
		var (
			e       StoredEvent
			outcome string
		)
		if err := rows.Scan(&e.Seq, &e.PC, &e.Addr, &e.Level, &outcome, &e.Row); err != nil {
			return nil, fmt.Errorf("failed to scan cache event: %w", err)
		}
		e.Outcome, err = parseOutcome(outcome)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// ReadRun reads the summary of one run.
func ReadRun(db *sql.DB, runID string) (RunInfo, error) {
	var (
		info   RunInfo
		errStr sql.NullString
	)
	row := db.QueryRow(`SELECT program, cache_config, backend, instructions, halted, error
		FROM runs WHERE id = ?`, runID)
	err := row.Scan(&info.Program, &info.CacheConfig, &info.Backend,
		&info.Instructions, &info.Halted, &errStr)
	if errors.Is(err, sql.ErrNoRows) {
		return RunInfo{}, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return RunInfo{}, fmt.Errorf("failed to read run: %w", err)
	}
	info.Err = errStr.String

	return info, nil
}

// Close flushes and closes the database.
func (r *SQLiteRecorder) Close() error {
	if r.closed {
		return r.err
	}
	flushErr := r.Flush()
	r.closed = true

	_ = r.statement.Close()
	if err := r.DB.Close(); err != nil && flushErr == nil {
		return fmt.Errorf("failed to close trace database: %w", err)
	}

	return flushErr
}

func parseOutcome(s string) (cache.Outcome, error) {
	for _, o := range []cache.Outcome{cache.Hit, cache.Miss, cache.StoreLogged} {
		if o.String() == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown outcome %q in trace", s)
}
