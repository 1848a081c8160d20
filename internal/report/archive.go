package report

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Archive provides durable storage for test-run reports.
// Uses SQLite with WAL mode for concurrent read access.
//
// The archive stores reports only - no engine state is persisted, and
// nothing in the oracle reads the archive back at match time.
type Archive struct {
	db *sql.DB
}

// OpenArchive creates or opens a SQLite database at the given path and
// applies the schema. Use ":memory:" for an ephemeral archive in tests.
func OpenArchive(path string) (*Archive, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect archive: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent sink traffic.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply archive schema: %w", err)
	}

	return &Archive{db: db}, nil
}

// Close releases the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}

// BeginRun records a new run and returns a sink that appends report
// entries under it. The run token comes from gen.
func (a *Archive) BeginRun(ctx context.Context, name string, startedAt time.Time, gen RunTokenGenerator) (*RunSink, error) {
	id := gen.Generate()

	_, err := a.db.ExecContext(ctx, `
		INSERT INTO runs (id, name, started_at, pass)
		VALUES (?, ?, ?, NULL)
	`, id, name, startedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("begin run %s: %w", name, err)
	}

	return &RunSink{archive: a, runID: id, logger: slog.Default()}, nil
}

// FinishRun stores the final verdict for a run.
func (a *Archive) FinishRun(ctx context.Context, runID string, pass bool) error {
	res, err := a.db.ExecContext(ctx, `UPDATE runs SET pass = ? WHERE id = ?`, pass, runID)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", runID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run %s: %w", runID, err)
	}
	if n == 0 {
		return fmt.Errorf("finish run %s: run not found", runID)
	}
	return nil
}

// RunEntries reads back all entries for a run in append order.
func (a *Archive) RunEntries(ctx context.Context, runID string) ([]Entry, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT seq, kind, outcome, description
		FROM entries
		WHERE run_id = ?
		ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read run %s: %w", runID, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var outcome int64
		if err := rows.Scan(&e.Seq, &e.Kind, &outcome, &e.Description); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Outcome = outcome != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RunSink appends report entries to the archive under one run.
//
// Sink methods cannot return errors, so write failures are logged with
// full entry context and reporting continues. This mirrors the
// engine-wide log-and-continue policy for non-fatal infrastructure
// failures.
type RunSink struct {
	archive *Archive
	runID   string
	seq     atomic.Int64
	logger  *slog.Logger
}

// RunID returns the token identifying this sink's run.
func (s *RunSink) RunID() string {
	return s.runID
}

func (s *RunSink) write(kind string, outcome bool, description string) {
	seq := s.seq.Add(1)
	_, err := s.archive.db.Exec(`
		INSERT INTO entries (run_id, seq, kind, outcome, description)
		VALUES (?, ?, ?, ?, ?)
	`, s.runID, seq, kind, outcome, description)
	if err != nil {
		s.logger.Error("archive write failed",
			"error", err,
			"run_id", s.runID,
			"seq", seq,
			"kind", kind,
			"description", description,
		)
	}
}

// Assert implements Sink.
func (s *RunSink) Assert(condition bool, description string) {
	s.write(KindAssert, condition, description)
}

// Assume implements Sink.
func (s *RunSink) Assume(condition bool, description string) {
	s.write(KindAssume, condition, description)
}

// Checkpoint implements Sink.
func (s *RunSink) Checkpoint(description string) {
	s.write(KindCheckpoint, true, description)
}

// Comment implements Sink.
func (s *RunSink) Comment(description string) {
	s.write(KindComment, true, description)
}

// BeginTest implements Sink.
func (s *RunSink) BeginTest(name string) {
	s.write(KindBeginTest, true, name)
}

// EndTest implements Sink.
func (s *RunSink) EndTest() {
	s.write(KindEndTest, true, "")
}
