/*package catalog keeps an SQLite index of the events written during a run:
one row per event with its header and a short kinematic summary. It lets
later analysis find events without decompressing the output files.

A Catalog is an event writer. Hand it to the particlization adapter's
WriteTask next to the soft hadron writer and it records every event the
writer sees. Like the file writers, it does not return per-event errors;
they show up through GetStatus and Err.
*/
package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jetscape/softhadron/lib"
	"github.com/jetscape/softhadron/lib/event"
	"github.com/jetscape/softhadron/lib/stats"
	"github.com/jetscape/softhadron/lib/task"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is stored in PRAGMA user_version.
const schemaVersion = 1

var _ task.EventWriter = &Catalog{}

// Catalog records events in an SQLite database.
type Catalog struct {
	db     *sql.DB
	runID  string
	err    error
	closed bool
}

// Row is one catalogued event.
type Row struct {
	RunID   string
	Event   int
	Weight  float64
	Sigma   float64
	Hadrons int
	SumE    float64
	MeanPt  float64
}

// Open creates or opens the catalog database at path.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to catalog: %w", err)
	}

	// One writer at a time.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", p, err)
		}
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{db: db}, nil
}

// migrate applies the schema to a new database and refuses databases
// written by a newer version.
func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read catalog version: %w", err)
	}
	if version > schemaVersion {
		return fmt.Errorf("catalog has schema version %d, but this build only "+
			"understands up to %d", version, schemaVersion)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to apply catalog schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("failed to set catalog version: %w", err)
	}
	return nil
}

// BeginRun registers a run. Events written afterwards belong to it.
func (c *Catalog) BeginRun(ctx context.Context, runID, output string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, output, format_version) VALUES (?, ?, ?)`,
		runID, output, lib.FormatVersion)
	if err != nil {
		return fmt.Errorf("failed to register run %s: %w", runID, err)
	}
	c.runID = runID
	return nil
}

// WriteEvent records ev under the current run.
func (c *Catalog) WriteEvent(ev *event.Event) {
	if !c.GetStatus() {
		return
	}
	if c.runID == "" {
		c.err = fmt.Errorf("event %d written before BeginRun", ev.Number)
		return
	}

	s := stats.Summarize(ev)
	_, err := c.db.Exec(`INSERT INTO events
		(run_id, event, weight, sigma, hadrons, sum_e, mean_pt)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.runID, s.Event, s.Weight, s.CrossSection, s.Hadrons, s.SumE, s.MeanPt)
	if err != nil {
		c.err = fmt.Errorf("failed to catalog event %d: %w", ev.Number, err)
	}
}

// GetStatus reports whether the catalog is open and has not seen an error.
func (c *Catalog) GetStatus() bool { return !c.closed && c.err == nil }

// Err returns the first error seen while writing, or nil.
func (c *Catalog) Err() error { return c.err }

// Events returns the catalogued events of a run, ordered by event number.
func (c *Catalog) Events(ctx context.Context, runID string) ([]Row, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT
		run_id, event, weight, sigma, hadrons, sum_e, mean_pt
		FROM events WHERE run_id = ? ORDER BY event ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.RunID, &r.Event, &r.Weight, &r.Sigma,
			&r.Hadrons, &r.SumE, &r.MeanPt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database. It is safe to call more than once.
func (c *Catalog) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.db.Close()
}
