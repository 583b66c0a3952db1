// Package history persists completed attempts as an append-only log.
package history

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/examalyzer/examalyzer/internal/model"

	_ "modernc.org/sqlite"
)

// PersistenceError reports a failed store operation. The attempt's
// in-memory result stays valid and displayable even when saving fails.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("history %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Store is an append-only attempt log backed by SQLite. Rows are never
// updated or deleted; listing returns insertion order.
type Store struct {
	db *sql.DB
}

// New opens (creating if absent) the history database at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS attempts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		shift TEXT NOT NULL,
		score REAL NOT NULL,
		total_q INTEGER NOT NULL,
		correct INTEGER NOT NULL,
		wrong INTEGER NOT NULL,
		date TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append stores one completed attempt.
func (s *Store) Append(rec model.HistoryRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO attempts (shift, score, total_q, correct, wrong, date) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Shift, rec.Score, rec.TotalQuestions, rec.Correct, rec.Wrong, rec.Date,
	)
	if err != nil {
		return &PersistenceError{Op: "append", Err: err}
	}
	return nil
}

// ListAll returns every stored attempt in insertion order. A fresh
// store yields an empty slice, never an error.
func (s *Store) ListAll() ([]model.HistoryRecord, error) {
	rows, err := s.db.Query(`SELECT shift, score, total_q, correct, wrong, date FROM attempts ORDER BY id`)
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	defer rows.Close()
	var records []model.HistoryRecord
	for rows.Next() {
		var r model.HistoryRecord
		if err := rows.Scan(&r.Shift, &r.Score, &r.TotalQuestions, &r.Correct, &r.Wrong, &r.Date); err != nil {
			return nil, &PersistenceError{Op: "list", Err: err}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	return records, nil
}

// Count returns the number of stored attempts.
func (s *Store) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM attempts`).Scan(&count)
	if err != nil {
		return 0, &PersistenceError{Op: "count", Err: err}
	}
	return count, nil
}

// csvHeader is the column contract for external readers of exported
// history. Order matters.
var csvHeader = []string{"Shift", "Score", "Total_Q", "Correct", "Wrong", "Date"}

// ExportCSV writes all attempts to w in the fixed six-column layout.
func (s *Store) ExportCSV(w io.Writer) error {
	records, err := s.ListAll()
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return &PersistenceError{Op: "export", Err: err}
	}
	for _, r := range records {
		row := []string{
			r.Shift,
			strconv.FormatFloat(r.Score, 'f', -1, 64),
			strconv.Itoa(r.TotalQuestions),
			strconv.Itoa(r.Correct),
			strconv.Itoa(r.Wrong),
			r.Date,
		}
		if err := cw.Write(row); err != nil {
			return &PersistenceError{Op: "export", Err: err}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return &PersistenceError{Op: "export", Err: err}
	}
	return nil
}
