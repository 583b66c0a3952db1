package history

import (
	"strings"
	"testing"
	"time"

	"github.com/examalyzer/examalyzer/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRecord(shift string, score float64) model.HistoryRecord {
	return model.HistoryRecord{
		Shift:          shift,
		Score:          score,
		TotalQuestions: 50,
		Correct:        14,
		Wrong:          6,
		Date:           "2026-08-29 10:30",
	}
}

func TestListAllEmpty(t *testing.T) {
	s := newTestStore(t)

	records, err := s.ListAll()
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty history, got %d records", len(records))
	}

	count, err := s.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0, got %d", count)
	}
}

func TestAppendRoundTrip(t *testing.T) {
	s := newTestStore(t)

	rec := testRecord("Morning Shift - Set A", 50)
	if err := s.Append(rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	records, err := s.ListAll()
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0] != rec {
		t.Errorf("round trip mismatch: got %+v, want %+v", records[0], rec)
	}
}

func TestAppendInsertionOrder(t *testing.T) {
	s := newTestStore(t)

	for _, shift := range []string{"Shift 1", "Shift 2", "Shift 3"} {
		if err := s.Append(testRecord(shift, 10)); err != nil {
			t.Fatalf("Append %s: %v", shift, err)
		}
	}

	records, err := s.ListAll()
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i, want := range []string{"Shift 1", "Shift 2", "Shift 3"} {
		if records[i].Shift != want {
			t.Errorf("record %d shift = %q, want %q", i, records[i].Shift, want)
		}
	}
}

func TestNewHistoryRecordFromSummary(t *testing.T) {
	sum := model.Summary{
		FinalScore:     42.5,
		Correct:        11,
		Wrong:          2,
		Unattempted:    6,
		KeyMissing:     1,
		TotalQuestions: 20,
	}
	at := time.Date(2026, 8, 29, 14, 5, 0, 0, time.UTC)
	rec := model.NewHistoryRecord("Evening Shift", sum, at)

	if rec.Date != "2026-08-29 14:05" {
		t.Errorf("date = %q", rec.Date)
	}
	if rec.Score != 42.5 || rec.Correct != 11 || rec.Wrong != 2 || rec.TotalQuestions != 20 {
		t.Errorf("record = %+v", rec)
	}

	s := newTestStore(t)
	if err := s.Append(rec); err != nil {
		t.Fatalf("Append: %v", err)
	}
	records, _ := s.ListAll()
	if records[0] != rec {
		t.Errorf("round trip mismatch: %+v", records[0])
	}
}

func TestExportCSV(t *testing.T) {
	s := newTestStore(t)
	if err := s.Append(testRecord("Morning, Set A", 49.5)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	var out strings.Builder
	if err := s.ExportCSV(&out); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus 1 row, got %d lines", len(lines))
	}
	if lines[0] != "Shift,Score,Total_Q,Correct,Wrong,Date" {
		t.Errorf("header = %q", lines[0])
	}
	// The shift contains a comma, so the exporter must quote it.
	if lines[1] != `"Morning, Set A",49.5,50,14,6,2026-08-29 10:30` {
		t.Errorf("row = %q", lines[1])
	}
}

func TestExportCSVEmpty(t *testing.T) {
	s := newTestStore(t)
	var out strings.Builder
	if err := s.ExportCSV(&out); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	if strings.TrimSpace(out.String()) != "Shift,Score,Total_Q,Correct,Wrong,Date" {
		t.Errorf("expected header only, got %q", out.String())
	}
}
