package answerkey

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	key, err := Parse([][]string{
		{"1", "a"},
		{"2", " B "},
		{"3", "c"},
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(key) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(key))
	}
	for num, want := range map[int]string{1: "A", 2: "B", 3: "C"} {
		if got := key.Lookup(num); got != want {
			t.Errorf("Lookup(%d) = %q, want %q", num, got, want)
		}
	}
	if got := key.Lookup(4); got != "N/A" {
		t.Errorf("Lookup(4) = %q, want N/A", got)
	}
}

func TestParseDuplicateLastWins(t *testing.T) {
	key, err := Parse([][]string{
		{"1", "A"},
		{"1", "D"},
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := key.Lookup(1); got != "D" {
		t.Errorf("Lookup(1) = %q, want D (last occurrence)", got)
	}
}

func TestParseEmpty(t *testing.T) {
	key, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(key) != 0 {
		t.Fatalf("expected empty key, got %d entries", len(key))
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
	}{
		{"non-numeric question number", [][]string{{"one", "A"}}},
		{"too few columns", [][]string{{"1"}}},
		{"bad row after good row", [][]string{{"1", "A"}, {"x", "B"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := Parse(tt.rows)
			var kfe *KeyFormatError
			if !errors.As(err, &kfe) {
				t.Fatalf("expected *KeyFormatError, got %v", err)
			}
			// The returned key must still be usable.
			if key == nil || len(key) != 0 {
				t.Errorf("expected empty key on failure, got %v", key)
			}
		})
	}
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.csv")
	content := "Question,Answer\n1,a\n2,B\n3, d \n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write key file: %v", err)
	}

	key, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if len(key) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(key))
	}
	if key.Lookup(3) != "D" {
		t.Errorf("Lookup(3) = %q, want D", key.Lookup(3))
	}
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	var kfe *KeyFormatError
	if !errors.As(err, &kfe) {
		t.Fatalf("expected *KeyFormatError, got %v", err)
	}
}

func TestLoadCSVNoHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.csv")
	if err := os.WriteFile(path, []byte("1,A\n2,B\n"), 0o644); err != nil {
		t.Fatalf("write key file: %v", err)
	}
	key, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if len(key) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(key))
	}
}
