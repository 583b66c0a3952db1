// Package answerkey parses tabular answer-key data into a canonical
// question-number to option-letter mapping.
package answerkey

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/examalyzer/examalyzer/internal/model"
)

// KeyFormatError reports an unparseable answer-key source. It is
// recoverable: the caller surfaces the diagnostic, keeps an empty key,
// and lets the exam proceed with every question scored as key-missing.
type KeyFormatError struct {
	Row int // 1-based source row, 0 when the whole source is unreadable
	Err error
}

func (e *KeyFormatError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("answer key row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("answer key: %v", e.Err)
}

func (e *KeyFormatError) Unwrap() error { return e.Err }

// Parse builds an answer key from two-column rows: question number,
// option letter. Options are uppercased and trimmed; on duplicate
// question numbers the last row wins. A malformed row fails the whole
// parse with a *KeyFormatError and an empty (still usable) key.
func Parse(rows [][]string) (model.AnswerKey, error) {
	key := model.AnswerKey{}
	for i, row := range rows {
		if len(row) < 2 {
			return model.AnswerKey{}, &KeyFormatError{Row: i + 1, Err: fmt.Errorf("expected 2 columns, got %d", len(row))}
		}
		num, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return model.AnswerKey{}, &KeyFormatError{Row: i + 1, Err: fmt.Errorf("question number %q is not an integer", row[0])}
		}
		key[num] = strings.ToUpper(strings.TrimSpace(row[1]))
	}
	return key, nil
}

// LoadCSV reads an answer key from a CSV file. A leading header row
// (first column non-numeric, e.g. "Question,Answer") is skipped.
// Any read or parse failure comes back as a *KeyFormatError.
func LoadCSV(path string) (model.AnswerKey, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.AnswerKey{}, &KeyFormatError{Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return model.AnswerKey{}, &KeyFormatError{Err: err}
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		if _, err := strconv.Atoi(strings.TrimSpace(rows[0][0])); err != nil {
			rows = rows[1:]
		}
	}
	return Parse(rows)
}
