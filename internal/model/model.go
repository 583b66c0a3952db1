package model

import "time"

// Option is one of the selectable multiple-choice answers, or the
// Unattempted sentinel meaning "no answer recorded".
type Option string

const (
	OptionUnattempted Option = "Unattempted"
	OptionA           Option = "A"
	OptionB           Option = "B"
	OptionC           Option = "C"
	OptionD           Option = "D"
)

// Valid reports whether o is a recordable value.
func (o Option) Valid() bool {
	switch o {
	case OptionUnattempted, OptionA, OptionB, OptionC, OptionD:
		return true
	}
	return false
}

// Question is one numbered question extracted from the paper text.
// Number is always Index+1: extraction order, not the digits printed
// in the text, is authoritative.
type Question struct {
	Index  int    `json:"index"`
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// KeyMissingAnswer is the correct-answer placeholder for a question
// the answer key has no entry for.
const KeyMissingAnswer = "N/A"

// AnswerKey maps a 1-based question number to its correct option letter
// (uppercase, trimmed). A missing entry is a valid state, not an error.
type AnswerKey map[int]string

// Lookup returns the correct option for number, or KeyMissingAnswer
// when the key has no entry.
func (k AnswerKey) Lookup(number int) string {
	if ans, ok := k[number]; ok {
		return ans
	}
	return KeyMissingAnswer
}

// RecordedAnswers maps a question index to the chosen option.
// Absence of an entry means the question is unattempted.
type RecordedAnswers map[int]Option

// Phase is the lifecycle state of an exam session.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseInProgress Phase = "in_progress"
	PhaseSubmitted  Phase = "submitted"
)

// Status classifies one question's scoring outcome.
type Status string

const (
	StatusCorrect     Status = "Correct"
	StatusWrong       Status = "Wrong"
	StatusUnattempted Status = "Unattempted"
	// StatusKeyMissing marks a question the user answered but the key
	// has no entry for. It is a neutral bucket: excluded from the
	// correct, wrong, and unattempted counters alike.
	StatusKeyMissing Status = "Key Missing"
)

// ResultRow is the scored outcome of a single question.
type ResultRow struct {
	Number        int    `json:"number"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	Status        Status `json:"status"`
}

// Summary aggregates a scoring run. Correct + Wrong + Unattempted +
// KeyMissing always equals TotalQuestions.
type Summary struct {
	FinalScore     float64 `json:"final_score"`
	Correct        int     `json:"correct"`
	Wrong          int     `json:"wrong"`
	Unattempted    int     `json:"unattempted"`
	KeyMissing     int     `json:"key_missing"`
	TotalQuestions int     `json:"total_questions"`
}

// MarkingScheme holds the per-attempt marking configuration. Values are
// taken as-is: the engine does not validate signs.
type MarkingScheme struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
}

// DefaultMarkingScheme is the conventional +4/-1 scheme.
var DefaultMarkingScheme = MarkingScheme{Positive: 4, Negative: 1}

// HistoryDateLayout is the timestamp format stored with history records.
const HistoryDateLayout = "2006-01-02 15:04"

// HistoryRecord is one completed attempt as persisted to history.
// Field order matches the serialized column contract:
// Shift, Score, Total_Q, Correct, Wrong, Date.
type HistoryRecord struct {
	Shift          string  `json:"shift"`
	Score          float64 `json:"score"`
	TotalQuestions int     `json:"total_q"`
	Correct        int     `json:"correct"`
	Wrong          int     `json:"wrong"`
	Date           string  `json:"date"`
}

// NewHistoryRecord builds a history record from a scoring summary.
func NewHistoryRecord(shift string, sum Summary, at time.Time) HistoryRecord {
	return HistoryRecord{
		Shift:          shift,
		Score:          sum.FinalScore,
		TotalQuestions: sum.TotalQuestions,
		Correct:        sum.Correct,
		Wrong:          sum.Wrong,
		Date:           at.Format(HistoryDateLayout),
	}
}

// Config holds runtime exam parameters set via CLI flags.
type Config struct {
	Shift   string        // label for the attempt, used for history grouping
	PDFPath string        // default question paper
	KeyPath string        // default answer key CSV
	Marking MarkingScheme // positive/negative marks per attempt
}
