// Package score computes per-question verdicts and the aggregate score
// for a finished attempt under positive/negative marking.
package score

import (
	"strings"

	"github.com/examalyzer/examalyzer/internal/model"
)

// Score classifies every question and totals the marks. It is pure:
// identical inputs always produce identical output.
//
// Classification priority per question: unattempted first, then correct,
// then wrong when the key knows the answer. A question the user answered
// but the key has no entry for lands in the neutral key-missing bucket,
// which contributes nothing to the score and to none of the three
// headline counters. That makes correct+wrong+unattempted fall short of
// the total whenever the key is incomplete; the key-missing count in the
// summary is what reconciles it.
//
// The marking scheme is applied as given. Negative values invert the
// usual behavior; guarding against that is the caller's job.
func Score(questions []model.Question, answers model.RecordedAnswers, key model.AnswerKey, scheme model.MarkingScheme) ([]model.ResultRow, model.Summary) {
	rows := make([]model.ResultRow, 0, len(questions))
	sum := model.Summary{TotalQuestions: len(questions)}

	for i := range questions {
		number := i + 1
		user := string(model.OptionUnattempted)
		if opt, ok := answers[i]; ok && opt != model.OptionUnattempted {
			user = strings.ToUpper(strings.TrimSpace(string(opt)))
		}
		correct := key.Lookup(number)

		var status model.Status
		switch {
		case user == string(model.OptionUnattempted):
			status = model.StatusUnattempted
			sum.Unattempted++
		case user == correct:
			status = model.StatusCorrect
			sum.Correct++
		case correct != model.KeyMissingAnswer:
			status = model.StatusWrong
			sum.Wrong++
		default:
			status = model.StatusKeyMissing
			sum.KeyMissing++
		}

		rows = append(rows, model.ResultRow{
			Number:        number,
			UserAnswer:    user,
			CorrectAnswer: correct,
			Status:        status,
		})
	}

	sum.FinalScore = float64(sum.Correct)*scheme.Positive - float64(sum.Wrong)*scheme.Negative
	return rows, sum
}
