// Package session drives a single exam attempt through its lifecycle:
// not started, in progress, submitted.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/examalyzer/examalyzer/internal/model"
)

// ErrPastEnd is returned by Navigate when moving forward from the last
// question. Finishing the exam goes through Submit, not navigation.
var ErrPastEnd = errors.New("already at the last question; submit to finish")

// InvalidTransitionError reports an operation attempted in a phase that
// forbids it. It signals a caller bug, not a recoverable condition.
type InvalidTransitionError struct {
	Op    string
	Phase model.Phase
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s not allowed while session is %s", e.Op, e.Phase)
}

// Session holds one exam attempt. It is exclusively owned by its
// creator and supports exactly one attempt at a time; Reset is the only
// way to begin another.
type Session struct {
	questions []model.Question
	key       model.AnswerKey
	current   int
	answers   model.RecordedAnswers
	startedAt time.Time
	phase     model.Phase
}

// New returns a session in the not-started phase.
func New() *Session {
	return &Session{phase: model.PhaseNotStarted}
}

// Start begins the attempt with the given questions and answer key.
// The key may be empty but not nil-questions: an exam needs at least
// one question. Start clears any previous answers, positions the
// session at the first question, and stamps the start time.
func (s *Session) Start(questions []model.Question, key model.AnswerKey) error {
	if s.phase != model.PhaseNotStarted {
		return &InvalidTransitionError{Op: "start", Phase: s.phase}
	}
	if len(questions) == 0 {
		return errors.New("start: question list is empty")
	}
	if key == nil {
		key = model.AnswerKey{}
	}
	s.questions = questions
	s.key = key
	s.current = 0
	s.answers = model.RecordedAnswers{}
	s.startedAt = time.Now()
	s.phase = model.PhaseInProgress
	return nil
}

// RecordAnswer upserts the option chosen for the question at index.
// Recording Unattempted removes the entry, reverting the question to
// implicitly unanswered.
func (s *Session) RecordAnswer(index int, opt model.Option) error {
	if s.phase != model.PhaseInProgress {
		return &InvalidTransitionError{Op: "record answer", Phase: s.phase}
	}
	if index < 0 || index >= len(s.questions) {
		return fmt.Errorf("record answer: index %d out of range [0,%d)", index, len(s.questions))
	}
	if !opt.Valid() {
		return fmt.Errorf("record answer: invalid option %q", opt)
	}
	if opt == model.OptionUnattempted {
		delete(s.answers, index)
		return nil
	}
	s.answers[index] = opt
	return nil
}

// Navigate moves the current index by delta. Backward moves clamp at
// the first question; moving past the last question fails with
// ErrPastEnd.
func (s *Session) Navigate(delta int) error {
	if s.phase != model.PhaseInProgress {
		return &InvalidTransitionError{Op: "navigate", Phase: s.phase}
	}
	next := s.current + delta
	if next >= len(s.questions) {
		return ErrPastEnd
	}
	if next < 0 {
		next = 0
	}
	s.current = next
	return nil
}

// Submit moves the session to the submitted phase. Submitting an
// already submitted session is a no-op; submitting before Start fails.
func (s *Session) Submit() error {
	switch s.phase {
	case model.PhaseSubmitted:
		return nil
	case model.PhaseInProgress:
		s.phase = model.PhaseSubmitted
		return nil
	default:
		return &InvalidTransitionError{Op: "submit", Phase: s.phase}
	}
}

// Reset discards all session data and returns to the not-started phase.
// Valid from any phase.
func (s *Session) Reset() {
	s.questions = nil
	s.key = nil
	s.current = 0
	s.answers = nil
	s.startedAt = time.Time{}
	s.phase = model.PhaseNotStarted
}

// Elapsed returns the time since Start. It is only meaningful once the
// session has been started.
func (s *Session) Elapsed() (time.Duration, error) {
	if s.startedAt.IsZero() {
		return 0, errors.New("elapsed: session has not been started")
	}
	return time.Since(s.startedAt), nil
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() model.Phase { return s.phase }

// CurrentIndex returns the index of the question being shown.
func (s *Session) CurrentIndex() int { return s.current }

// CurrentQuestion returns the question at the current index.
func (s *Session) CurrentQuestion() (model.Question, error) {
	if s.phase != model.PhaseInProgress {
		return model.Question{}, &InvalidTransitionError{Op: "current question", Phase: s.phase}
	}
	return s.questions[s.current], nil
}

// Questions returns the attempt's question list.
func (s *Session) Questions() []model.Question { return s.questions }

// Key returns the attempt's answer key.
func (s *Session) Key() model.AnswerKey { return s.key }

// StartedAt returns the start timestamp (zero before Start).
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Answers returns a copy of the recorded answers, safe to hand to the
// scoring engine while the session keeps mutating.
func (s *Session) Answers() model.RecordedAnswers {
	out := make(model.RecordedAnswers, len(s.answers))
	for idx, opt := range s.answers {
		out[idx] = opt
	}
	return out
}
