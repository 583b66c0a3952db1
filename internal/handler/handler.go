// Package handler exposes the exam session, scoring, and history over a
// JSON HTTP API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/examalyzer/examalyzer/internal/answerkey"
	"github.com/examalyzer/examalyzer/internal/extract"
	"github.com/examalyzer/examalyzer/internal/history"
	"github.com/examalyzer/examalyzer/internal/model"
	"github.com/examalyzer/examalyzer/internal/pdftext"
	"github.com/examalyzer/examalyzer/internal/score"
	"github.com/examalyzer/examalyzer/internal/session"
)

// Handler holds shared dependencies for HTTP handlers. The session is a
// single attempt owned by the handler; the mutex serializes the HTTP
// goroutines that reach it.
type Handler struct {
	store     *history.Store
	extractor *extract.Extractor
	config    model.Config

	mu        sync.Mutex
	session   *session.Session
	attemptID string
	shift     string
	lastRows  []model.ResultRow
	lastSum   *model.Summary
}

// New creates a new Handler.
func New(store *history.Store, cfg model.Config) *Handler {
	return &Handler{
		store:     store,
		extractor: extract.New(),
		config:    cfg,
		session:   session.New(),
	}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/exam/start", h.handleStart)
	r.Get("/exam", h.handleCurrent)
	r.Post("/exam/answer", h.handleAnswer)
	r.Post("/exam/navigate", h.handleNavigate)
	r.Post("/exam/submit", h.handleSubmit)
	r.Get("/exam/result", h.handleResult)
	r.Post("/exam/save", h.handleSave)
	r.Post("/exam/reset", h.handleReset)
	r.Get("/history", h.handleHistory)
}

type startRequest struct {
	Text  string `json:"text,omitempty"`
	PDF   string `json:"pdf,omitempty"`
	Key   string `json:"key,omitempty"`
	Shift string `json:"shift,omitempty"`
}

type startResponse struct {
	AttemptID      string `json:"attempt_id"`
	TotalQuestions int    `json:"total_questions"`
	KeyEntries     int    `json:"key_entries"`
	KeyWarning     string `json:"key_warning,omitempty"`
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	text := req.Text
	if text == "" {
		pdfPath := req.PDF
		if pdfPath == "" {
			pdfPath = h.config.PDFPath
		}
		if pdfPath == "" {
			http.Error(w, "no question source: provide text or a pdf path", http.StatusBadRequest)
			return
		}
		var err error
		text, err = pdftext.ExtractText(pdfPath)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
	}

	questions := h.extractor.Extract(text)
	if extract.IsFallback(questions) {
		// The single advisory entry is a diagnostic, not a question.
		http.Error(w, questions[0].Text, http.StatusUnprocessableEntity)
		return
	}

	key := model.AnswerKey{}
	var keyWarning string
	keyPath := req.Key
	if keyPath == "" {
		keyPath = h.config.KeyPath
	}
	if keyPath != "" {
		parsed, err := answerkey.LoadCSV(keyPath)
		if err != nil {
			// Recoverable: proceed with an empty key, every question
			// will score as key-missing.
			keyWarning = err.Error()
			slog.Warn("answer key unusable, proceeding with empty key", "path", keyPath, "error", err)
		}
		key = parsed
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.session.Start(questions, key); err != nil {
		h.writeSessionError(w, err)
		return
	}
	h.attemptID = uuid.NewString()
	h.shift = req.Shift
	if h.shift == "" {
		h.shift = h.config.Shift
	}
	h.lastRows = nil
	h.lastSum = nil

	slog.Info("exam started",
		"attempt_id", h.attemptID,
		"shift", h.shift,
		"questions", len(questions),
		"key_entries", len(key),
	)
	writeJSON(w, http.StatusCreated, startResponse{
		AttemptID:      h.attemptID,
		TotalQuestions: len(questions),
		KeyEntries:     len(key),
		KeyWarning:     keyWarning,
	})
}

type currentResponse struct {
	AttemptID      string          `json:"attempt_id,omitempty"`
	Phase          model.Phase     `json:"phase"`
	Index          int             `json:"index"`
	TotalQuestions int             `json:"total_questions"`
	Question       *model.Question `json:"question,omitempty"`
	Selected       model.Option    `json:"selected,omitempty"`
	ElapsedSeconds int             `json:"elapsed_seconds"`
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	resp := currentResponse{
		AttemptID:      h.attemptID,
		Phase:          h.session.Phase(),
		Index:          h.session.CurrentIndex(),
		TotalQuestions: len(h.session.Questions()),
	}
	if q, err := h.session.CurrentQuestion(); err == nil {
		resp.Question = &q
		selected := model.OptionUnattempted
		if opt, ok := h.session.Answers()[q.Index]; ok {
			selected = opt
		}
		resp.Selected = selected
	}
	if elapsed, err := h.session.Elapsed(); err == nil {
		resp.ElapsedSeconds = int(elapsed.Seconds())
	}
	writeJSON(w, http.StatusOK, resp)
}

type answerRequest struct {
	Index  *int   `json:"index,omitempty"`
	Option string `json:"option"`
}

func (h *Handler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	index := h.session.CurrentIndex()
	if req.Index != nil {
		index = *req.Index
	}
	if err := h.session.RecordAnswer(index, model.Option(req.Option)); err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"index": index, "option": req.Option})
}

type navigateRequest struct {
	Delta int `json:"delta"`
}

func (h *Handler) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.session.Navigate(req.Delta); err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"index": h.session.CurrentIndex()})
}

type resultResponse struct {
	AttemptID string            `json:"attempt_id"`
	Rows      []model.ResultRow `json:"rows"`
	Summary   model.Summary     `json:"summary"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.session.Submit(); err != nil {
		h.writeSessionError(w, err)
		return
	}

	rows, sum := score.Score(h.session.Questions(), h.session.Answers(), h.session.Key(), h.config.Marking)
	h.lastRows = rows
	h.lastSum = &sum

	slog.Info("exam submitted",
		"attempt_id", h.attemptID,
		"score", sum.FinalScore,
		"correct", sum.Correct,
		"wrong", sum.Wrong,
		"unattempted", sum.Unattempted,
		"key_missing", sum.KeyMissing,
	)
	writeJSON(w, http.StatusOK, resultResponse{AttemptID: h.attemptID, Rows: rows, Summary: sum})
}

func (h *Handler) handleResult(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.lastSum == nil {
		http.Error(w, "no submitted result", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{AttemptID: h.attemptID, Rows: h.lastRows, Summary: *h.lastSum})
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.lastSum == nil {
		http.Error(w, "no submitted result to save", http.StatusBadRequest)
		return
	}
	rec := model.NewHistoryRecord(h.shift, *h.lastSum, time.Now())
	if err := h.store.Append(rec); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.session.Reset()
	h.attemptID = ""
	h.shift = ""
	h.lastRows = nil
	h.lastSum = nil
	writeJSON(w, http.StatusOK, map[string]any{"phase": model.PhaseNotStarted})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListAll()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []model.HistoryRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) writeSessionError(w http.ResponseWriter, err error) {
	var ite *session.InvalidTransitionError
	switch {
	case errors.As(err, &ite):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
