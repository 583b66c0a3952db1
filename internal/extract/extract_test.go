package extract

import (
	"strings"
	"testing"
)

func TestExtractNumberedQuestions(t *testing.T) {
	text := "1. What is the capital of France?\nA) London B) Paris\n2. Which planet is red?\nA) Mars B) Venus\n3. Largest ocean?\nA) Pacific B) Atlantic"

	qs := New().Extract(text)
	if len(qs) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(qs))
	}
	for i, q := range qs {
		if q.Index != i {
			t.Errorf("question %d: index = %d", i, q.Index)
		}
		if q.Number != i+1 {
			t.Errorf("question %d: number = %d", i, q.Number)
		}
		if q.Text != strings.TrimSpace(q.Text) {
			t.Errorf("question %d not trimmed: %q", i, q.Text)
		}
	}
	if !strings.HasPrefix(qs[0].Text, "1. What is the capital") {
		t.Errorf("unexpected first question: %q", qs[0].Text)
	}
	if !strings.Contains(qs[1].Text, "A) Mars B) Venus") {
		t.Errorf("question text should span line breaks, got %q", qs[1].Text)
	}
	if strings.Contains(qs[1].Text, "Largest ocean") {
		t.Errorf("question 2 leaked into question 3's block: %q", qs[1].Text)
	}
}

func TestExtractIgnoresPrintedNumbers(t *testing.T) {
	// The paper numbers its questions 5 and 9; sequence position wins.
	text := "5. First question here\n9. Second question here"
	qs := New().Extract(text)
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(qs))
	}
	if qs[0].Number != 1 || qs[1].Number != 2 {
		t.Errorf("expected sequence numbers 1,2, got %d,%d", qs[0].Number, qs[1].Number)
	}
}

func TestExtractDropsPreamble(t *testing.T) {
	text := "GENERAL INSTRUCTIONS\nDo not open the booklet.\n1. Only question\nA) yes B) no"
	qs := New().Extract(text)
	if len(qs) != 1 {
		t.Fatalf("expected 1 question, got %d", len(qs))
	}
	if strings.Contains(qs[0].Text, "INSTRUCTIONS") {
		t.Errorf("preamble leaked into question: %q", qs[0].Text)
	}
}

func TestExtractFallback(t *testing.T) {
	for _, text := range []string{"", "no numbered markers anywhere", "1.no-space-after-period"} {
		qs := New().Extract(text)
		if len(qs) != 1 {
			t.Fatalf("input %q: expected 1 advisory entry, got %d", text, len(qs))
		}
		if qs[0].Text != FallbackMessage {
			t.Errorf("input %q: expected fallback message, got %q", text, qs[0].Text)
		}
		if !IsFallback(qs) {
			t.Errorf("input %q: IsFallback = false", text)
		}
	}
}

func TestIsFallbackRealQuestions(t *testing.T) {
	qs := New().Extract("1. A real question")
	if IsFallback(qs) {
		t.Error("IsFallback true for a real single-question extraction")
	}
}

type fixedSegmenter struct{ blocks []string }

func (f fixedSegmenter) Segment(string) []string { return f.blocks }

func TestCustomSegmenter(t *testing.T) {
	e := NewWithSegmenter(fixedSegmenter{blocks: []string{"first", "second"}})
	qs := e.Extract("ignored")
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(qs))
	}
	if qs[0].Text != "first" || qs[1].Number != 2 {
		t.Errorf("unexpected questions: %+v", qs)
	}
}
