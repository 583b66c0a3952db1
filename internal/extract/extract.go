// Package extract derives an ordered question list from the raw text of
// a question paper.
package extract

import (
	"regexp"
	"strings"

	"github.com/examalyzer/examalyzer/internal/model"
)

// FallbackMessage is the advisory entry returned when no question
// boundaries are found in the input.
const FallbackMessage = "Could not auto-detect questions. Please ensure PDF text is selectable and numbered (1. , 2. )."

// Segmenter splits raw paper text into question blocks. Implementations
// decide what counts as a question boundary; the extractor only assigns
// sequence numbers.
type Segmenter interface {
	Segment(text string) []string
}

// markerPattern matches a question boundary: digits, a period, then
// whitespace. A stray "12. " inside an answer choice or footer matches
// too; that fragility is why segmentation is behind an interface.
var markerPattern = regexp.MustCompile(`\d+\.\s`)

// RegexSegmenter is the default boundary strategy. A block runs from one
// marker up to the next marker or end of text, marker included, and may
// span line breaks. Text before the first marker is discarded.
type RegexSegmenter struct{}

func (RegexSegmenter) Segment(text string) []string {
	locs := markerPattern.FindAllStringIndex(text, -1)
	blocks := make([]string, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		block := strings.TrimSpace(text[loc[0]:end])
		blocks = append(blocks, block)
	}
	return blocks
}

// Extractor turns page text into numbered questions.
type Extractor struct {
	seg Segmenter
}

// New creates an extractor with the default regex segmenter.
func New() *Extractor {
	return NewWithSegmenter(RegexSegmenter{})
}

// NewWithSegmenter creates an extractor with a custom boundary strategy.
func NewWithSegmenter(seg Segmenter) *Extractor {
	return &Extractor{seg: seg}
}

// Extract returns the questions found in fullText, numbered by their
// position in the match sequence. The digits in the text are not
// trusted: stray numerals inside choices would otherwise shift the
// numbering. When nothing matches, Extract returns a single advisory
// entry carrying FallbackMessage rather than failing.
func (e *Extractor) Extract(fullText string) []model.Question {
	blocks := e.seg.Segment(fullText)
	if len(blocks) == 0 {
		return []model.Question{{Index: 0, Number: 1, Text: FallbackMessage}}
	}
	questions := make([]model.Question, len(blocks))
	for i, block := range blocks {
		questions[i] = model.Question{Index: i, Number: i + 1, Text: block}
	}
	return questions
}

// IsFallback reports whether questions is the advisory result produced
// when extraction found no boundaries. Callers should surface it as a
// diagnostic, not present it as an actual question.
func IsFallback(questions []model.Question) bool {
	return len(questions) == 1 && questions[0].Text == FallbackMessage
}
