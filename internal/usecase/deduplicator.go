package usecase

import (
	"strings"
	"unicode/utf8"

	"github.com/sakhi383/Walmart-Cost-Splitter/internal/domain"
)

// Scoring weights for duplicate resolution
const (
	controlsBonus     = 10.0  // card has quantity input, stepper or "Remove"
	titleLengthCap    = 120.0 // titles longer than this earn no extra credit
	titleLengthWeight = 1.0
)

// candidate is a record still attached to its card and confidence score
type candidate struct {
	record domain.ExtractedRecord
	card   domain.Node
	score  float64
}

// ConfidenceScore rates how likely a card is a real, specific item.
// Purchase controls dominate; longer titles are weakly preferred.
func ConfidenceScore(hasControls bool, title string) float64 {
	s := 0.0
	if hasControls {
		s += controlsBonus
	}
	l := float64(utf8.RuneCountInString(title))
	if l > titleLengthCap {
		l = titleLengthCap
	}
	return s + titleLengthWeight*l/titleLengthCap
}

// dedupKey is the lowercase trimmed title plus the exact unit price
func dedupKey(r domain.ExtractedRecord) string {
	return strings.ToLower(strings.TrimSpace(r.Title)) + "@@" + r.UnitPrice.String()
}

// Deduplicate collapses candidates sharing a key, keeping the higher score and
// on a tie the longer title. Output keeps the first-seen order of each key.
func Deduplicate(cands []candidate) []domain.ExtractedRecord {
	order := make([]string, 0, len(cands))
	best := make(map[string]candidate, len(cands))

	for _, c := range cands {
		k := dedupKey(c.record)
		prev, ok := best[k]
		if !ok {
			order = append(order, k)
			best[k] = c
			continue
		}
		if c.score > prev.score ||
			(c.score == prev.score && utf8.RuneCountInString(c.record.Title) > utf8.RuneCountInString(prev.record.Title)) {
			best[k] = c
		}
	}

	records := make([]domain.ExtractedRecord, 0, len(order))
	for _, k := range order {
		records = append(records, best[k].record)
	}
	return records
}
