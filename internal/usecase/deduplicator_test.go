package usecase

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/sakhi383/Walmart-Cost-Splitter/internal/domain"
)

func record(title, price string, qty int) domain.ExtractedRecord {
	return domain.ExtractedRecord{Title: title, UnitPrice: dec(price), Qty: qty}
}

// recordDiff compares records by value, decimals by numeric equality
var recordDiff = cmp.Comparer(func(a, b domain.ExtractedRecord) bool {
	return a.Title == b.Title && a.UnitInfo == b.UnitInfo && a.Qty == b.Qty && a.UnitPrice.Equal(b.UnitPrice)
})

func TestConfidenceScore(t *testing.T) {
	assert.InDelta(t, 10.5, ConfidenceScore(true, string(make([]rune, 60))), 1e-9)
	assert.InDelta(t, 1.0, ConfidenceScore(false, string(make([]rune, 300))), 1e-9, "length credit is capped")
	assert.InDelta(t, 0.0, ConfidenceScore(false, ""), 1e-9)
	assert.Greater(t, ConfidenceScore(true, "a"), ConfidenceScore(false, string(make([]rune, 120))))
}

func TestDeduplicate(t *testing.T) {
	tests := []struct {
		name  string
		cands []candidate
		want  []domain.ExtractedRecord
	}{
		{
			name:  "empty input gives empty list",
			cands: nil,
			want:  []domain.ExtractedRecord{},
		},
		{
			name: "same key keeps higher score",
			cands: []candidate{
				{record: record("Milk 1 gal", "3.48", 1), score: 0.1},
				{record: record("milk 1 gal ", "3.48", 2), score: 10.1},
			},
			want: []domain.ExtractedRecord{record("milk 1 gal ", "3.48", 2)},
		},
		{
			name: "equal score prefers longer title",
			cands: []candidate{
				{record: record("Milk", "3.48", 1), score: 1},
				{record: record("Milk ", "3.48", 3), score: 1},
			},
			want: []domain.ExtractedRecord{record("Milk ", "3.48", 3)},
		},
		{
			name: "equal score and length keeps first",
			cands: []candidate{
				{record: record("Milk", "3.48", 1), score: 1},
				{record: record("MILK", "3.48", 5), score: 1},
			},
			want: []domain.ExtractedRecord{record("Milk", "3.48", 1)},
		},
		{
			name: "different price is a different item",
			cands: []candidate{
				{record: record("Milk", "3.48", 1)},
				{record: record("Milk", "3.98", 1)},
			},
			want: []domain.ExtractedRecord{record("Milk", "3.48", 1), record("Milk", "3.98", 1)},
		},
		{
			name: "first-seen order survives replacement",
			cands: []candidate{
				{record: record("Eggs", "2.87", 1), score: 0},
				{record: record("Bread", "1.50", 1), score: 0},
				{record: record("Eggs", "2.87", 2), score: 10},
			},
			want: []domain.ExtractedRecord{record("Eggs", "2.87", 2), record("Bread", "1.50", 1)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Deduplicate(tt.cands)
			assert.NotNil(t, got)
			if diff := cmp.Diff(tt.want, got, recordDiff); diff != "" {
				t.Errorf("Deduplicate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
