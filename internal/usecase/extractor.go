package usecase

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sakhi383/Walmart-Cost-Splitter/internal/domain"
)

// Page-level order summary fields
const (
	subtotalSelector = `[data-automation-id="summary-subtotal"], [data-testid*="subtotal"]`
	taxSelector      = `[data-automation-id="summary-tax"], [data-testid*="tax"]`
	shippingSelector = `[data-automation-id="summary-shipping"], [data-testid*="shipping"]`
	discountSelector = `[data-automation-id*="discount"], [data-testid*="discount"]`
)

// Extractor runs one heuristic extraction pass over a document
type Extractor struct {
	maxDepth int
	logger   *zap.Logger
}

// NewExtractor creates an extractor. maxDepth bounds ancestor walks.
func NewExtractor(maxDepth int, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{maxDepth: maxDepth, logger: logger}
}

// Extract finds the items and fees of a page. Finding nothing is a valid
// result with an empty item list.
func (e *Extractor) Extract(doc domain.Document) *domain.ExtractionResult {
	view := DetectView(doc.URL())
	resolver := NewBoundaryResolver(e.maxDepth, PolicyForView(view))
	fields := NewFieldExtractor(view)

	cards := resolver.Resolve(doc)
	cands := make([]candidate, 0, len(cards))
	for _, card := range cards {
		if c, ok := e.candidateFor(card, fields); ok {
			cands = append(cands, c)
		}
	}
	items := Deduplicate(cands)

	e.logger.Debug("extraction pass finished",
		zap.String("view", string(view)),
		zap.Int("cards", len(cards)),
		zap.Int("candidates", len(cands)),
		zap.Int("items", len(items)),
	)

	return buildResult(doc, view, items)
}

// candidateFor turns a card into a scored record, or rejects it
func (e *Extractor) candidateFor(card domain.Node, fields *FieldExtractor) (candidate, bool) {
	title := fields.Title(card)
	if title == "" || IsSummaryRow(title) {
		return candidate{}, false
	}

	unitInfo := fields.UnitInfo(card)
	pq, ok := fields.PriceQty(card, title, unitInfo)
	if !ok {
		return candidate{}, false
	}
	if isBoilerplateTitle(title) || !pq.UnitPrice.IsPositive() {
		return candidate{}, false
	}

	return candidate{
		record: domain.ExtractedRecord{
			Title:     title,
			UnitInfo:  unitInfo,
			UnitPrice: pq.UnitPrice,
			Qty:       pq.Qty,
		},
		card:  card,
		score: ConfidenceScore(LooksLikeQuantityControl(card), title),
	}, true
}

// buildResult attaches page-level fees. Subtotal falls back to the item sum.
func buildResult(doc domain.Document, view domain.View, items []domain.ExtractedRecord) *domain.ExtractionResult {
	subtotal := readAmount(doc, subtotalSelector)
	if subtotal.IsZero() {
		sum := decimal.Zero
		for _, it := range items {
			sum = sum.Add(it.LineTotal())
		}
		subtotal = Round3(sum)
	}

	fees := domain.Fees{
		Tax:      readAmount(doc, taxSelector),
		Shipping: readAmount(doc, shippingSelector),
		Discount: decimal.Zero,
	}
	if d := readAmount(doc, discountSelector); !d.IsZero() {
		fees.Discount = d.Abs().Neg()
	}

	return &domain.ExtractionResult{
		Items:    items,
		Fees:     fees,
		Subtotal: subtotal,
		Total:    Round3(subtotal.Add(fees.Tax).Add(fees.Shipping).Add(fees.Discount)),
		View:     view,
		URL:      doc.URL(),
	}
}

// readAmount parses the first node under selector, if it is visible
func readAmount(doc domain.Document, selector string) decimal.Decimal {
	nodes := doc.Find(selector)
	if len(nodes) == 0 || !nodes[0].Visible() {
		return decimal.Zero
	}
	return Round3(ParseCurrency(nodeText(nodes[0])))
}
