package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/sakhi383/Walmart-Cost-Splitter/internal/domain"
)

// maxUnitInfoLen is the longest text accepted as a per-unit annotation
const maxUnitInfoLen = 40

var (
	unitQtyPairRegex = regexp.MustCompile(`(?i)Unit:\s*\$([0-9.,]+)\s*\|\s*Qty:\s*([0-9]+)`)
	unitOnlyRegex    = regexp.MustCompile(`(?i)Unit:\s*\$([0-9.,]+)(?:\s*/\w+)?`)
	orderQtyRegex    = regexp.MustCompile(`(?i)\bQty[:\s]*([0-9]{1,3})\b`)
	listingQtyRegex  = regexp.MustCompile(`(?i)\bQty:? (\d{1,3})\b`)
)

// priceQty is a resolved unit price and quantity
type priceQty struct {
	UnitPrice decimal.Decimal
	Qty       int
}

// FieldExtractor reads title, unit info, price and quantity from a card
type FieldExtractor struct {
	view domain.View
}

// NewFieldExtractor creates an extractor for a page kind
func NewFieldExtractor(view domain.View) *FieldExtractor {
	return &FieldExtractor{view: view}
}

// titleNode picks the longest acceptable title candidate in the card, or the
// first candidate when every one is rejected
func titleNode(card domain.Node) domain.Node {
	cands := visibleOnly(card.Find(titleSelector))
	var best domain.Node
	bestLen := -1
	for _, n := range cands {
		t := nodeText(n)
		if t == "" || isBadTitleText(t) {
			continue
		}
		if l := utf8.RuneCountInString(t); l > bestLen {
			best, bestLen = n, l
		}
	}
	if best == nil && len(cands) > 0 {
		return cands[0]
	}
	return best
}

// Title returns the whitespace-normalized title of a card
func (e *FieldExtractor) Title(card domain.Node) string {
	return NormalizeSpace(nodeText(titleNode(card)))
}

// UnitInfo searches the title's parent and that parent's next sibling for a
// short per-unit annotation. First match wins.
func (e *FieldExtractor) UnitInfo(card domain.Node) string {
	title := titleNode(card)
	if title == nil {
		return ""
	}
	parent := title.Parent()
	if parent == nil {
		return ""
	}
	scopes := []domain.Node{parent}
	if next := parent.NextSibling(); next != nil {
		scopes = append(scopes, next)
	}
	for _, scope := range scopes {
		for _, n := range visibleOnly(scope.Find(textNodeSelector)) {
			t := nodeText(n)
			if t != "" && looksLikeUnitAnnotation(t) && utf8.RuneCountInString(t) < maxUnitInfoLen {
				return NormalizeSpace(t)
			}
		}
	}
	return ""
}

// PriceQty resolves price and quantity with the strategy of the page kind.
// ok is false when no strategy produced a price.
func (e *FieldExtractor) PriceQty(card domain.Node, title, unitInfo string) (priceQty, bool) {
	if e.view == domain.ViewOrderHistory {
		if pq, ok := orderPriceQty(card); ok {
			return pq, true
		}
		if derived, ok := DerivePrice(title, unitInfo); ok {
			return priceQty{UnitPrice: derived, Qty: listingQty(card)}, true
		}
		return priceQty{}, false
	}
	return priceQty{UnitPrice: listingPrice(card), Qty: listingQty(card)}, true
}

// listingPrice prefers a price in the right-aligned summary column, then any
// visible price in the card
func listingPrice(card domain.Node) decimal.Decimal {
	if n := firstVisiblePrice(card, rightSummarySelector); n != nil {
		return Round3(ParseCurrency(nodeText(n)))
	}
	if n := firstVisiblePrice(card, textNodeSelector); n != nil {
		return Round3(ParseCurrency(nodeText(n)))
	}
	return decimal.Zero
}

// listingQty reads a quantity input, then "Qty: N" text, defaulting to 1
func listingQty(card domain.Node) int {
	if inputs := card.Find(quantityInputSelector); len(inputs) > 0 {
		if v, ok := inputs[0].Attr("value"); ok && v != "" {
			return parseQty(v)
		}
	}
	if m := listingQtyRegex.FindStringSubmatch(nodeText(card)); m != nil {
		return parseQty(m[1])
	}
	return 1
}

// orderPriceQty runs the order-history chain:
// "Unit: $X | Qty: N", then separate "Unit: $X" and "Qty: N", then any price node.
func orderPriceQty(card domain.Node) (priceQty, bool) {
	text := NormalizeSpace(card.Text())

	if m := unitQtyPairRegex.FindStringSubmatch(text); m != nil {
		return priceQty{UnitPrice: Round3(ParseCurrency(m[1])), Qty: parseQty(m[2])}, true
	}

	qty := 1
	if mq := orderQtyRegex.FindStringSubmatch(text); mq != nil {
		qty = parseQty(mq[1])
	}

	if mu := unitOnlyRegex.FindStringSubmatch(text); mu != nil {
		return priceQty{UnitPrice: Round3(ParseCurrency(mu[1])), Qty: qty}, true
	}

	if n := firstVisiblePrice(card, textNodeSelector); n != nil {
		return priceQty{UnitPrice: Round3(ParseCurrency(nodeText(n))), Qty: qty}, true
	}
	return priceQty{}, false
}

// DerivePrice rebuilds a unit price from a cents-per-unit annotation and a
// matching package size in the title: "7.1¢/oz" + "20 oz" = 1.42.
func DerivePrice(title, unitInfo string) (decimal.Decimal, bool) {
	if title == "" || unitInfo == "" {
		return decimal.Zero, false
	}
	m := centsPerUnitRegex.FindStringSubmatch(unitInfo)
	if m == nil {
		return decimal.Zero, false
	}
	cents, err := decimal.NewFromString(m[1])
	if err != nil {
		return decimal.Zero, false
	}

	unit := strings.Join(strings.Fields(strings.ToLower(m[2])), "")
	unitPattern := regexp.QuoteMeta(unit)
	if unit == "floz" {
		unitPattern = `fl\s*oz`
	}
	sizeRegex, err := regexp.Compile(`(?i)(\d+(?:\.\d+)?)\s*` + unitPattern)
	if err != nil {
		return decimal.Zero, false
	}
	ms := sizeRegex.FindStringSubmatch(title)
	if ms == nil {
		return decimal.Zero, false
	}
	size, err := decimal.NewFromString(ms[1])
	if err != nil {
		return decimal.Zero, false
	}
	return Round3(cents.Div(hundred).Mul(size)), true
}
