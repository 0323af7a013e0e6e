package usecase

import (
	"regexp"
	"strings"

	"github.com/sakhi383/Walmart-Cost-Splitter/internal/domain"
)

// Structural markers used by product pages
const (
	// titleSelector matches nodes that may carry a product title
	titleSelector = `.lh-title span, [class*="lh-title"] span, h3, h2, a[href*="/ip/"] span, a[href*="/ip/"]`

	// titleMarkerSelector matches containers that hold a title
	titleMarkerSelector = `[class*="lh-title"], h3, h2, a[href*="/ip/"]`

	quantityInputSelector = `input[type="number"][aria-label*="Quantity"], input[type="number"][name*="quantity"]`

	textNodeSelector      = "span,div"
	rightSummarySelector  = "div.tr span"
	controlButtonSelector = "button"
)

var (
	priceTextRegex    = regexp.MustCompile(`^\s*\$\d`)
	centsPerUnitRegex = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?|\.\d+)\s*[¢c]\s*/\s*(oz|fl\s*oz|lb|g|kg|ea)`)
	removeWordRegex   = regexp.MustCompile(`(?i)\bRemove\b`)
	stepperTextRegex  = regexp.MustCompile(`^(?:\+|−|-)$`)

	// unitAnnotationRegex accepts both "7.1¢/oz" and "$0.25/oz"
	unitAnnotationRegex = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*[¢c]/[a-z]+|\$\s*\d+(?:\.\d+)?\s*/[a-z]+`)

	badTitlePriceRegex = regexp.MustCompile(`(?i)^\d+(\.\d+)?\s*[¢c]/`)
	fieldLabelRegex    = regexp.MustCompile(`(?i)^(Unit|Qty|Item total)`)
	badgeRegex         = regexp.MustCompile(`(?i)\b(Best seller|Free 90-day returns|Remove|Save for later)\b`)

	boilerplateTitleRegex = regexp.MustCompile(`(?i)^(Free pickup|Shipping,|Pickup and delivery options)`)
)

// summaryRowPrefixes are labels of order summary rows that are never items
var summaryRowPrefixes = []*regexp.Regexp{
	regexp.MustCompile(`^payment method\b`),
	regexp.MustCompile(`^subtotal\b`),
	regexp.MustCompile(`^total\b`),
	regexp.MustCompile(`^order total\b`),
	regexp.MustCompile(`^estimated total\b`),
	regexp.MustCompile(`^items? total\b`),
	regexp.MustCompile(`^sales tax\b`),
	regexp.MustCompile(`^tax\b`),
	regexp.MustCompile(`^delivery fee\b`),
	regexp.MustCompile(`^shipping\b`),
	regexp.MustCompile(`^pickup discount\b`),
	regexp.MustCompile(`^discount\b`),
	regexp.MustCompile(`^credits?\b`),
	regexp.MustCompile(`^refund\b`),
	regexp.MustCompile(`^tip\b`),
	regexp.MustCompile(`^gift (card|credit)\b`),
}

// summaryRowAnywhere catches the same labels embedded in longer text
var summaryRowAnywhere = regexp.MustCompile(`(subtotal|order total|estimated total|payment method|sales tax|delivery fee|discount|credit|refund|shipping|tip)\b`)

// nodeText is the trimmed text content of a node
func nodeText(n domain.Node) string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.Text())
}

// visibleOnly filters out nodes that are not rendered
func visibleOnly(nodes []domain.Node) []domain.Node {
	out := nodes[:0:0]
	for _, n := range nodes {
		if n.Visible() {
			out = append(out, n)
		}
	}
	return out
}

// LooksLikePrice reports whether text starts with a dollar amount
func LooksLikePrice(text string) bool {
	return priceTextRegex.MatchString(text)
}

// LooksLikeCentsPerUnit reports whether text carries a rate like "7.1¢/oz"
func LooksLikeCentsPerUnit(text string) bool {
	return centsPerUnitRegex.MatchString(text)
}

// looksLikeUnitAnnotation accepts cents- or dollars-per-unit strings
func looksLikeUnitAnnotation(text string) bool {
	return unitAnnotationRegex.MatchString(text)
}

// LooksLikeTitle reports whether a visible node carries a product title marker
func LooksLikeTitle(n domain.Node) bool {
	return n != nil && n.Visible() && n.Matches(titleSelector)
}

// hasTitleMarker reports whether a node holds a title-like descendant
func hasTitleMarker(n domain.Node) bool {
	return len(n.Find(titleMarkerSelector)) > 0
}

// hasVisiblePrice reports whether any visible span/div in n starts with "$<digit>"
func hasVisiblePrice(n domain.Node) bool {
	return firstVisiblePrice(n, textNodeSelector) != nil
}

// firstVisiblePrice returns the first visible node under selector whose text is a price
func firstVisiblePrice(n domain.Node, selector string) domain.Node {
	for _, c := range n.Find(selector) {
		if c.Visible() && LooksLikePrice(nodeText(c)) {
			return c
		}
	}
	return nil
}

// LooksLikeQuantityControl reports whether a card exposes purchase controls:
// a quantity input, a +/- stepper, or the word "Remove"
func LooksLikeQuantityControl(n domain.Node) bool {
	if len(n.Find(quantityInputSelector)) > 0 {
		return true
	}
	for _, b := range n.Find(controlButtonSelector) {
		if b.Visible() && stepperTextRegex.MatchString(nodeText(b)) {
			return true
		}
	}
	return removeWordRegex.MatchString(nodeText(n))
}

// IsSummaryRow reports whether a title is an order summary label rather than
// a product (subtotal, tax, shipping, tip, ...)
func IsSummaryRow(title string) bool {
	t := strings.ToLower(strings.TrimSpace(title))
	for _, re := range summaryRowPrefixes {
		if re.MatchString(t) {
			return true
		}
	}
	return summaryRowAnywhere.MatchString(t)
}

// isBoilerplateTitle reports fulfilment rows that resolve like items
func isBoilerplateTitle(title string) bool {
	return boilerplateTitleRegex.MatchString(title)
}

// isBadTitleText rejects prices, unit rates, field labels and badges
func isBadTitleText(text string) bool {
	t := strings.TrimSpace(text)
	return LooksLikePrice(t) ||
		badTitlePriceRegex.MatchString(t) ||
		fieldLabelRegex.MatchString(t) ||
		badgeRegex.MatchString(t)
}
