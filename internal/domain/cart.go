package domain

import "github.com/shopspring/decimal"

func init() {
	// The extension reads amounts as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// View is the kind of page a document was captured from
type View string

const (
	ViewListing      View = "listing"       // cart / generic listing page
	ViewOrderHistory View = "order_history" // order details page
)

// ExtractedRecord is one purchasable line item read from a page
type ExtractedRecord struct {
	Title     string          `json:"title"`
	UnitInfo  string          `json:"unitInfo"`  // e.g. "7.1¢/oz", may be empty
	UnitPrice decimal.Decimal `json:"unitPrice"` // rounded to 3 fractional digits, always > 0
	Qty       int             `json:"qty"`
}

// LineTotal returns unitPrice * qty
func (r ExtractedRecord) LineTotal() decimal.Decimal {
	return r.UnitPrice.Mul(decimal.NewFromInt(int64(r.Qty)))
}

// Fees are the page-level charges. Discount is stored as a non-positive number.
type Fees struct {
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Discount decimal.Decimal `json:"discount"`
}

// ExtractionResult is the output of one extraction pass
type ExtractionResult struct {
	Items    []ExtractedRecord `json:"items"`
	Fees     Fees              `json:"fees"`
	Subtotal decimal.Decimal   `json:"subtotal"`
	Total    decimal.Decimal   `json:"total"`
	View     View              `json:"view"`
	URL      string            `json:"url,omitempty"`
}

// ExtractRequest carries a page snapshot posted by the extension
type ExtractRequest struct {
	HTML string `json:"html"`
	URL  string `json:"url"`
}

// LiveExtractRequest selects an open browser tab to snapshot
type LiveExtractRequest struct {
	TargetID    string `json:"targetId,omitempty"`
	URLContains string `json:"urlContains,omitempty"`
}
