package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Person is an opaque display name of someone sharing the order
type Person = string

// AssignableItem is an extracted record plus the people splitting it.
// An empty Assigned list means everyone.
type AssignableItem struct {
	ExtractedRecord
	Assigned []Person `json:"assigned"`
}

// PersonShare is one person's part of the order, each field rounded to 3 digits
type PersonShare struct {
	Person Person          `json:"person"`
	Pre    decimal.Decimal `json:"pre"`   // items before tax
	Tax    decimal.Decimal `json:"tax"`   // tax on their items
	Other  decimal.Decimal `json:"other"` // prorated shipping + discount
	Total  decimal.Decimal `json:"total"`
}

// Allocation is the full per-person breakdown of an order
type Allocation struct {
	Shares     []PersonShare   `json:"shares"`
	TotalTax   decimal.Decimal `json:"totalTax"`
	Shipping   decimal.Decimal `json:"shipping"`
	Discount   decimal.Decimal `json:"discount"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}

// Share returns the share of a person, if present
func (a Allocation) Share(p Person) (PersonShare, bool) {
	for _, s := range a.Shares {
		if s.Person == p {
			return s, true
		}
	}
	return PersonShare{}, false
}

// Sum adds up every person's total
func (a Allocation) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, s := range a.Shares {
		sum = sum.Add(s.Total)
	}
	return sum
}

// SplitSession is the display surface's state: people, items, assignments, fees.
// It is replaced as a whole on every edit.
type SplitSession struct {
	ID        string           `json:"id"`
	People    []Person         `json:"people"`
	Items     []AssignableItem `json:"items"`
	Fees      Fees             `json:"fees"`
	TaxRate   decimal.Decimal  `json:"taxRate"` // percent
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// SessionView is a session together with its freshly computed allocation
type SessionView struct {
	Session    *SplitSession `json:"session"`
	Allocation Allocation    `json:"allocation"`
}

// CreateSessionRequest starts a split from an extraction result
type CreateSessionRequest struct {
	People      []Person         `json:"people,omitempty"`
	PeopleInput string           `json:"peopleInput,omitempty"` // "Ava, Ben, Cam"
	TaxRate     *decimal.Decimal `json:"taxRate,omitempty"`
	Extraction  ExtractionResult `json:"extraction"`
}

// SplitRequest is a stateless allocation request
type SplitRequest struct {
	People  []Person         `json:"people"`
	TaxRate decimal.Decimal  `json:"taxRate"`
	Items   []AssignableItem `json:"items"`
	Fees    Fees             `json:"fees"`
}
