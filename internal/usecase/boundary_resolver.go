package usecase

import (
	"net/url"
	"strings"

	"github.com/sakhi383/Walmart-Cost-Splitter/internal/domain"
)

// DefaultMaxAncestorDepth bounds every upward walk from a title node
const DefaultMaxAncestorDepth = 8

// PricedPolicy decides whether a candidate card carries enough price signal
type PricedPolicy func(card domain.Node) bool

// RequireVisiblePrice is the listing-view policy: the card must show a "$" price
func RequireVisiblePrice(card domain.Node) bool {
	return hasVisiblePrice(card)
}

// AlwaysPriced is the order-history policy. Some rows there show only a
// per-unit rate, so price gating is relaxed.
func AlwaysPriced(domain.Node) bool {
	return true
}

// DetectView classifies a page by its URL path
func DetectView(pageURL string) domain.View {
	path := pageURL
	if u, err := url.Parse(pageURL); err == nil && u.Path != "" {
		path = u.Path
	}
	if strings.Contains(path, "/orders/") {
		return domain.ViewOrderHistory
	}
	return domain.ViewListing
}

// PolicyForView returns the price gate used on a page kind
func PolicyForView(view domain.View) PricedPolicy {
	if view == domain.ViewOrderHistory {
		return AlwaysPriced
	}
	return RequireVisiblePrice
}

// BoundaryResolver maps title nodes to disjoint item cards
type BoundaryResolver struct {
	maxDepth int
	priced   PricedPolicy
}

// NewBoundaryResolver creates a resolver. A non-positive depth falls back to
// DefaultMaxAncestorDepth and a nil policy to RequireVisiblePrice.
func NewBoundaryResolver(maxDepth int, priced PricedPolicy) *BoundaryResolver {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxAncestorDepth
	}
	if priced == nil {
		priced = RequireVisiblePrice
	}
	return &BoundaryResolver{maxDepth: maxDepth, priced: priced}
}

// Resolve returns one card per real item, in first-seen order.
// Title nodes that cannot be bounded are dropped as noise.
func (r *BoundaryResolver) Resolve(doc domain.Document) []domain.Node {
	titles := visibleOnly(doc.Find(titleSelector))

	seen := make(map[domain.Node]bool)
	var cards []domain.Node
	for _, t := range titles {
		card := r.cardFor(t)
		if card == nil || seen[card] {
			continue
		}
		seen[card] = true
		cards = append(cards, card)
	}
	return cards
}

// cardFor finds the largest ancestor of t that still holds only t's title
func (r *BoundaryResolver) cardFor(t domain.Node) domain.Node {
	var chosen domain.Node
	node := t
	for i := 0; i < r.maxDepth && node != nil; i, node = i+1, node.Parent() {
		if !node.Visible() {
			break
		}
		if r.accepts(node, t) {
			chosen = node
		}
	}
	if chosen == nil {
		return nil
	}

	// Price and quantity controls often sit beside the tightest wrapper,
	// so keep climbing while the container stays exclusive to this title.
	outer := chosen
	p := chosen.Parent()
	for i := 0; i < r.maxDepth && p != nil; i, p = i+1, p.Parent() {
		if !p.Visible() {
			break
		}
		if r.accepts(p, t) {
			outer = p
		}
	}
	return outer
}

func (r *BoundaryResolver) accepts(n, title domain.Node) bool {
	return hasTitleMarker(n) && r.priced(n) && containsOnlyTitle(n, title)
}

// containsOnlyTitle reports whether scope holds t and no unrelated title.
// Titles nested into t (or t into them) count as the same title.
func containsOnlyTitle(scope, t domain.Node) bool {
	found := false
	for _, n := range visibleOnly(scope.Find(titleSelector)) {
		if n.Contains(t) || t.Contains(n) {
			found = true
			continue
		}
		return false
	}
	return found
}
