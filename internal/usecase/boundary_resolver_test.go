package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakhi383/Walmart-Cost-Splitter/internal/domain"
)

func TestDetectView(t *testing.T) {
	tests := []struct {
		url  string
		want domain.View
	}{
		{"https://www.walmart.com/cart", domain.ViewListing},
		{"https://www.walmart.com/orders/200012345678", domain.ViewOrderHistory},
		{"https://www.walmart.com/orders/200012345678?storePurchase=true", domain.ViewOrderHistory},
		{"https://www.walmart.com/search?q=/orders/", domain.ViewListing},
		{"/orders/123", domain.ViewOrderHistory},
		{"", domain.ViewListing},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectView(tt.url))
		})
	}
}

func TestBoundaryResolver_Resolve(t *testing.T) {
	doc := parseDoc(t, cartHTML, cartURL)
	cards := NewBoundaryResolver(DefaultMaxAncestorDepth, RequireVisiblePrice).Resolve(doc)

	require.Len(t, cards, 3, "milk, bananas and the summary block")
	assert.Equal(t, byID(t, doc, "milk"), cards[0])
	assert.Equal(t, byID(t, doc, "bananas"), cards[1])

	t.Run("cards are pairwise disjoint", func(t *testing.T) {
		for i, a := range cards {
			for j, b := range cards {
				if i != j {
					assert.False(t, a.Contains(b), "card %d contains card %d", i, j)
				}
			}
		}
	})

	t.Run("each card holds exactly one item title", func(t *testing.T) {
		for _, c := range cards[:2] {
			titles := visibleOnly(c.Find(titleSelector))
			require.NotEmpty(t, titles)
			for _, n := range titles {
				assert.True(t, titles[0].Contains(n) || n.Contains(titles[0]))
			}
		}
	})
}

func TestBoundaryResolver_AdjacentItemsWithoutWrappers(t *testing.T) {
	html := `<html><body><div id="list">
	  <div id="a"><div><h3>Soap</h3></div><span>$2.00</span></div>
	  <div id="b"><div><h3>Towels</h3></div><span>$5.00</span></div>
	</div></body></html>`
	doc := parseDoc(t, html, cartURL)

	cards := NewBoundaryResolver(0, nil).Resolve(doc)
	require.Len(t, cards, 2)
	assert.Equal(t, byID(t, doc, "a"), cards[0])
	assert.Equal(t, byID(t, doc, "b"), cards[1])
}

func TestBoundaryResolver_PricePolicy(t *testing.T) {
	html := `<html><body><div id="row"><div><h3>Peanut Butter 20 oz</h3><span>7.1¢/oz</span></div></div></body></html>`
	doc := parseDoc(t, html, orderURL)

	assert.Empty(t, NewBoundaryResolver(8, RequireVisiblePrice).Resolve(doc))
	assert.Len(t, NewBoundaryResolver(8, AlwaysPriced).Resolve(doc), 1)
	assert.Len(t, NewBoundaryResolver(8, PolicyForView(domain.ViewOrderHistory)).Resolve(doc), 1)
}

func TestBoundaryResolver_DepthBound(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`<html><body><div id="card"><span>$1.00</span>`)
	for i := 0; i < 9; i++ {
		sb.WriteString("<div>")
	}
	sb.WriteString("<h3>Deeply nested item</h3>")
	for i := 0; i < 9; i++ {
		sb.WriteString("</div>")
	}
	sb.WriteString(`</div></body></html>`)
	doc := parseDoc(t, sb.String(), cartURL)

	assert.Empty(t, NewBoundaryResolver(8, RequireVisiblePrice).Resolve(doc), "price is out of reach")
	assert.Len(t, NewBoundaryResolver(12, RequireVisiblePrice).Resolve(doc), 1)
}

func TestContainsOnlyTitle(t *testing.T) {
	doc := parseDoc(t, cartHTML, cartURL)
	milk := byID(t, doc, "milk")
	cart := byID(t, doc, "cart")
	title := milk.Find(titleSelector)[0]

	assert.True(t, containsOnlyTitle(milk, title))
	assert.False(t, containsOnlyTitle(cart, title))

	bananaTitle := byID(t, doc, "bananas").Find(titleSelector)[0]
	assert.False(t, containsOnlyTitle(milk, bananaTitle), "scope must hold the title itself")
}
