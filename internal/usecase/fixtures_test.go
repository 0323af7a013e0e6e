package usecase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/sakhi383/Walmart-Cost-Splitter/internal/domain"
	"github.com/sakhi383/Walmart-Cost-Splitter/internal/infrastructure/dom"
)

const (
	cartURL  = "https://www.walmart.com/cart"
	orderURL = "https://www.walmart.com/orders/200012345678"
)

// cartHTML has two items, a hidden leftover card and an order summary
const cartHTML = `<html><head><title>Cart</title></head><body>
<div id="cart">
  <div class="item" id="milk">
    <div class="info">
      <a href="/ip/milk/1"><span>Great Value Whole Milk 1 gal</span></a>
      <div class="unit"><span>$3.48/gal</span></div>
    </div>
    <div class="tr"><span>$3.48</span></div>
    <input type="number" aria-label="Quantity" value="2">
    <button>-</button> <button>+</button>
  </div>
  <div class="item" id="bananas">
    <div class="info">
      <a href="/ip/bananas/2"><span>Bananas, each</span></a>
    </div>
    <div class="tr"><span>$0.25</span></div>
    <div>Qty 3</div>
  </div>
  <div class="item" style="display:none">
    <div class="info"><a href="/ip/ghost/3"><span>Saved For Later Pasta</span></a></div>
    <div class="tr"><span>$1.00</span></div>
  </div>
</div>
<div class="summary">
  <div><h3>Subtotal</h3> <span data-automation-id="summary-subtotal">$7.71</span></div>
  <div><span>Estimated tax</span> <span data-automation-id="summary-tax">$0.62</span></div>
  <div><span>Delivery</span> <span data-automation-id="summary-shipping">$5.99</span></div>
  <div><span>Savings</span> <span data-automation-id="order-discount">-$1.00</span></div>
</div>
</body></html>`

// orderHTML exercises the order-history chain: a "Unit | Qty" pair, a
// derived price and a summary row
const orderHTML = `<html><body>
<section class="order">
  <div class="order-item">
    <div><h3>Tide Pods Laundry Detergent 42 ct</h3></div>
    <div>Unit: $13.97 | Qty: 2</div>
  </div>
  <div class="order-item">
    <div><h3>Great Value Creamy Peanut Butter 20 oz</h3><span>7.1¢/oz</span></div>
  </div>
  <div class="order-item">
    <div><h2>Sales tax</h2></div>
    <div><span>$1.98</span></div>
  </div>
</section>
</body></html>`

func parseDoc(t *testing.T, html, url string) domain.Document {
	t.Helper()
	doc, err := dom.ParseString(html, url)
	require.NoError(t, err)
	return doc
}

// byID returns the single element with the given id
func byID(t *testing.T, doc domain.Document, id string) domain.Node {
	t.Helper()
	nodes := doc.Find("#" + id)
	require.Len(t, nodes, 1)
	return nodes[0]
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}
