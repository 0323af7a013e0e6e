package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/sakhi383/Walmart-Cost-Splitter/internal/domain"
)

// shareAcc accumulates unrounded amounts for one person
type shareAcc struct {
	pre, tax, other decimal.Decimal
}

// Allocate splits item costs, tax and page fees across people.
//
// Each item is divided equally within its assigned group (everyone when the
// group is empty). Shipping and discount are prorated by each person's
// pre-tax amount. Every field is rounded to 3 digits, then the rounding
// residue is handed to the person with the largest total (first on ties) so
// the totals add up exactly to the rounded grand total.
//
// Identifiers assigned to an item but missing from people still receive
// shares; they are listed after people in first-seen order.
// With no people the allocation is empty.
func Allocate(items []domain.AssignableItem, people []domain.Person, taxRatePercent decimal.Decimal, fees domain.Fees) domain.Allocation {
	if len(people) == 0 {
		return domain.Allocation{
			Shares:   []domain.PersonShare{},
			Shipping: fees.Shipping,
			Discount: fees.Discount,
		}
	}

	var order []domain.Person
	index := make(map[domain.Person]int, len(people))
	slot := func(p domain.Person) int {
		i, ok := index[p]
		if !ok {
			i = len(order)
			index[p] = i
			order = append(order, p)
		}
		return i
	}
	for _, p := range people {
		slot(p)
	}
	accs := make([]shareAcc, len(order))

	rate := taxRatePercent.Div(hundred)
	subtotal := decimal.Zero
	totalTax := decimal.Zero

	for _, it := range items {
		group := it.Assigned
		if len(group) == 0 {
			group = people
		}
		line := it.LineTotal()
		itemTax := line.Mul(rate)
		subtotal = subtotal.Add(line)
		totalTax = totalTax.Add(itemTax)

		n := decimal.NewFromInt(int64(len(group)))
		share := line.Div(n)
		taxShare := itemTax.Div(n)
		for _, p := range group {
			i := slot(p)
			if i >= len(accs) {
				accs = append(accs, shareAcc{})
			}
			accs[i].pre = accs[i].pre.Add(share)
			accs[i].tax = accs[i].tax.Add(taxShare)
		}
	}

	globalFees := fees.Shipping.Add(fees.Discount)
	subtotalPre := decimal.Zero
	for _, a := range accs {
		subtotalPre = subtotalPre.Add(a.pre)
	}

	shares := make([]domain.PersonShare, len(order))
	for i, p := range order {
		a := accs[i]
		if !subtotalPre.IsZero() {
			a.other = globalFees.Mul(a.pre).Div(subtotalPre)
		}
		shares[i] = domain.PersonShare{
			Person: p,
			Pre:    Round3(a.pre),
			Tax:    Round3(a.tax),
			Other:  Round3(a.other),
			Total:  Round3(a.pre.Add(a.tax).Add(a.other)),
		}
	}

	trueSum := Round3(subtotal.Add(totalTax).Add(globalFees))
	reconcile(shares, trueSum)

	return domain.Allocation{
		Shares:     shares,
		TotalTax:   Round3(totalTax),
		Shipping:   fees.Shipping,
		Discount:   fees.Discount,
		GrandTotal: trueSum,
	}
}

// reconcile moves the whole rounding residue onto the largest total
func reconcile(shares []domain.PersonShare, trueSum decimal.Decimal) {
	if len(shares) == 0 {
		return
	}
	rounded := decimal.Zero
	for _, s := range shares {
		rounded = rounded.Add(s.Total)
	}
	diff := trueSum.Sub(Round3(rounded))
	if diff.IsZero() {
		return
	}
	largest := 0
	for i := 1; i < len(shares); i++ {
		if shares[i].Total.GreaterThan(shares[largest].Total) {
			largest = i
		}
	}
	shares[largest].Total = Round3(shares[largest].Total.Add(diff))
}
