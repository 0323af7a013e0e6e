package usecase

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/sakhi383/Walmart-Cost-Splitter/internal/domain"
)

// Assignment edits are pure: each takes a session and returns a new one,
// leaving the input untouched.

// ValidatePeople checks a people list is non-empty, unique and within limit.
// A non-positive limit disables the size check.
func ValidatePeople(people []domain.Person, limit int) error {
	if len(people) == 0 {
		return domain.ErrNoPeople
	}
	if limit > 0 && len(people) > limit {
		return fmt.Errorf("%w: %d people exceeds limit of %d", domain.ErrInvalidRequest, len(people), limit)
	}
	seen := make(map[domain.Person]bool, len(people))
	for _, p := range people {
		if p == "" {
			return fmt.Errorf("%w: empty person name", domain.ErrInvalidRequest)
		}
		if seen[p] {
			return fmt.Errorf("%w: %q", domain.ErrDuplicatePerson, p)
		}
		seen[p] = true
	}
	return nil
}

// ValidateRecord rejects a line that cannot be priced: unit price and
// quantity must both be positive.
func ValidateRecord(index int, r domain.ExtractedRecord) error {
	if !r.UnitPrice.IsPositive() {
		return fmt.Errorf("%w: item %d unit price %s is not positive", domain.ErrInvalidRequest, index, r.UnitPrice.String())
	}
	if r.Qty <= 0 {
		return fmt.Errorf("%w: item %d quantity %d is not positive", domain.ErrInvalidRequest, index, r.Qty)
	}
	return nil
}

// NormalizeFees rejects negative shipping and stores the discount as -|v|,
// the same shape extraction produces.
func NormalizeFees(f domain.Fees) (domain.Fees, error) {
	if f.Shipping.IsNegative() {
		return f, fmt.Errorf("%w: shipping %s is negative", domain.ErrInvalidRequest, f.Shipping.String())
	}
	f.Discount = f.Discount.Abs().Neg()
	return f, nil
}

// NewSplitState builds the initial state from an extraction result. Every
// item starts assigned to everyone and the page tax is dropped in favour of
// the configured rate.
func NewSplitState(people []domain.Person, taxRate decimal.Decimal, result *domain.ExtractionResult) *domain.SplitSession {
	s := &domain.SplitSession{
		People:  slices.Clone(people),
		TaxRate: taxRate,
		Items:   []domain.AssignableItem{},
	}
	if result == nil {
		return s
	}
	for _, it := range result.Items {
		s.Items = append(s.Items, domain.AssignableItem{
			ExtractedRecord: it,
			Assigned:        slices.Clone(people),
		})
	}
	s.Fees = domain.Fees{
		Tax:      decimal.Zero,
		Shipping: result.Fees.Shipping,
		Discount: result.Fees.Discount,
	}
	return s
}

// cloneSession deep-copies the parts edits can touch
func cloneSession(s *domain.SplitSession) *domain.SplitSession {
	c := *s
	c.People = slices.Clone(s.People)
	c.Items = make([]domain.AssignableItem, len(s.Items))
	for i, it := range s.Items {
		it.Assigned = slices.Clone(it.Assigned)
		c.Items[i] = it
	}
	return &c
}

func checkEdit(s *domain.SplitSession, item int, person domain.Person, needPerson bool) error {
	if item < 0 || item >= len(s.Items) {
		return fmt.Errorf("%w: index %d of %d", domain.ErrItemNotFound, item, len(s.Items))
	}
	if needPerson && !slices.Contains(s.People, person) {
		return fmt.Errorf("%w: %q", domain.ErrUnknownPerson, person)
	}
	return nil
}

// TogglePerson adds person to the item's group, or removes them if present.
// Removing the last person leaves the group empty, which means everyone.
func TogglePerson(s *domain.SplitSession, item int, person domain.Person) (*domain.SplitSession, error) {
	if err := checkEdit(s, item, person, true); err != nil {
		return nil, err
	}
	next := cloneSession(s)
	assigned := next.Items[item].Assigned
	if i := slices.Index(assigned, person); i >= 0 {
		next.Items[item].Assigned = slices.Delete(assigned, i, i+1)
	} else {
		next.Items[item].Assigned = append(assigned, person)
	}
	return next, nil
}

// SetPersonAssigned is the checkbox form of TogglePerson: it adds or removes
// person explicitly, so removing someone who is not assigned is a no-op.
func SetPersonAssigned(s *domain.SplitSession, item int, person domain.Person, assigned bool) (*domain.SplitSession, error) {
	if err := checkEdit(s, item, person, true); err != nil {
		return nil, err
	}
	next := cloneSession(s)
	group := next.Items[item].Assigned
	i := slices.Index(group, person)
	switch {
	case assigned && i < 0:
		next.Items[item].Assigned = append(group, person)
	case !assigned && i >= 0:
		next.Items[item].Assigned = slices.Delete(group, i, i+1)
	}
	return next, nil
}

// AssignOnly gives the whole item to a single person
func AssignOnly(s *domain.SplitSession, item int, person domain.Person) (*domain.SplitSession, error) {
	if err := checkEdit(s, item, person, true); err != nil {
		return nil, err
	}
	next := cloneSession(s)
	next.Items[item].Assigned = []domain.Person{person}
	return next, nil
}

// AssignToMe gives the item to the first person, who is the one running the split
func AssignToMe(s *domain.SplitSession, item int) (*domain.SplitSession, error) {
	if len(s.People) == 0 {
		return nil, domain.ErrNoPeople
	}
	return AssignOnly(s, item, s.People[0])
}

// AssignEveryone splits the item across all people
func AssignEveryone(s *domain.SplitSession, item int) (*domain.SplitSession, error) {
	if err := checkEdit(s, item, "", false); err != nil {
		return nil, err
	}
	next := cloneSession(s)
	next.Items[item].Assigned = slices.Clone(s.People)
	return next, nil
}

// SetTaxRate replaces the global tax rate (percent)
func SetTaxRate(s *domain.SplitSession, rate decimal.Decimal) (*domain.SplitSession, error) {
	if rate.IsNegative() {
		return nil, domain.ErrNegativeTaxRate
	}
	next := cloneSession(s)
	next.TaxRate = rate
	return next, nil
}

// AllocateSession recomputes the full allocation of a session from scratch
func AllocateSession(s *domain.SplitSession) domain.Allocation {
	return Allocate(s.Items, s.People, s.TaxRate, s.Fees)
}
