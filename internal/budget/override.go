package budget

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cghidalgos/presupuesto/internal/household"
)

// Override is the budgeted amount for one concept in one month. It replaces
// the concept's base budget for that month only.
type Override struct {
	ID        uuid.UUID
	ConceptID uuid.UUID
	Period    Period
	Amount    decimal.Decimal
	UpdatedAt time.Time
}

type overrideKey struct {
	conceptID uuid.UUID
	period    Period
}

// Resolver answers effective-budget lookups from a fixed set of overrides.
type Resolver struct {
	overrides map[overrideKey]decimal.Decimal
}

func NewResolver(overrides []*Override) *Resolver {
	m := make(map[overrideKey]decimal.Decimal, len(overrides))
	for _, o := range overrides {
		m[overrideKey{conceptID: o.ConceptID, period: o.Period}] = o.Amount
	}

	return &Resolver{overrides: m}
}

// Resolve returns the override for exactly (concept, period), or the
// concept's base budget when there is none.
func (r *Resolver) Resolve(c *household.Concept, p Period) decimal.Decimal {
	if amount, ok := r.overrides[overrideKey{conceptID: c.ID, period: p}]; ok {
		return amount
	}

	return c.BaseBudget
}

// spentIn sums the concept's expenses that fall inside p.
func spentIn(c *household.Concept, p Period) decimal.Decimal {
	total := decimal.Zero

	for _, e := range c.Expenses {
		if p.Contains(e.SpentAt) {
			total = total.Add(e.Amount)
		}
	}

	return total
}
