package budget

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Suggestion proposes a concept's budget for a target month from what was
// spent in the month before it.
type Suggestion struct {
	ConceptID       uuid.UUID
	Name            string
	AreaName        string
	PriorBudget     decimal.Decimal
	PriorSpent      decimal.Decimal
	SuggestedBudget decimal.Decimal
}

// Suggest returns one suggestion per concept for target. When the prior
// month's spend differs from its effective budget the suggestion follows the
// spend, otherwise the budget is kept.
func Suggest(target Period, snap *Snapshot) []Suggestion {
	reference := target.Prev()
	resolver := NewResolver(snap.Overrides)

	out := make([]Suggestion, 0, len(snap.Concepts))

	for _, c := range snap.Concepts {
		budgeted := resolver.Resolve(c, reference)
		spent := spentIn(c, reference)

		suggested := budgeted
		if !spent.Equal(budgeted) {
			suggested = spent
		}

		out = append(out, Suggestion{
			ConceptID:       c.ID,
			Name:            DisplayName(c.Name),
			AreaName:        c.AreaName(),
			PriorBudget:     budgeted,
			PriorSpent:      spent,
			SuggestedBudget: suggested,
		})
	}

	return out
}
