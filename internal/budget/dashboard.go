package budget

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cghidalgos/presupuesto/internal/household"
)

const recentExpenseLimit = 30

// Dashboard is the all-time overview over base budgets.
type Dashboard struct {
	TotalBudgeted  decimal.Decimal
	TotalSpent     decimal.Decimal
	TotalRemaining decimal.Decimal
	Concepts       []*household.Concept
	Contributions  []Contribution
	Recent         []*household.Expense
}

func BuildDashboard(snap *Snapshot) *Dashboard {
	d := &Dashboard{
		TotalBudgeted: decimal.Zero,
		TotalSpent:    decimal.Zero,
		Concepts:      snap.Concepts,
	}

	paid := make(map[uuid.UUID]decimal.Decimal)

	var all []*household.Expense

	for _, c := range snap.Concepts {
		d.TotalBudgeted = d.TotalBudgeted.Add(c.BaseBudget)
		d.TotalSpent = d.TotalSpent.Add(c.TotalSpent())

		for _, e := range c.Expenses {
			paid[e.UserID] = paid[e.UserID].Add(e.Amount)
			all = append(all, e)
		}
	}

	d.TotalRemaining = decimal.Max(d.TotalBudgeted.Sub(d.TotalSpent), decimal.Zero)

	for _, u := range snap.Users {
		expected := d.TotalBudgeted.Mul(u.Share)

		d.Contributions = append(d.Contributions, Contribution{
			UserID:   u.ID,
			Name:     u.Name,
			Percent:  u.SharePercent(),
			Expected: expected,
			Paid:     paid[u.ID],
			Balance:  paid[u.ID].Sub(expected),
		})
	}

	slices.SortStableFunc(all, func(a, b *household.Expense) int {
		return cmp.Compare(b.SpentAt.UnixNano(), a.SpentAt.UnixNano())
	})

	d.Recent = all[:min(len(all), recentExpenseLimit)]

	return d
}
