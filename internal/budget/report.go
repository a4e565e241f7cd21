package budget

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cghidalgos/presupuesto/internal/household"
)

// Snapshot is the state a computation reads once before it starts.
type Snapshot struct {
	Concepts  []*household.Concept // ordered by area name, then concept name
	Users     []*household.User
	Overrides []*Override
}

// Row is one report line: every concept sharing a group key.
type Row struct {
	GroupKey           string
	Name               string
	AreaName           string
	Budgeted           decimal.Decimal
	Actual             decimal.Decimal
	Remaining          decimal.Decimal
	Excess             decimal.Decimal
	Status             Status
	SourceConceptCount int
	Expenses           []*household.Expense
}

type Totals struct {
	Budgeted  decimal.Decimal
	Actual    decimal.Decimal
	Remaining decimal.Decimal
	Excess    decimal.Decimal
}

// Contribution is what a user is expected to cover for the period against
// what they actually recorded in it.
type Contribution struct {
	UserID   uuid.UUID
	Name     string
	Percent  decimal.Decimal
	Expected decimal.Decimal
	Paid     decimal.Decimal
	Balance  decimal.Decimal
}

type Report struct {
	Period        Period
	Rows          []*Row
	Totals        Totals
	StatusCounts  StatusCounts
	Contributions []Contribution
}

// BuildReport aggregates the snapshot for period p. Rows keep the order in
// which their first concept appears.
func BuildReport(p Period, snap *Snapshot) *Report {
	resolver := NewResolver(snap.Overrides)

	var rows []*Row

	byKey := make(map[string]*Row)

	for _, c := range snap.Concepts {
		key := GroupKey(c.Name)

		row, ok := byKey[key]
		if !ok {
			row = &Row{
				GroupKey: key,
				Name:     DisplayName(c.Name),
				AreaName: c.AreaName(),
				Budgeted: decimal.Zero,
				Actual:   decimal.Zero,
			}
			byKey[key] = row
			rows = append(rows, row)
		}

		row.SourceConceptCount++
		row.Budgeted = row.Budgeted.Add(resolver.Resolve(c, p))

		for _, e := range c.Expenses {
			if p.Contains(e.SpentAt) {
				row.Actual = row.Actual.Add(e.Amount)
				row.Expenses = append(row.Expenses, e)
			}
		}
	}

	report := &Report{
		Period: p,
		Rows:   rows,
		Totals: Totals{
			Budgeted:  decimal.Zero,
			Actual:    decimal.Zero,
			Remaining: decimal.Zero,
			Excess:    decimal.Zero,
		},
	}

	for _, row := range rows {
		row.Remaining = row.Budgeted.Sub(row.Actual)
		row.Excess = decimal.Max(row.Actual.Sub(row.Budgeted), decimal.Zero)
		row.Status = Classify(row.Budgeted, row.Actual)

		report.Totals.Budgeted = report.Totals.Budgeted.Add(row.Budgeted)
		report.Totals.Actual = report.Totals.Actual.Add(row.Actual)
		report.Totals.Remaining = report.Totals.Remaining.Add(row.Remaining)
		report.Totals.Excess = report.Totals.Excess.Add(row.Excess)
		report.StatusCounts.Add(row.Status)
	}

	report.Contributions = contributions(report.Totals.Budgeted, snap, p)

	return report
}

func contributions(total decimal.Decimal, snap *Snapshot, p Period) []Contribution {
	paid := make(map[uuid.UUID]decimal.Decimal, len(snap.Users))

	for _, c := range snap.Concepts {
		for _, e := range c.Expenses {
			if p.Contains(e.SpentAt) {
				paid[e.UserID] = paid[e.UserID].Add(e.Amount)
			}
		}
	}

	out := make([]Contribution, 0, len(snap.Users))

	for _, u := range snap.Users {
		expected := total.Mul(u.Share)
		userPaid := paid[u.ID]

		out = append(out, Contribution{
			UserID:   u.ID,
			Name:     u.Name,
			Percent:  u.SharePercent(),
			Expected: expected,
			Paid:     userPaid,
			Balance:  userPaid.Sub(expected),
		})
	}

	return out
}
