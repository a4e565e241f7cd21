package budget_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cghidalgos/presupuesto/internal/budget"
	"github.com/cghidalgos/presupuesto/internal/household"
)

func TestSuggest(t *testing.T) {
	user := uuid.New()
	target := budget.Period{Year: 2025, Month: time.November}
	oct := target.Prev()

	tests := []struct {
		name      string
		base      string
		override  string
		expenses  []string
		outside   bool
		wantBase  string
		wantSpent string
		want      string
	}{
		{
			name:      "OverspendRaisesBudget",
			base:      "100000",
			expenses:  []string{"100000", "35860"},
			wantBase:  "100000",
			wantSpent: "135860",
			want:      "135860",
		},
		{
			name:      "UnderspendLowersBudget",
			base:      "90000",
			override:  "108000",
			expenses:  []string{"95200"},
			wantBase:  "108000",
			wantSpent: "95200",
			want:      "95200",
		},
		{
			name:      "ExactSpendKeepsBudget",
			base:      "45000",
			expenses:  []string{"45000"},
			wantBase:  "45000",
			wantSpent: "45000",
			want:      "45000",
		},
		{
			name:      "NoSpendDropsToZero",
			base:      "45000",
			wantBase:  "45000",
			wantSpent: "0",
			want:      "0",
		},
		{
			name:      "OtherMonthsIgnored",
			base:      "45000",
			expenses:  []string{"45000"},
			outside:   true,
			wantBase:  "45000",
			wantSpent: "0",
			want:      "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newConcept("Servicios", "Energia", tt.base)

			when := at(2025, time.October, 1)
			if tt.outside {
				when = at(2025, time.November, 1)
			}

			for _, amount := range tt.expenses {
				spend(c, user, amount, when)
			}

			snap := &budget.Snapshot{Concepts: []*household.Concept{c}}
			if tt.override != "" {
				snap.Overrides = []*budget.Override{{ConceptID: c.ID, Period: oct, Amount: dec(tt.override)}}
			}

			got := budget.Suggest(target, snap)
			require.Len(t, got, 1)

			assert.Equal(t, c.ID, got[0].ConceptID)
			assertDecimal(t, tt.wantBase, got[0].PriorBudget)
			assertDecimal(t, tt.wantSpent, got[0].PriorSpent)
			assertDecimal(t, tt.want, got[0].SuggestedBudget)
		})
	}
}

func TestSuggest_ReferenceMonthBoundaries(t *testing.T) {
	c := newConcept("Servicios", "Agua", "10")
	user := uuid.New()

	spend(c, user, "1", time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC))
	spend(c, user, "2", time.Date(2025, 10, 31, 23, 59, 59, 0, time.UTC))
	spend(c, user, "100", time.Date(2025, 9, 30, 23, 59, 59, 0, time.UTC))

	got := budget.Suggest(budget.Period{Year: 2025, Month: time.November}, &budget.Snapshot{Concepts: []*household.Concept{c}})

	require.Len(t, got, 1)
	assertDecimal(t, "3", got[0].PriorSpent)
}
