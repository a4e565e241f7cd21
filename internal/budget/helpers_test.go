package budget_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cghidalgos/presupuesto/internal/household"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func newConcept(area, name, base string) *household.Concept {
	id := uuid.New()
	areaID := uuid.New()

	return &household.Concept{
		ID:         id,
		AreaID:     areaID,
		Area:       &household.Area{ID: areaID, Name: area},
		Name:       name,
		BaseBudget: dec(base),
	}
}

func spend(c *household.Concept, user uuid.UUID, amount string, at time.Time) {
	c.Expenses = append(c.Expenses, &household.Expense{
		ID:          uuid.New(),
		ConceptID:   c.ID,
		UserID:      user,
		Amount:      dec(amount),
		SpentAt:     at,
		ConceptName: c.Name,
	})
}

func at(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}
