package budget

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cghidalgos/presupuesto/internal/household"
)

// BatchOverrideSubmission commits next-month budgets. Concepts without an
// entry, or with a nil Value, take their computed suggestion.
type BatchOverrideSubmission struct {
	Target  Period
	Entries []OverrideEntry
}

type OverrideEntry struct {
	ConceptID uuid.UUID
	Value     *string
}

// OverrideValue is a validated amount ready to be written.
type OverrideValue struct {
	ConceptID uuid.UUID
	Amount    decimal.Decimal
}

// ParseAmount parses a plain decimal number.
func ParseAmount(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, household.Invalid(field, "a number is required")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, household.Invalid(field, "%q is not a number", s)
	}

	return d, nil
}

// resolveOverrides merges the submitted entries over the suggestions. Every
// entry is checked before anything is returned.
func resolveOverrides(sub BatchOverrideSubmission, suggestions []Suggestion) ([]OverrideValue, error) {
	values := make([]OverrideValue, len(suggestions))
	index := make(map[uuid.UUID]int, len(suggestions))

	for i, s := range suggestions {
		values[i] = OverrideValue{ConceptID: s.ConceptID, Amount: s.SuggestedBudget}
		index[s.ConceptID] = i
	}

	seen := make(map[uuid.UUID]bool, len(sub.Entries))

	for _, entry := range sub.Entries {
		i, ok := index[entry.ConceptID]
		if !ok {
			return nil, &household.NotFoundError{Resource: "concept", ID: entry.ConceptID.String()}
		}

		if seen[entry.ConceptID] {
			return nil, household.Invalid("concept_id", "concept %s submitted more than once", entry.ConceptID)
		}

		seen[entry.ConceptID] = true

		if entry.Value == nil {
			continue
		}

		field := "value[" + suggestions[i].Name + "]"

		amount, err := ParseAmount(field, *entry.Value)
		if err != nil {
			return nil, err
		}

		if amount.IsNegative() {
			return nil, household.Invalid(field, "must not be negative, got %s", amount)
		}

		if err := household.CheckAmount(field, amount); err != nil {
			return nil, err
		}

		values[i].Amount = amount
	}

	return values, nil
}

// checkOverrideValues validates a directly supplied set of values against the
// known concepts.
func checkOverrideValues(values []OverrideValue, concepts []*household.Concept) error {
	known := make(map[uuid.UUID]bool, len(concepts))
	for _, c := range concepts {
		known[c.ID] = true
	}

	seen := make(map[uuid.UUID]bool, len(values))

	for _, v := range values {
		if !known[v.ConceptID] {
			return &household.NotFoundError{Resource: "concept", ID: v.ConceptID.String()}
		}

		if seen[v.ConceptID] {
			return household.Invalid("concept_id", "concept %s submitted more than once", v.ConceptID)
		}

		seen[v.ConceptID] = true

		if v.Amount.IsNegative() {
			return household.Invalid("amount", "must not be negative, got %s", v.Amount)
		}

		if err := household.CheckAmount("amount", v.Amount); err != nil {
			return err
		}
	}

	return nil
}
