package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cghidalgos/presupuesto/internal/budget"
	"github.com/cghidalgos/presupuesto/internal/household"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer
type Concepts interface {
	ListConcepts(ctx context.Context) ([]*household.Concept, error)
}

type Overrides interface {
	SetOverrides(ctx context.Context, target budget.Period, values []budget.OverrideValue) ([]*budget.Override, error)
}

type Service struct {
	concepts  Concepts
	overrides Overrides
}

func NewService(concepts Concepts, overrides Overrides) *Service {
	return &Service{concepts: concepts, overrides: overrides}
}

// Applied is one imported line matched to its concept.
type Applied struct {
	ConceptID uuid.UUID
	Name      string
	AreaName  string
	Amount    decimal.Decimal
}

type Result struct {
	Period  budget.Period
	Applied []Applied
}

// Import reads a budget sheet and writes every line as the target month's
// budget for the matching concept. Nothing is written if any line fails to
// parse or match.
func (s *Service) Import(ctx context.Context, target budget.Period, r io.Reader) (*Result, error) {
	rows, err := Parse(r)
	if err != nil {
		return nil, err
	}

	concepts, err := s.concepts.ListConcepts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing concepts: %w", err)
	}

	m := newMatcher(concepts)

	applied := make([]Applied, 0, len(rows))
	values := make([]budget.OverrideValue, 0, len(rows))
	seen := make(map[uuid.UUID]int, len(rows))

	for _, row := range rows {
		c, err := m.match(row)
		if err != nil {
			return nil, err
		}

		if prev, dup := seen[c.ID]; dup {
			return nil, household.Invalid(fmt.Sprintf("row %d", row.Line), "%s already set on row %d", row.Concept, prev)
		}

		seen[c.ID] = row.Line

		applied = append(applied, Applied{
			ConceptID: c.ID,
			Name:      c.Name,
			AreaName:  c.AreaName(),
			Amount:    row.Amount,
		})
		values = append(values, budget.OverrideValue{ConceptID: c.ID, Amount: row.Amount})
	}

	if _, err := s.overrides.SetOverrides(ctx, target, values); err != nil {
		return nil, err
	}

	return &Result{Period: target, Applied: applied}, nil
}

// matcher finds concepts by group key, narrowing by area when the sheet has
// an area column.
type matcher struct {
	byKey map[string][]*household.Concept
}

func newMatcher(concepts []*household.Concept) *matcher {
	m := &matcher{byKey: make(map[string][]*household.Concept)}
	for _, c := range concepts {
		key := budget.GroupKey(c.Name)
		m.byKey[key] = append(m.byKey[key], c)
	}

	return m
}

func (m *matcher) match(row Row) (*household.Concept, error) {
	candidates := m.byKey[budget.GroupKey(row.Concept)]

	if row.Area != "" && len(candidates) > 1 {
		areaKey := budget.GroupKey(row.Area)

		var inArea []*household.Concept

		for _, c := range candidates {
			if budget.GroupKey(c.AreaName()) == areaKey {
				inArea = append(inArea, c)
			}
		}

		candidates = inArea
	}

	switch len(candidates) {
	case 0:
		return nil, &household.NotFoundError{Resource: "concept", ID: fmt.Sprintf("%q (row %d)", row.Concept, row.Line)}
	case 1:
		return candidates[0], nil
	default:
		return nil, household.Invalid(fmt.Sprintf("row %d", row.Line),
			"%s matches %d concepts; add an Área column to tell them apart", row.Concept, len(candidates))
	}
}
