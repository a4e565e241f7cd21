package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/cghidalgos/presupuesto/internal/auth"
	"github.com/cghidalgos/presupuesto/internal/budget"
	budgetStore "github.com/cghidalgos/presupuesto/internal/budget/store"
	"github.com/cghidalgos/presupuesto/internal/config"
	"github.com/cghidalgos/presupuesto/internal/database"
	"github.com/cghidalgos/presupuesto/internal/household"
	householdStore "github.com/cghidalgos/presupuesto/internal/household/store"
)

const (
	seedArea     = "Servicios"
	seedName     = "Seed User"
	seedEmail    = "seed@example.com"
	seedPassword = "seed123"
)

type monthFigures struct {
	budgeted int64
	spent    int64
}

var seedConcepts = []string{"Agua", "Energia", "Gas", "Internet", "Administración"}

var seedData = map[budget.Period]map[string]monthFigures{
	{Year: 2025, Month: time.August}: {
		"Agua":           {108000, 95200},
		"Energia":        {135000, 126000},
		"Gas":            {16000, 15600},
		"Internet":       {89900, 72500},
		"Administración": {284300, 313000},
	},
	{Year: 2025, Month: time.September}: {
		"Agua":           {108000, 166000},
		"Energia":        {135000, 156300},
		"Gas":            {16000, 16000},
		"Internet":       {89900, 95500},
		"Administración": {313000, 255600},
	},
	{Year: 2025, Month: time.October}: {
		"Agua":           {160000, 135860},
		"Energia":        {145000, 138321},
		"Gas":            {16000, 15626},
		"Internet":       {95500, 95500},
		"Administración": {256000, 284300},
	},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), cfg.DB.MaxOpenConns)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	s := &seeder{
		household: household.NewService(householdStore.New(db)),
		budget:    budget.NewService(budgetStore.New(db)),
	}

	if err := s.run(context.Background()); err != nil {
		slog.Error("failed to seed", "error", err)
		os.Exit(1)
	}

	slog.Info("seed data inserted or updated", "months", len(seedData))
}

type seeder struct {
	household *household.Service
	budget    *budget.Service
}

// run can be repeated: existing rows are reused, budgets are upserted, and a
// month that already has an expense for a concept gets no new one.
func (s *seeder) run(ctx context.Context) error {
	area, err := s.area(ctx)
	if err != nil {
		return err
	}

	user, err := s.user(ctx)
	if err != nil {
		return err
	}

	concepts := make(map[string]*household.Concept, len(seedConcepts))

	for _, name := range seedConcepts {
		c, err := s.concept(ctx, area, name)
		if err != nil {
			return err
		}

		concepts[name] = c
	}

	for p, figures := range seedData {
		values := make([]budget.OverrideValue, 0, len(figures))

		for _, name := range seedConcepts {
			values = append(values, budget.OverrideValue{
				ConceptID: concepts[name].ID,
				Amount:    decimal.NewFromInt(figures[name].budgeted),
			})
		}

		if _, err := s.budget.SetOverrides(ctx, p, values); err != nil {
			return fmt.Errorf("setting budgets for %s: %w", p, err)
		}

		for _, name := range seedConcepts {
			if err := s.ensureExpense(ctx, user, concepts[name], p, figures[name].spent); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *seeder) area(ctx context.Context) (*household.Area, error) {
	areas, err := s.household.ListAreas(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing areas: %w", err)
	}

	for _, a := range areas {
		if a.Name == seedArea {
			return a, nil
		}
	}

	return s.household.CreateArea(ctx, seedArea)
}

func (s *seeder) user(ctx context.Context) (*household.User, error) {
	u, err := s.household.GetUserByEmail(ctx, seedEmail)
	if err == nil {
		return u, nil
	}

	if !errors.Is(err, household.ErrNotFound) {
		return nil, fmt.Errorf("looking up seed user: %w", err)
	}

	hash, err := auth.HashPassword(seedPassword)
	if err != nil {
		return nil, err
	}

	return s.household.CreateUser(ctx, household.CreateUserParams{
		Name:         seedName,
		Email:        seedEmail,
		PasswordHash: hash,
		SharePercent: decimal.NewFromInt(50),
	})
}

func (s *seeder) concept(ctx context.Context, area *household.Area, name string) (*household.Concept, error) {
	concepts, err := s.household.ListConcepts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing concepts: %w", err)
	}

	for _, c := range concepts {
		if c.AreaID == area.ID && c.Name == name {
			return c, nil
		}
	}

	return s.household.CreateConcept(ctx, household.CreateConceptParams{
		AreaID:     area.ID,
		Name:       name,
		BaseBudget: decimal.Zero,
	})
}

func (s *seeder) ensureExpense(ctx context.Context, user *household.User, c *household.Concept, p budget.Period, amount int64) error {
	existing, err := s.household.ListExpenses(ctx, household.ExpenseFilter{
		StartDate: new(p.Start()),
		EndDate:   new(p.End()),
	})
	if err != nil {
		return fmt.Errorf("listing expenses for %s: %w", p, err)
	}

	for _, e := range existing {
		if e.ConceptID == c.ID {
			return nil
		}
	}

	_, err = s.household.RecordExpense(ctx, user.ID, household.RecordExpenseParams{
		ConceptID: c.ID,
		Amount:    decimal.NewFromInt(amount),
		SpentAt:   new(time.Date(p.Year, p.Month, 15, 12, 0, 0, 0, time.UTC)),
	})
	if err != nil {
		return fmt.Errorf("recording %s expense for %s: %w", c.Name, p, err)
	}

	return nil
}
