package household

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=household
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)

	CreateArea(ctx context.Context, a *Area) error
	GetArea(ctx context.Context, id uuid.UUID) (*Area, error)
	ListAreas(ctx context.Context) ([]*Area, error)

	CreateConcept(ctx context.Context, c *Concept) error
	GetConcept(ctx context.Context, id uuid.UUID) (*Concept, error)
	ListConcepts(ctx context.Context) ([]*Concept, error)
	CountConceptDependencies(ctx context.Context, id uuid.UUID) (expenses int, overrides int, err error)
	DeleteConcept(ctx context.Context, id uuid.UUID) error

	CreateExpense(ctx context.Context, e *Expense) error
	ListExpenses(ctx context.Context, filter ExpenseFilter) ([]*Expense, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateUserParams struct {
	Name         string
	Email        string
	PasswordHash string
	SharePercent decimal.Decimal
}

type CreateConceptParams struct {
	AreaID     uuid.UUID
	Name       string
	BaseBudget decimal.Decimal
}

type RecordExpenseParams struct {
	ConceptID uuid.UUID
	Amount    decimal.Decimal
	SpentAt   *time.Time // defaults to now
}

// ExpenseFilter narrows ListExpenses. EndDate is exclusive; a positive Limit
// returns the most recent expenses first.
type ExpenseFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
}

var hundred = decimal.NewFromInt(100)

func (s *Service) CreateUser(ctx context.Context, params CreateUserParams) (*User, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, Invalid("name", "is required")
	}

	email := strings.ToLower(strings.TrimSpace(params.Email))
	if !strings.Contains(email, "@") {
		return nil, Invalid("email", "%q is not a valid address", params.Email)
	}

	if params.SharePercent.IsNegative() || params.SharePercent.GreaterThan(hundred) {
		return nil, Invalid("share_percent", "must be between 0 and 100, got %s", params.SharePercent)
	}

	if err := CheckSharePercent("share_percent", params.SharePercent); err != nil {
		return nil, err
	}

	u := &User{
		Name:         name,
		Email:        email,
		PasswordHash: params.PasswordHash,
		Share:        params.SharePercent.Div(hundred),
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *Service) CreateArea(ctx context.Context, name string) (*Area, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, Invalid("name", "is required")
	}

	a := &Area{Name: name}
	if err := s.repo.CreateArea(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) ListAreas(ctx context.Context) ([]*Area, error) {
	return s.repo.ListAreas(ctx)
}

func (s *Service) CreateConcept(ctx context.Context, params CreateConceptParams) (*Concept, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, Invalid("name", "is required")
	}

	if params.BaseBudget.IsNegative() {
		return nil, Invalid("base_budget", "must not be negative, got %s", params.BaseBudget)
	}

	if err := CheckAmount("base_budget", params.BaseBudget); err != nil {
		return nil, err
	}

	area, err := s.repo.GetArea(ctx, params.AreaID)
	if err != nil {
		return nil, err
	}

	c := &Concept{
		AreaID:     area.ID,
		Area:       area,
		Name:       name,
		BaseBudget: params.BaseBudget,
	}
	if err := s.repo.CreateConcept(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) ListConcepts(ctx context.Context) ([]*Concept, error) {
	return s.repo.ListConcepts(ctx)
}

// DeleteConcept removes a concept that has never been used. A concept with
// expenses or monthly budgets is refused with an *IntegrityError.
func (s *Service) DeleteConcept(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetConcept(ctx, id); err != nil {
		return err
	}

	expenses, overrides, err := s.repo.CountConceptDependencies(ctx, id)
	if err != nil {
		return fmt.Errorf("counting concept dependencies: %w", err)
	}

	if expenses+overrides > 0 {
		return &IntegrityError{
			Resource:  "concept",
			ID:        id.String(),
			Expenses:  expenses,
			Overrides: overrides,
		}
	}

	return s.repo.DeleteConcept(ctx, id)
}

// RecordExpense stores an expense recorded by the acting user.
func (s *Service) RecordExpense(ctx context.Context, actor uuid.UUID, params RecordExpenseParams) (*Expense, error) {
	if actor == uuid.Nil {
		return nil, Invalid("user", "an acting user is required")
	}

	if !params.Amount.IsPositive() {
		return nil, Invalid("amount", "must be greater than zero, got %s", params.Amount)
	}

	if err := CheckAmount("amount", params.Amount); err != nil {
		return nil, err
	}

	concept, err := s.repo.GetConcept(ctx, params.ConceptID)
	if err != nil {
		return nil, err
	}

	spentAt := s.now().UTC()
	if params.SpentAt != nil {
		spentAt = params.SpentAt.UTC()
	}

	e := &Expense{
		ConceptID:   concept.ID,
		UserID:      actor,
		Amount:      params.Amount,
		SpentAt:     spentAt,
		ConceptName: concept.Name,
	}
	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) ListExpenses(ctx context.Context, filter ExpenseFilter) ([]*Expense, error) {
	return s.repo.ListExpenses(ctx, filter)
}
