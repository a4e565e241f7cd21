package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cghidalgos/presupuesto/internal/household"
)

const uniqueViolation = "23505"

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectUserColumns = `id, name, email, password_hash, share, created_at`

func scanUser(s scanner) (*household.User, error) {
	var u household.User
	if err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Share, &u.CreatedAt); err != nil {
		return nil, err
	}

	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *household.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, share, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, u.Name, u.Email, u.PasswordHash, u.Share).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return household.Invalid("email", "%s is already registered", u.Email)
		}

		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*household.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &household.NotFoundError{Resource: "user", ID: email}
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]*household.User, error) {
	return LoadUsers(ctx, s.db)
}

// LoadUsers returns every user ordered by name.
func LoadUsers(ctx context.Context, q Querier) ([]*household.User, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+selectUserColumns+` FROM users ORDER BY name, created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*household.User

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}

		users = append(users, u)
	}

	return users, rows.Err()
}

func (s *Store) CreateArea(ctx context.Context, a *household.Area) error {
	query := `
		INSERT INTO areas (name, created_at)
		VALUES ($1, NOW())
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, a.Name).Scan(&a.ID, &a.CreatedAt); err != nil {
		return fmt.Errorf("creating area: %w", err)
	}

	return nil
}

func (s *Store) GetArea(ctx context.Context, id uuid.UUID) (*household.Area, error) {
	var a household.Area

	err := s.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM areas WHERE id = $1`, id).
		Scan(&a.ID, &a.Name, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &household.NotFoundError{Resource: "area", ID: id.String()}
		}

		return nil, fmt.Errorf("getting area: %w", err)
	}

	return &a, nil
}

func (s *Store) ListAreas(ctx context.Context) ([]*household.Area, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at FROM areas ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing areas: %w", err)
	}
	defer rows.Close()

	var areas []*household.Area

	for rows.Next() {
		var a household.Area
		if err := rows.Scan(&a.ID, &a.Name, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning area: %w", err)
		}

		areas = append(areas, &a)
	}

	return areas, rows.Err()
}

func (s *Store) CreateConcept(ctx context.Context, c *household.Concept) error {
	query := `
		INSERT INTO concepts (area_id, name, base_budget, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, c.AreaID, c.Name, c.BaseBudget).Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("creating concept: %w", err)
	}

	return nil
}

const selectConceptColumns = `
	c.id, c.area_id, a.name AS area_name, a.created_at AS area_created_at,
	c.name, c.base_budget, c.created_at
`

func scanConcept(s scanner) (*household.Concept, error) {
	var c household.Concept

	area := &household.Area{}
	if err := s.Scan(&c.ID, &c.AreaID, &area.Name, &area.CreatedAt, &c.Name, &c.BaseBudget, &c.CreatedAt); err != nil {
		return nil, err
	}

	area.ID = c.AreaID
	c.Area = area

	return &c, nil
}

func (s *Store) GetConcept(ctx context.Context, id uuid.UUID) (*household.Concept, error) {
	query := `SELECT ` + selectConceptColumns + `
		FROM concepts c
		JOIN areas a ON c.area_id = a.id
		WHERE c.id = $1`

	c, err := scanConcept(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &household.NotFoundError{Resource: "concept", ID: id.String()}
		}

		return nil, fmt.Errorf("getting concept: %w", err)
	}

	return c, nil
}

func (s *Store) ListConcepts(ctx context.Context) ([]*household.Concept, error) {
	return LoadConcepts(ctx, s.db)
}

// LoadConcepts returns every concept ordered by area name then concept name,
// with its area and full expense history attached.
func LoadConcepts(ctx context.Context, q Querier) ([]*household.Concept, error) {
	query := `SELECT ` + selectConceptColumns + `
		FROM concepts c
		JOIN areas a ON c.area_id = a.id
		ORDER BY a.name, c.name, c.created_at`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing concepts: %w", err)
	}

	var concepts []*household.Concept

	byID := make(map[uuid.UUID]*household.Concept)

	for rows.Next() {
		c, err := scanConcept(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning concept: %w", err)
		}

		concepts = append(concepts, c)
		byID[c.ID] = c
	}

	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating concepts: %w", err)
	}

	rows.Close()

	expenses, err := listExpenses(ctx, q, household.ExpenseFilter{})
	if err != nil {
		return nil, err
	}

	for _, e := range expenses {
		if c, ok := byID[e.ConceptID]; ok {
			c.Expenses = append(c.Expenses, e)
		}
	}

	return concepts, nil
}

func (s *Store) CountConceptDependencies(ctx context.Context, id uuid.UUID) (int, int, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM expenses WHERE concept_id = $1),
			(SELECT COUNT(*) FROM monthly_budgets WHERE concept_id = $1)
	`

	var expenses, overrides int
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&expenses, &overrides); err != nil {
		return 0, 0, fmt.Errorf("counting concept dependencies: %w", err)
	}

	return expenses, overrides, nil
}

func (s *Store) DeleteConcept(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM concepts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting concept: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &household.NotFoundError{Resource: "concept", ID: id.String()}
	}

	return nil
}

func (s *Store) CreateExpense(ctx context.Context, e *household.Expense) error {
	query := `
		INSERT INTO expenses (concept_id, user_id, amount, spent_at, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, e.ConceptID, e.UserID, e.Amount, e.SpentAt).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating expense: %w", err)
	}

	return nil
}

func (s *Store) ListExpenses(ctx context.Context, filter household.ExpenseFilter) ([]*household.Expense, error) {
	return listExpenses(ctx, s.db, filter)
}

func listExpenses(ctx context.Context, q Querier, filter household.ExpenseFilter) ([]*household.Expense, error) {
	query := `
		SELECT e.id, e.concept_id, e.user_id, e.amount, e.spent_at, c.name, u.name, e.created_at
		FROM expenses e
		JOIN concepts c ON e.concept_id = c.id
		JOIN users u ON e.user_id = u.id
		WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND e.spent_at >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND e.spent_at < $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.Limit > 0 {
		query += fmt.Sprintf(" ORDER BY e.spent_at DESC, e.created_at DESC LIMIT $%d", argIdx)

		args = append(args, filter.Limit)
	} else {
		query += " ORDER BY e.spent_at ASC, e.created_at ASC"
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*household.Expense

	for rows.Next() {
		var e household.Expense
		if err := rows.Scan(&e.ID, &e.ConceptID, &e.UserID, &e.Amount, &e.SpentAt, &e.ConceptName, &e.UserName, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		expenses = append(expenses, &e)
	}

	return expenses, rows.Err()
}
