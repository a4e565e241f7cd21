package store

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cghidalgos/presupuesto/internal/budget"
	"github.com/cghidalgos/presupuesto/internal/household"
	householdstore "github.com/cghidalgos/presupuesto/internal/household/store"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// LoadSnapshot reads concepts, users and the overrides of the requested
// periods inside one read-only repeatable-read transaction so every
// computation sees a single consistent state.
func (s *Store) LoadSnapshot(ctx context.Context, periods []budget.Period) (*budget.Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("beginning snapshot: %w", err)
	}
	defer tx.Rollback()

	concepts, err := householdstore.LoadConcepts(ctx, tx)
	if err != nil {
		return nil, err
	}

	users, err := householdstore.LoadUsers(ctx, tx)
	if err != nil {
		return nil, err
	}

	overrides, err := listOverrides(ctx, tx, periods)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing snapshot: %w", err)
	}

	return &budget.Snapshot{Concepts: concepts, Users: users, Overrides: overrides}, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]*household.User, error) {
	return householdstore.LoadUsers(ctx, s.db)
}

func listOverrides(ctx context.Context, tx *sql.Tx, periods []budget.Period) ([]*budget.Override, error) {
	if len(periods) == 0 {
		return nil, nil
	}

	conds := make([]string, 0, len(periods))
	args := make([]any, 0, 2*len(periods))

	for i, p := range periods {
		conds = append(conds, fmt.Sprintf("(year = $%d AND month = $%d)", 2*i+1, 2*i+2))
		args = append(args, p.Year, int(p.Month))
	}

	query := `
		SELECT id, concept_id, year, month, amount, updated_at
		FROM monthly_budgets
		WHERE ` + strings.Join(conds, " OR ")

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing monthly budgets: %w", err)
	}
	defer rows.Close()

	var overrides []*budget.Override

	for rows.Next() {
		var (
			o     budget.Override
			month int
		)

		if err := rows.Scan(&o.ID, &o.ConceptID, &o.Period.Year, &month, &o.Amount, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning monthly budget: %w", err)
		}

		o.Period.Month = time.Month(month)
		overrides = append(overrides, &o)
	}

	return overrides, rows.Err()
}

// BeginBatch opens a write transaction holding a transaction-scoped advisory
// lock on lockKey. A second batch with the same key waits until the first
// commits or rolls back.
func (s *Store) BeginBatch(ctx context.Context, lockKey string) (budget.BatchTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning batch: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, batchLockKey(lockKey)); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("acquiring batch lock: %w", err)
	}

	return &batchTx{tx: tx}, nil
}

func batchLockKey(key string) int64 {
	h := fnv.New64a()
	h.Write([]byte("presupuesto:"))
	h.Write([]byte(key))

	return int64(h.Sum64())
}

type batchTx struct {
	tx *sql.Tx
}

func (b *batchTx) UpsertOverride(ctx context.Context, o *budget.Override) error {
	query := `
		INSERT INTO monthly_budgets (concept_id, year, month, amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (concept_id, year, month)
		DO UPDATE SET amount = EXCLUDED.amount, updated_at = NOW()
		RETURNING id, amount, updated_at
	`

	err := b.tx.QueryRowContext(ctx, query, o.ConceptID, o.Period.Year, int(o.Period.Month), o.Amount).
		Scan(&o.ID, &o.Amount, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting monthly budget: %w", err)
	}

	return nil
}

func (b *batchTx) UpdateShare(ctx context.Context, userID uuid.UUID, share decimal.Decimal) error {
	res, err := b.tx.ExecContext(ctx, `UPDATE users SET share = $1 WHERE id = $2`, share, userID)
	if err != nil {
		return fmt.Errorf("updating share: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &household.NotFoundError{Resource: "user", ID: userID.String()}
	}

	return nil
}

func (b *batchTx) Commit() error {
	return b.tx.Commit()
}

func (b *batchTx) Rollback() error {
	return b.tx.Rollback()
}
