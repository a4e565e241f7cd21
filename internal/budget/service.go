package budget

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cghidalgos/presupuesto/internal/household"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=budget
type Repository interface {
	// LoadSnapshot reads every concept with its area and expenses, every
	// user, and the overrides of the given periods in one consistent read.
	LoadSnapshot(ctx context.Context, periods []Period) (*Snapshot, error)
	ListUsers(ctx context.Context) ([]*household.User, error)

	// BeginBatch opens a transaction serialized against other batches with
	// the same lock key.
	BeginBatch(ctx context.Context, lockKey string) (BatchTx, error)
}

type BatchTx interface {
	UpsertOverride(ctx context.Context, o *Override) error
	UpdateShare(ctx context.Context, userID uuid.UUID, share decimal.Decimal) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// NewServiceWithClock is NewService with a fixed notion of "now", used to
// resolve the default suggestion target.
func NewServiceWithClock(repo Repository, now func() time.Time) *Service {
	return &Service{repo: repo, now: now}
}

// NextPeriod is the default target for suggestions.
func (s *Service) NextPeriod() Period {
	return NextPeriod(s.now())
}

func (s *Service) Report(ctx context.Context, p Period) (*Report, error) {
	snap, err := s.repo.LoadSnapshot(ctx, []Period{p})
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	return BuildReport(p, snap), nil
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	snap, err := s.repo.LoadSnapshot(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	return BuildDashboard(snap), nil
}

func (s *Service) Suggestions(ctx context.Context, target Period) ([]Suggestion, error) {
	snap, err := s.repo.LoadSnapshot(ctx, []Period{target.Prev()})
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	return Suggest(target, snap), nil
}

// CommitSuggestions writes an override for every concept in the target month.
// Either all of them are written or none is.
func (s *Service) CommitSuggestions(ctx context.Context, sub BatchOverrideSubmission) ([]*Override, error) {
	suggestions, err := s.Suggestions(ctx, sub.Target)
	if err != nil {
		return nil, err
	}

	values, err := resolveOverrides(sub, suggestions)
	if err != nil {
		return nil, err
	}

	return s.writeOverrides(ctx, sub.Target, values)
}

// SetOverrides writes the given values for target as a single batch.
func (s *Service) SetOverrides(ctx context.Context, target Period, values []OverrideValue) ([]*Override, error) {
	if len(values) == 0 {
		return nil, household.Invalid("values", "at least one value is required")
	}

	snap, err := s.repo.LoadSnapshot(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	if err := checkOverrideValues(values, snap.Concepts); err != nil {
		return nil, err
	}

	return s.writeOverrides(ctx, target, values)
}

// SetOverride upserts the budget of one concept for one month.
func (s *Service) SetOverride(ctx context.Context, conceptID uuid.UUID, p Period, amount decimal.Decimal) (*Override, error) {
	written, err := s.SetOverrides(ctx, p, []OverrideValue{{ConceptID: conceptID, Amount: amount}})
	if err != nil {
		return nil, err
	}

	return written[0], nil
}

func (s *Service) writeOverrides(ctx context.Context, target Period, values []OverrideValue) ([]*Override, error) {
	btx, err := s.repo.BeginBatch(ctx, "overrides:"+target.String())
	if err != nil {
		return nil, fmt.Errorf("beginning batch: %w", err)
	}
	defer btx.Rollback()

	written := make([]*Override, 0, len(values))

	for _, v := range values {
		o := &Override{ConceptID: v.ConceptID, Period: target, Amount: v.Amount}
		if err := btx.UpsertOverride(ctx, o); err != nil {
			return nil, fmt.Errorf("upserting override for concept %s: %w", v.ConceptID, err)
		}

		written = append(written, o)
	}

	if err := btx.Commit(); err != nil {
		return nil, fmt.Errorf("committing overrides: %w", err)
	}

	slog.Info("committed monthly budgets", "period", target.String(), "count", len(written))

	return written, nil
}

// UpdateShares replaces every user's contribution share. Nothing is written
// unless the whole submission is valid.
func (s *Service) UpdateShares(ctx context.Context, sub BatchShareSubmission) error {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("listing users: %w", err)
	}

	values, err := ValidateShares(sub, users)
	if err != nil {
		return err
	}

	btx, err := s.repo.BeginBatch(ctx, "shares")
	if err != nil {
		return fmt.Errorf("beginning batch: %w", err)
	}
	defer btx.Rollback()

	for _, v := range values {
		if err := btx.UpdateShare(ctx, v.UserID, v.Share); err != nil {
			return fmt.Errorf("updating share for user %s: %w", v.UserID, err)
		}
	}

	if err := btx.Commit(); err != nil {
		return fmt.Errorf("committing shares: %w", err)
	}

	slog.Info("updated contribution shares", "users", len(values))

	return nil
}
