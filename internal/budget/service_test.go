package budget_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cghidalgos/presupuesto/internal/budget"
	"github.com/cghidalgos/presupuesto/internal/household"
)

// stagingStore keeps batch writes aside until Commit, like a database
// transaction would.
type stagingStore struct {
	snap      *budget.Snapshot
	overrides map[uuid.UUID]decimal.Decimal
	shares    map[uuid.UUID]decimal.Decimal
	failAfter int // fail the write after this many succeeded; -1 never fails
	lockKeys  []string
}

func newStagingStore(snap *budget.Snapshot) *stagingStore {
	return &stagingStore{
		snap:      snap,
		overrides: make(map[uuid.UUID]decimal.Decimal),
		shares:    make(map[uuid.UUID]decimal.Decimal),
		failAfter: -1,
	}
}

func (s *stagingStore) LoadSnapshot(_ context.Context, _ []budget.Period) (*budget.Snapshot, error) {
	return s.snap, nil
}

func (s *stagingStore) ListUsers(_ context.Context) ([]*household.User, error) {
	return s.snap.Users, nil
}

func (s *stagingStore) BeginBatch(_ context.Context, lockKey string) (budget.BatchTx, error) {
	s.lockKeys = append(s.lockKeys, lockKey)

	return &stagingTx{
		store:     s,
		overrides: make(map[uuid.UUID]decimal.Decimal),
		shares:    make(map[uuid.UUID]decimal.Decimal),
	}, nil
}

type stagingTx struct {
	store     *stagingStore
	overrides map[uuid.UUID]decimal.Decimal
	shares    map[uuid.UUID]decimal.Decimal
	writes    int
	done      bool
}

func (tx *stagingTx) write() error {
	if tx.store.failAfter >= 0 && tx.writes == tx.store.failAfter {
		return errors.New("disk full")
	}

	tx.writes++

	return nil
}

func (tx *stagingTx) UpsertOverride(_ context.Context, o *budget.Override) error {
	if err := tx.write(); err != nil {
		return err
	}

	o.ID = uuid.New()
	tx.overrides[o.ConceptID] = o.Amount

	return nil
}

func (tx *stagingTx) UpdateShare(_ context.Context, userID uuid.UUID, share decimal.Decimal) error {
	if err := tx.write(); err != nil {
		return err
	}

	tx.shares[userID] = share

	return nil
}

func (tx *stagingTx) Commit() error {
	for k, v := range tx.overrides {
		tx.store.overrides[k] = v
	}

	for k, v := range tx.shares {
		tx.store.shares[k] = v
	}

	tx.done = true

	return nil
}

func (tx *stagingTx) Rollback() error {
	tx.done = true
	return nil
}

func suggestionSnapshot() *budget.Snapshot {
	user := uuid.New()

	agua := newConcept("Servicios", "Agua", "100000")
	spend(agua, user, "135860", at(2025, time.October, 15))

	energia := newConcept("Servicios", "Energia", "108000")
	spend(energia, user, "95200", at(2025, time.October, 15))

	gas := newConcept("Servicios", "Gas", "45000")
	spend(gas, user, "45000", at(2025, time.October, 15))

	return &budget.Snapshot{
		Concepts: []*household.Concept{agua, energia, gas},
		Users: []*household.User{
			{ID: user, Name: "Ana", Share: dec("0.5")},
			{ID: uuid.New(), Name: "Luis", Share: dec("0.5")},
		},
	}
}

func TestService_CommitSuggestions(t *testing.T) {
	target := budget.Period{Year: 2025, Month: time.November}

	t.Run("DefaultsToSuggestions", func(t *testing.T) {
		snap := suggestionSnapshot()
		store := newStagingStore(snap)
		svc := budget.NewService(store)

		manual := "50000"
		written, err := svc.CommitSuggestions(context.Background(), budget.BatchOverrideSubmission{
			Target:  target,
			Entries: []budget.OverrideEntry{{ConceptID: snap.Concepts[2].ID, Value: &manual}},
		})
		require.NoError(t, err)
		assert.Len(t, written, 3)

		assertDecimal(t, "135860", store.overrides[snap.Concepts[0].ID])
		assertDecimal(t, "95200", store.overrides[snap.Concepts[1].ID])
		assertDecimal(t, "50000", store.overrides[snap.Concepts[2].ID])
		assert.Equal(t, []string{"overrides:2025-11"}, store.lockKeys)

		for _, o := range written {
			assert.Equal(t, target, o.Period)
		}
	})

	t.Run("FailureOnLastItemPersistsNothing", func(t *testing.T) {
		snap := suggestionSnapshot()
		store := newStagingStore(snap)
		store.failAfter = 2

		_, err := budget.NewService(store).CommitSuggestions(context.Background(), budget.BatchOverrideSubmission{Target: target})
		require.Error(t, err)
		assert.Empty(t, store.overrides)
	})

	t.Run("InvalidValueRejectsBeforeWriting", func(t *testing.T) {
		snap := suggestionSnapshot()
		store := newStagingStore(snap)

		bad := "12,5x"
		_, err := budget.NewService(store).CommitSuggestions(context.Background(), budget.BatchOverrideSubmission{
			Target:  target,
			Entries: []budget.OverrideEntry{{ConceptID: snap.Concepts[1].ID, Value: &bad}},
		})
		assert.ErrorIs(t, err, household.ErrValidation)
		assert.Empty(t, store.lockKeys)
	})

	t.Run("NegativeValue", func(t *testing.T) {
		snap := suggestionSnapshot()

		neg := "-1"
		_, err := budget.NewService(newStagingStore(snap)).CommitSuggestions(context.Background(), budget.BatchOverrideSubmission{
			Target:  target,
			Entries: []budget.OverrideEntry{{ConceptID: snap.Concepts[0].ID, Value: &neg}},
		})
		assert.ErrorIs(t, err, household.ErrValidation)
	})

	for _, value := range []string{"100.005", "1e13"} {
		t.Run("UnstorableValueRejectsBeforeWriting", func(t *testing.T) {
			snap := suggestionSnapshot()
			store := newStagingStore(snap)

			_, err := budget.NewService(store).CommitSuggestions(context.Background(), budget.BatchOverrideSubmission{
				Target:  target,
				Entries: []budget.OverrideEntry{{ConceptID: snap.Concepts[0].ID, Value: &value}},
			})
			assert.ErrorIs(t, err, household.ErrValidation)
			assert.Empty(t, store.lockKeys)
			assert.Empty(t, store.overrides)
		})
	}

	t.Run("UnknownConcept", func(t *testing.T) {
		_, err := budget.NewService(newStagingStore(suggestionSnapshot())).CommitSuggestions(context.Background(), budget.BatchOverrideSubmission{
			Target:  target,
			Entries: []budget.OverrideEntry{{ConceptID: uuid.New()}},
		})
		assert.ErrorIs(t, err, household.ErrNotFound)
	})
}

func TestService_UpdateShares(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		snap := suggestionSnapshot()
		store := newStagingStore(snap)

		err := budget.NewService(store).UpdateShares(context.Background(), budget.BatchShareSubmission{
			Entries: []budget.ShareEntry{
				{UserID: snap.Users[0].ID, Percent: "70"},
				{UserID: snap.Users[1].ID, Percent: "30"},
			},
		})
		require.NoError(t, err)
		assertDecimal(t, "0.7", store.shares[snap.Users[0].ID])
		assertDecimal(t, "0.3", store.shares[snap.Users[1].ID])
		assert.Equal(t, []string{"shares"}, store.lockKeys)
	})

	t.Run("FailureOnLastItemPersistsNothing", func(t *testing.T) {
		snap := suggestionSnapshot()
		store := newStagingStore(snap)
		store.failAfter = 1

		err := budget.NewService(store).UpdateShares(context.Background(), budget.BatchShareSubmission{
			Entries: []budget.ShareEntry{
				{UserID: snap.Users[0].ID, Percent: "70"},
				{UserID: snap.Users[1].ID, Percent: "30"},
			},
		})
		require.Error(t, err)
		assert.Empty(t, store.shares)
	})

	t.Run("InvalidSumWritesNothing", func(t *testing.T) {
		snap := suggestionSnapshot()
		store := newStagingStore(snap)

		err := budget.NewService(store).UpdateShares(context.Background(), budget.BatchShareSubmission{
			Entries: []budget.ShareEntry{
				{UserID: snap.Users[0].ID, Percent: "70"},
				{UserID: snap.Users[1].ID, Percent: "20"},
			},
		})
		assert.ErrorIs(t, err, household.ErrValidation)
		assert.Empty(t, store.lockKeys)
	})
}

func TestService_SetOverride(t *testing.T) {
	oct := budget.Period{Year: 2025, Month: time.October}
	c := newConcept("Servicios", "Agua", "100")

	tests := []struct {
		name      string
		conceptID uuid.UUID
		amount    string
		setupMock func(repo *budget.MockRepository, tx *budget.MockBatchTx)
		wantErr   error
	}{
		{
			name:      "Success",
			conceptID: c.ID,
			amount:    "120000",
			setupMock: func(repo *budget.MockRepository, tx *budget.MockBatchTx) {
				repo.EXPECT().LoadSnapshot(gomock.Any(), gomock.Nil()).Return(&budget.Snapshot{Concepts: []*household.Concept{c}}, nil)
				repo.EXPECT().BeginBatch(gomock.Any(), "overrides:2025-10").Return(tx, nil)
				tx.EXPECT().UpsertOverride(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
		},
		{
			name:      "UnknownConcept",
			conceptID: uuid.New(),
			amount:    "1",
			setupMock: func(repo *budget.MockRepository, _ *budget.MockBatchTx) {
				repo.EXPECT().LoadSnapshot(gomock.Any(), gomock.Nil()).Return(&budget.Snapshot{Concepts: []*household.Concept{c}}, nil)
			},
			wantErr: household.ErrNotFound,
		},
		{
			name:      "Negative",
			conceptID: c.ID,
			amount:    "-1",
			setupMock: func(repo *budget.MockRepository, _ *budget.MockBatchTx) {
				repo.EXPECT().LoadSnapshot(gomock.Any(), gomock.Nil()).Return(&budget.Snapshot{Concepts: []*household.Concept{c}}, nil)
			},
			wantErr: household.ErrValidation,
		},
		{
			name:      "TooPrecise",
			conceptID: c.ID,
			amount:    "100.005",
			setupMock: func(repo *budget.MockRepository, _ *budget.MockBatchTx) {
				repo.EXPECT().LoadSnapshot(gomock.Any(), gomock.Nil()).Return(&budget.Snapshot{Concepts: []*household.Concept{c}}, nil)
			},
			wantErr: household.ErrValidation,
		},
		{
			name:      "TooLarge",
			conceptID: c.ID,
			amount:    "1e13",
			setupMock: func(repo *budget.MockRepository, _ *budget.MockBatchTx) {
				repo.EXPECT().LoadSnapshot(gomock.Any(), gomock.Nil()).Return(&budget.Snapshot{Concepts: []*household.Concept{c}}, nil)
			},
			wantErr: household.ErrValidation,
		},
		{
			name:      "UpsertFails",
			conceptID: c.ID,
			amount:    "1",
			setupMock: func(repo *budget.MockRepository, tx *budget.MockBatchTx) {
				repo.EXPECT().LoadSnapshot(gomock.Any(), gomock.Nil()).Return(&budget.Snapshot{Concepts: []*household.Concept{c}}, nil)
				repo.EXPECT().BeginBatch(gomock.Any(), "overrides:2025-10").Return(tx, nil)
				tx.EXPECT().UpsertOverride(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := budget.NewMockRepository(ctrl)
			tx := budget.NewMockBatchTx(ctrl)
			tt.setupMock(repo, tx)

			got, err := budget.NewService(repo).SetOverride(context.Background(), tt.conceptID, oct, dec(tt.amount))

			if tt.wantErr != nil {
				require.Error(t, err)

				if errors.Is(tt.wantErr, household.ErrNotFound) || errors.Is(tt.wantErr, household.ErrValidation) {
					assert.ErrorIs(t, err, tt.wantErr)
				}

				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, oct, got.Period)
			assertDecimal(t, tt.amount, got.Amount)
		})
	}
}

func TestService_Report(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := budget.NewMockRepository(ctrl)
	oct := budget.Period{Year: 2025, Month: time.October}

	repo.EXPECT().LoadSnapshot(gomock.Any(), []budget.Period{oct}).Return(suggestionSnapshot(), nil)

	report, err := budget.NewService(repo).Report(context.Background(), oct)
	require.NoError(t, err)
	assert.Len(t, report.Rows, 3)
	assert.Equal(t, oct, report.Period)
}

func TestService_Suggestions_LoadsReferenceMonth(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := budget.NewMockRepository(ctrl)
	now := time.Date(2025, 10, 20, 8, 0, 0, 0, time.UTC)

	svc := budget.NewServiceWithClock(repo, func() time.Time { return now })
	target := svc.NextPeriod()
	assert.Equal(t, budget.Period{Year: 2025, Month: time.November}, target)

	repo.EXPECT().
		LoadSnapshot(gomock.Any(), []budget.Period{{Year: 2025, Month: time.October}}).
		Return(suggestionSnapshot(), nil)

	got, err := svc.Suggestions(context.Background(), target)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assertDecimal(t, "135860", got[0].SuggestedBudget)
}

func TestService_Dashboard(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := budget.NewMockRepository(ctrl)
	repo.EXPECT().LoadSnapshot(gomock.Any(), gomock.Nil()).Return(suggestionSnapshot(), nil)

	d, err := budget.NewService(repo).Dashboard(context.Background())
	require.NoError(t, err)

	assertDecimal(t, "253000", d.TotalBudgeted)
	assertDecimal(t, "276060", d.TotalSpent)
	assert.True(t, d.TotalRemaining.IsZero())
	require.Len(t, d.Contributions, 2)
	assertDecimal(t, "126500", d.Contributions[0].Expected)
	assertDecimal(t, "276060", d.Contributions[0].Paid)
	assertDecimal(t, "149560", d.Contributions[0].Balance)
	assert.Len(t, d.Recent, 3)
}
