package household_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cghidalgos/presupuesto/internal/auth"
	"github.com/cghidalgos/presupuesto/internal/household"
	handler "github.com/cghidalgos/presupuesto/internal/http/household"
)

func newRouter(repo *household.MockRepository) http.Handler {
	h := handler.NewHandler(household.NewService(repo))

	r := chi.NewRouter()
	r.Route("/concepts", h.ConceptRoutes)
	r.Route("/expenses", h.ExpenseRoutes)
	r.Route("/areas", h.AreaRoutes)
	r.Route("/users", h.UserRoutes)

	return r
}

func TestHandler_CreateConcept(t *testing.T) {
	areaID := uuid.New()

	tests := []struct {
		name       string
		body       string
		setupMock  func(m *household.MockRepository)
		wantStatus int
	}{
		{
			name: "NumberBudget",
			body: `{"area_id":"` + areaID.String() + `","name":"Energia","base_budget":120000}`,
			setupMock: func(m *household.MockRepository) {
				m.EXPECT().GetArea(gomock.Any(), areaID).Return(&household.Area{ID: areaID, Name: "Servicios"}, nil)
				m.EXPECT().CreateConcept(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "StringBudget",
			body: `{"area_id":"` + areaID.String() + `","name":"Energia","base_budget":"120000.50"}`,
			setupMock: func(m *household.MockRepository) {
				m.EXPECT().GetArea(gomock.Any(), areaID).Return(&household.Area{ID: areaID}, nil)
				m.EXPECT().CreateConcept(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "BadBudget",
			body:       `{"area_id":"` + areaID.String() + `","name":"Energia","base_budget":"mucho"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "MalformedJSON",
			body:       `{"name":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "UnknownArea",
			body: `{"area_id":"` + areaID.String() + `","name":"Energia","base_budget":1}`,
			setupMock: func(m *household.MockRepository) {
				m.EXPECT().GetArea(gomock.Any(), areaID).Return(nil, &household.NotFoundError{Resource: "area", ID: areaID.String()})
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := household.NewMockRepository(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			req := httptest.NewRequest(http.MethodPost, "/concepts/", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			newRouter(repo).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestHandler_DeleteConcept(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		path       string
		setupMock  func(m *household.MockRepository)
		wantStatus int
	}{
		{
			name: "Deleted",
			path: "/concepts/" + id.String(),
			setupMock: func(m *household.MockRepository) {
				m.EXPECT().GetConcept(gomock.Any(), id).Return(&household.Concept{ID: id}, nil)
				m.EXPECT().CountConceptDependencies(gomock.Any(), id).Return(0, 0, nil)
				m.EXPECT().DeleteConcept(gomock.Any(), id).Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name: "InUse",
			path: "/concepts/" + id.String(),
			setupMock: func(m *household.MockRepository) {
				m.EXPECT().GetConcept(gomock.Any(), id).Return(&household.Concept{ID: id}, nil)
				m.EXPECT().CountConceptDependencies(gomock.Any(), id).Return(0, 2, nil)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "BadID",
			path:       "/concepts/nope",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := household.NewMockRepository(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			rec := httptest.NewRecorder()
			newRouter(repo).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_RecordExpense(t *testing.T) {
	conceptID := uuid.New()
	actor := uuid.New()

	t.Run("UsesActingUser", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := household.NewMockRepository(ctrl)

		repo.EXPECT().GetConcept(gomock.Any(), conceptID).Return(&household.Concept{ID: conceptID, Name: "Agua"}, nil)
		repo.EXPECT().
			CreateExpense(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e *household.Expense) error {
				assert.Equal(t, actor, e.UserID)
				assert.True(t, decimal.NewFromInt(45000).Equal(e.Amount))
				assert.Equal(t, time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC), e.SpentAt)
				e.ID = uuid.New()

				return nil
			})

		body := `{"concept_id":"` + conceptID.String() + `","amount":45000,"spent_at":"2025-10-15T12:00:00Z"}`
		req := httptest.NewRequest(http.MethodPost, "/expenses/", strings.NewReader(body))
		req = req.WithContext(auth.WithUserID(req.Context(), actor))

		rec := httptest.NewRecorder()
		newRouter(repo).ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "45000", resp["amount"])
		assert.Equal(t, "Agua", resp["concept_name"])
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		rec := httptest.NewRecorder()
		newRouter(household.NewMockRepository(ctrl)).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/expenses/", strings.NewReader(`{}`)))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("ZeroAmount", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		body := `{"concept_id":"` + conceptID.String() + `","amount":0}`
		req := httptest.NewRequest(http.MethodPost, "/expenses/", strings.NewReader(body))
		req = req.WithContext(auth.WithUserID(req.Context(), actor))

		rec := httptest.NewRecorder()
		newRouter(household.NewMockRepository(ctrl)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_ListExpenses(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := household.NewMockRepository(ctrl)

	start := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().
		ListExpenses(gomock.Any(), household.ExpenseFilter{StartDate: &start, EndDate: &end, Limit: 5}).
		Return([]*household.Expense{{ID: uuid.New(), Amount: decimal.NewFromInt(1)}}, nil)

	rec := httptest.NewRecorder()
	newRouter(repo).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/expenses/?period=2025-10&limit=5", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)
}

func TestHandler_ListUsers(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := household.NewMockRepository(ctrl)

	repo.EXPECT().ListUsers(gomock.Any()).Return([]*household.User{
		{ID: uuid.New(), Name: "Ana", Share: decimal.RequireFromString("0.6")},
	}, nil)

	rec := httptest.NewRecorder()
	newRouter(repo).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "60", resp[0]["share_percent"])
	assert.NotContains(t, resp[0], "password_hash")
}
