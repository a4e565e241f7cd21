package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cghidalgos/presupuesto/internal/auth"
	"github.com/cghidalgos/presupuesto/internal/household"
)

func TestIssuer(t *testing.T) {
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	issuer := auth.NewIssuerWithClock("secret", time.Hour, clock)
	userID := uuid.New()

	token, expires, err := issuer.Issue(userID)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expires)

	t.Run("Valid", func(t *testing.T) {
		got, err := issuer.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		_, err := auth.NewIssuerWithClock("other", time.Hour, clock).Verify(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		later := auth.NewIssuerWithClock("secret", time.Hour, func() time.Time { return now.Add(2 * time.Hour) })
		_, err := later.Verify(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := issuer.Verify("not-a-token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestPassword(t *testing.T) {
	hash, err := auth.HashPassword("seed123")
	require.NoError(t, err)

	assert.True(t, auth.CheckPassword(hash, "seed123"))
	assert.False(t, auth.CheckPassword(hash, "seed124"))
}

func TestService_Register(t *testing.T) {
	issuer := auth.NewIssuer("secret", time.Hour)

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		users := auth.NewMockUsers(ctrl)
		id := uuid.New()

		users.EXPECT().
			CreateUser(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p household.CreateUserParams) (*household.User, error) {
				assert.NotEqual(t, "hunter22", p.PasswordHash)
				assert.True(t, auth.CheckPassword(p.PasswordHash, "hunter22"))

				return &household.User{ID: id, Name: p.Name, Email: p.Email}, nil
			})

		session, err := auth.NewService(users, issuer).Register(context.Background(), auth.RegisterParams{
			Name:         "Ana",
			Email:        "ana@example.com",
			Password:     "hunter22",
			SharePercent: decimal.NewFromInt(50),
		})
		require.NoError(t, err)
		assert.NotEmpty(t, session.Token)

		got, err := issuer.Verify(session.Token)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	})

	t.Run("ShortPassword", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		_, err := auth.NewService(auth.NewMockUsers(ctrl), issuer).Register(context.Background(), auth.RegisterParams{
			Name:     "Ana",
			Email:    "ana@example.com",
			Password: "123",
		})
		assert.ErrorIs(t, err, household.ErrValidation)
	})

	t.Run("LongPassword", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		_, err := auth.NewService(auth.NewMockUsers(ctrl), issuer).Register(context.Background(), auth.RegisterParams{
			Name:     "Ana",
			Email:    "ana@example.com",
			Password: strings.Repeat("x", 73),
		})
		assert.ErrorIs(t, err, household.ErrValidation)
	})

	t.Run("PasswordAtLimit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		users := auth.NewMockUsers(ctrl)
		users.EXPECT().
			CreateUser(gomock.Any(), gomock.Any()).
			Return(&household.User{ID: uuid.New(), Name: "Ana", Email: "ana@example.com"}, nil)

		_, err := auth.NewService(users, issuer).Register(context.Background(), auth.RegisterParams{
			Name:     "Ana",
			Email:    "ana@example.com",
			Password: strings.Repeat("x", 72),
		})
		assert.NoError(t, err)
	})
}

func TestService_Login(t *testing.T) {
	issuer := auth.NewIssuer("secret", time.Hour)
	hash, err := auth.HashPassword("seed123")
	require.NoError(t, err)

	user := &household.User{ID: uuid.New(), Email: "seed@example.com", PasswordHash: hash}

	tests := []struct {
		name      string
		email     string
		password  string
		setupMock func(m *auth.MockUsers)
		wantErr   error
	}{
		{
			name:     "Success",
			email:    "seed@example.com",
			password: "seed123",
			setupMock: func(m *auth.MockUsers) {
				m.EXPECT().GetUserByEmail(gomock.Any(), "seed@example.com").Return(user, nil)
			},
		},
		{
			name:     "WrongPassword",
			email:    "seed@example.com",
			password: "nope",
			setupMock: func(m *auth.MockUsers) {
				m.EXPECT().GetUserByEmail(gomock.Any(), "seed@example.com").Return(user, nil)
			},
			wantErr: auth.ErrInvalidCredentials,
		},
		{
			name:     "UnknownEmail",
			email:    "ghost@example.com",
			password: "seed123",
			setupMock: func(m *auth.MockUsers) {
				m.EXPECT().
					GetUserByEmail(gomock.Any(), "ghost@example.com").
					Return(nil, &household.NotFoundError{Resource: "user", ID: "ghost@example.com"})
			},
			wantErr: auth.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			users := auth.NewMockUsers(ctrl)
			tt.setupMock(users)

			session, err := auth.NewService(users, issuer).Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, user, session.User)
		})
	}
}

func TestMiddleware(t *testing.T) {
	issuer := auth.NewIssuer("secret", time.Hour)
	userID := uuid.New()
	token, _, err := issuer.Issue(userID)
	require.NoError(t, err)

	var seen uuid.UUID

	handler := auth.Middleware(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.UserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"Valid", "Bearer " + token, http.StatusNoContent},
		{"Missing", "", http.StatusUnauthorized},
		{"WrongScheme", "Basic " + token, http.StatusUnauthorized},
		{"Tampered", "Bearer " + token + "x", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = uuid.Nil

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusNoContent {
				assert.Equal(t, userID, seen)
			} else {
				assert.Equal(t, uuid.Nil, seen)
			}
		})
	}
}
