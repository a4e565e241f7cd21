package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cghidalgos/presupuesto/internal/household"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

//go:generate mockgen -source=service.go -destination=users_mock.go -package=auth
type Users interface {
	CreateUser(ctx context.Context, params household.CreateUserParams) (*household.User, error)
	GetUserByEmail(ctx context.Context, email string) (*household.User, error)
}

type Service struct {
	users  Users
	issuer *Issuer
}

func NewService(users Users, issuer *Issuer) *Service {
	return &Service{users: users, issuer: issuer}
}

type RegisterParams struct {
	Name         string
	Email        string
	Password     string
	SharePercent decimal.Decimal
}

// Session is the outcome of a successful register or login.
type Session struct {
	User      *household.User
	Token     string
	ExpiresAt time.Time
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (*Session, error) {
	if len(params.Password) < minPasswordLength {
		return nil, household.Invalid("password", "must be at least %d characters", minPasswordLength)
	}

	if len(params.Password) > maxPasswordBytes {
		return nil, household.Invalid("password", "must be at most %d bytes", maxPasswordBytes)
	}

	hash, err := HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.users.CreateUser(ctx, household.CreateUserParams{
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: hash,
		SharePercent: params.SharePercent,
	})
	if err != nil {
		return nil, err
	}

	return s.session(u)
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, household.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if !CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return s.session(u)
}

func (s *Service) session(u *household.User) (*Session, error) {
	token, expires, err := s.issuer.Issue(u.ID)
	if err != nil {
		return nil, err
	}

	return &Session{User: u, Token: token, ExpiresAt: expires}, nil
}
