package household

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cghidalgos/presupuesto/internal/household"
)

type userResponse struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	SharePercent decimal.Decimal `json:"share_percent"`
	CreatedAt    time.Time       `json:"created_at"`
}

func toUserResponse(u *household.User) userResponse {
	return userResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		SharePercent: u.SharePercent(),
		CreatedAt:    u.CreatedAt,
	}
}

func toUserList(users []*household.User) []userResponse {
	resp := make([]userResponse, len(users))
	for i, u := range users {
		resp[i] = toUserResponse(u)
	}

	return resp
}

type areaResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toAreaResponse(a *household.Area) areaResponse {
	return areaResponse{ID: a.ID, Name: a.Name, CreatedAt: a.CreatedAt}
}

type conceptResponse struct {
	ID         uuid.UUID       `json:"id"`
	AreaID     uuid.UUID       `json:"area_id"`
	AreaName   string          `json:"area_name"`
	Name       string          `json:"name"`
	BaseBudget decimal.Decimal `json:"base_budget"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	CreatedAt  time.Time       `json:"created_at"`
}

func toConceptResponse(c *household.Concept) conceptResponse {
	return conceptResponse{
		ID:         c.ID,
		AreaID:     c.AreaID,
		AreaName:   c.AreaName(),
		Name:       c.Name,
		BaseBudget: c.BaseBudget,
		TotalSpent: c.TotalSpent(),
		Remaining:  c.Remaining(),
		CreatedAt:  c.CreatedAt,
	}
}

type expenseResponse struct {
	ID          uuid.UUID       `json:"id"`
	ConceptID   uuid.UUID       `json:"concept_id"`
	ConceptName string          `json:"concept_name,omitempty"`
	UserID      uuid.UUID       `json:"user_id"`
	UserName    string          `json:"user_name,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	SpentAt     time.Time       `json:"spent_at"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toExpenseResponse(e *household.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		ConceptID:   e.ConceptID,
		ConceptName: e.ConceptName,
		UserID:      e.UserID,
		UserName:    e.UserName,
		Amount:      e.Amount,
		SpentAt:     e.SpentAt,
		CreatedAt:   e.CreatedAt,
	}
}

func toExpenseList(expenses []*household.Expense) []expenseResponse {
	resp := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = toExpenseResponse(e)
	}

	return resp
}
