package household

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User is a member of the household. Share is the fraction (0-1) of the
// monthly budget the user is expected to contribute.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Share        decimal.Decimal
	CreatedAt    time.Time
}

// SharePercent returns the contribution share on the 0-100 scale.
func (u *User) SharePercent() decimal.Decimal {
	return u.Share.Mul(decimal.NewFromInt(100))
}

// Area groups related concepts (e.g. "Servicios").
type Area struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// Concept is a budget line item under an area (e.g. "Energia").
type Concept struct {
	ID         uuid.UUID
	AreaID     uuid.UUID
	Area       *Area // Loaded via JOIN
	Name       string
	BaseBudget decimal.Decimal
	Expenses   []*Expense
	CreatedAt  time.Time
}

// AreaName returns the name of the concept's area, or "" when it was not loaded.
func (c *Concept) AreaName() string {
	if c.Area == nil {
		return ""
	}

	return c.Area.Name
}

// TotalSpent is the sum of every expense ever recorded against the concept.
func (c *Concept) TotalSpent() decimal.Decimal {
	total := decimal.Zero
	for _, e := range c.Expenses {
		total = total.Add(e.Amount)
	}

	return total
}

// Remaining is the all-time base budget left, clamped at zero.
func (c *Concept) Remaining() decimal.Decimal {
	return decimal.Max(c.BaseBudget.Sub(c.TotalSpent()), decimal.Zero)
}

// Expense is a single amount spent against a concept by a user.
type Expense struct {
	ID          uuid.UUID
	ConceptID   uuid.UUID
	UserID      uuid.UUID
	Amount      decimal.Decimal
	SpentAt     time.Time
	ConceptName string // Loaded via JOIN
	UserName    string // Loaded via JOIN
	CreatedAt   time.Time
}
