package budget

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cghidalgos/presupuesto/internal/household"
)

// BatchShareSubmission replaces every user's contribution share. Percent is
// on the 0-100 scale.
type BatchShareSubmission struct {
	Entries []ShareEntry
}

type ShareEntry struct {
	UserID  uuid.UUID
	Percent string
}

// ShareValue is a validated share as stored, on the 0-1 scale.
type ShareValue struct {
	UserID uuid.UUID
	Share  decimal.Decimal
}

var (
	hundred        = decimal.NewFromInt(100)
	shareTolerance = decimal.New(1, -2)
)

// ValidateShares checks a submission against the current users. It returns
// the shares to store or the first problem found.
func ValidateShares(sub BatchShareSubmission, users []*household.User) ([]ShareValue, error) {
	byID := make(map[uuid.UUID]*household.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	seen := make(map[uuid.UUID]bool, len(sub.Entries))
	values := make([]ShareValue, 0, len(sub.Entries))
	sum := decimal.Zero

	for _, entry := range sub.Entries {
		u, ok := byID[entry.UserID]
		if !ok {
			return nil, &household.NotFoundError{Resource: "user", ID: entry.UserID.String()}
		}

		if seen[u.ID] {
			return nil, household.Invalid("user_id", "%s submitted more than once", u.Name)
		}

		seen[u.ID] = true
		field := "percent[" + u.Name + "]"

		percent, err := ParseAmount(field, entry.Percent)
		if err != nil {
			return nil, err
		}

		if percent.IsNegative() || percent.GreaterThan(hundred) {
			return nil, household.Invalid(field, "must be between 0 and 100, got %s", percent)
		}

		if err := household.CheckSharePercent(field, percent); err != nil {
			return nil, err
		}

		sum = sum.Add(percent)
		values = append(values, ShareValue{UserID: u.ID, Share: percent.Div(hundred)})
	}

	for _, u := range users {
		if !seen[u.ID] {
			return nil, household.Invalid("percent["+u.Name+"]", "a share is required for every user")
		}
	}

	if sum.Sub(hundred).Abs().GreaterThan(shareTolerance) {
		return nil, household.Invalid("percent", "shares must add up to 100, got %s", sum)
	}

	return values, nil
}
