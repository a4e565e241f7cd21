package household

import "github.com/shopspring/decimal"

// Amounts are stored as NUMERIC(14,2) and shares as NUMERIC(9,8) fractions,
// which leaves six decimal places on the 0-100 percent scale.
const (
	AmountScale       = 2
	SharePercentScale = 6
)

var maxAmount = decimal.New(1, 12)

// CheckAmount rejects amounts the store could not hold exactly.
func CheckAmount(field string, d decimal.Decimal) error {
	if !d.Equal(d.Truncate(AmountScale)) {
		return Invalid(field, "at most %d decimal places are allowed, got %s", AmountScale, d)
	}

	if d.Abs().GreaterThanOrEqual(maxAmount) {
		return Invalid(field, "must be less than %s, got %s", maxAmount, d)
	}

	return nil
}

// CheckSharePercent rejects percentages finer than the stored share precision.
func CheckSharePercent(field string, d decimal.Decimal) error {
	if !d.Equal(d.Truncate(SharePercentScale)) {
		return Invalid(field, "at most %d decimal places are allowed, got %s", SharePercentScale, d)
	}

	return nil
}
