package budget

import "github.com/shopspring/decimal"

// Whole rounds half away from zero to a whole unit. Every place that shows
// or exports an amount goes through it so the figures always agree.
func Whole(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}
