package budget

import "github.com/shopspring/decimal"

type Status string

const (
	StatusRed    Status = "red"    // over budget
	StatusGreen  Status = "green"  // fully used
	StatusYellow Status = "yellow" // untouched
	StatusLilac  Status = "lilac"  // nearly exhausted
	StatusOrange Status = "orange" // partially used
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusGreen, StatusYellow, StatusLilac, StatusOrange, StatusRed}

var lilacThreshold = decimal.New(2, -1)

// Classify maps a budgeted/actual pair to exactly one status. Rules are
// checked in order: overspent, exact, untouched, then the remaining ratio.
func Classify(budgeted, actual decimal.Decimal) Status {
	remaining := budgeted.Sub(actual)

	switch {
	case remaining.IsNegative():
		return StatusRed
	case remaining.IsZero():
		return StatusGreen
	case budgeted.IsPositive() && remaining.Equal(budgeted):
		return StatusYellow
	}

	ratio := decimal.Zero
	if !budgeted.IsZero() {
		ratio = remaining.Div(budgeted)
	}

	if ratio.LessThan(lilacThreshold) {
		return StatusLilac
	}

	return StatusOrange
}

type StatusCounts struct {
	Green  int `json:"green"`
	Yellow int `json:"yellow"`
	Lilac  int `json:"lilac"`
	Orange int `json:"orange"`
	Red    int `json:"red"`
}

func (c *StatusCounts) Add(s Status) {
	switch s {
	case StatusGreen:
		c.Green++
	case StatusYellow:
		c.Yellow++
	case StatusLilac:
		c.Lilac++
	case StatusOrange:
		c.Orange++
	case StatusRed:
		c.Red++
	}
}

func (c StatusCounts) Get(s Status) int {
	switch s {
	case StatusGreen:
		return c.Green
	case StatusYellow:
		return c.Yellow
	case StatusLilac:
		return c.Lilac
	case StatusOrange:
		return c.Orange
	case StatusRed:
		return c.Red
	}

	return 0
}

func (c StatusCounts) Total() int {
	return c.Green + c.Yellow + c.Lilac + c.Orange + c.Red
}
