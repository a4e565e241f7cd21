package budget

import (
	"fmt"
	"time"

	"github.com/cghidalgos/presupuesto/internal/household"
)

const periodLayout = "2006-01"

// Period is a calendar month. All timestamps are compared in UTC.
type Period struct {
	Year  int
	Month time.Month
}

func NewPeriod(year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, household.Invalid("month", "must be between 1 and 12, got %d", month)
	}

	if year < 1 || year > 9999 {
		return Period{}, household.Invalid("year", "must be between 1 and 9999, got %d", year)
	}

	return Period{Year: year, Month: time.Month(month)}, nil
}

// ParsePeriod parses "YYYY-MM".
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse(periodLayout, s)
	if err != nil {
		return Period{}, household.Invalid("period", "%q is not in YYYY-MM form", s)
	}

	return PeriodOf(t), nil
}

func PeriodOf(t time.Time) Period {
	t = t.UTC()
	return Period{Year: t.Year(), Month: t.Month()}
}

// NextPeriod is the month after the one containing now.
func NextPeriod(now time.Time) Period {
	return PeriodOf(now).Next()
}

// Start is the first instant of the month.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the first instant of the following month.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

func (p Period) Contains(t time.Time) bool {
	t = t.UTC()
	return t.Year() == p.Year && t.Month() == p.Month
}

func (p Period) Next() Period {
	return PeriodOf(p.Start().AddDate(0, 1, 0))
}

func (p Period) Prev() Period {
	return PeriodOf(p.Start().AddDate(0, -1, 0))
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}
