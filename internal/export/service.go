package export

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cghidalgos/presupuesto/internal/budget"
)

var header = []string{"year", "month", "area", "concept", "budgeted", "actual", "remaining", "excess"}

// ReportSource builds the monthly report being exported.
type ReportSource interface {
	Report(ctx context.Context, p budget.Period) (*budget.Report, error)
}

// Line is one exported row with every amount rounded to a whole unit.
type Line struct {
	Year      int
	Month     int
	Area      string
	Concept   string
	Budgeted  int64
	Actual    int64
	Remaining int64
	Excess    int64
}

func (l Line) record() []string {
	return []string{
		strconv.Itoa(l.Year),
		strconv.Itoa(l.Month),
		l.Area,
		l.Concept,
		strconv.FormatInt(l.Budgeted, 10),
		strconv.FormatInt(l.Actual, 10),
		strconv.FormatInt(l.Remaining, 10),
		strconv.FormatInt(l.Excess, 10),
	}
}

// Service serializes monthly reports.
type Service struct {
	reports ReportSource
}

func NewService(reports ReportSource) *Service {
	return &Service{reports: reports}
}

// Export returns the report rows for p followed by a TOTAL line.
func (s *Service) Export(ctx context.Context, p budget.Period) ([]Line, *budget.Report, error) {
	report, err := s.reports.Report(ctx, p)
	if err != nil {
		return nil, nil, fmt.Errorf("building report: %w", err)
	}

	return Lines(report), report, nil
}

// Lines flattens a report. The totals line is computed from the report
// totals, so it matches the rows before rounding.
func Lines(report *budget.Report) []Line {
	lines := make([]Line, 0, len(report.Rows)+1)
	year, month := report.Period.Year, int(report.Period.Month)

	for _, row := range report.Rows {
		lines = append(lines, Line{
			Year:      year,
			Month:     month,
			Area:      row.AreaName,
			Concept:   row.Name,
			Budgeted:  budget.Whole(row.Budgeted),
			Actual:    budget.Whole(row.Actual),
			Remaining: budget.Whole(row.Remaining),
			Excess:    budget.Whole(row.Excess),
		})
	}

	lines = append(lines, Line{
		Year:      year,
		Month:     month,
		Concept:   "TOTAL",
		Budgeted:  budget.Whole(report.Totals.Budgeted),
		Actual:    budget.Whole(report.Totals.Actual),
		Remaining: budget.Whole(report.Totals.Remaining),
		Excess:    budget.Whole(report.Totals.Excess),
	})

	return lines
}

func WriteCSV(w io.Writer, lines []Line) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, l := range lines {
		if err := cw.Write(l.record()); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// GenerateSummary renders a short plain-text summary suitable for sharing
// with the rest of the household.
func (s *Service) GenerateSummary(report *budget.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Presupuesto %s\n\n", report.Period)

	for _, row := range report.Rows {
		fmt.Fprintf(&sb, "* %s | %s | %d / %d | %s\n",
			row.AreaName, row.Name, budget.Whole(row.Actual), budget.Whole(row.Budgeted), row.Status)
	}

	fmt.Fprintf(&sb, "\nTotal: %d / %d (excess %d)\n",
		budget.Whole(report.Totals.Actual), budget.Whole(report.Totals.Budgeted), budget.Whole(report.Totals.Excess))

	for _, c := range report.Contributions {
		fmt.Fprintf(&sb, "- %s (%s%%): expected %d, paid %d\n",
			c.Name, c.Percent.StringFixed(2), budget.Whole(c.Expected), budget.Whole(c.Paid))
	}

	return sb.String()
}

// WriteArchive writes a zip holding the CSV export and the text summary.
func (s *Service) WriteArchive(w io.Writer, report *budget.Report) error {
	zw := zip.NewWriter(w)

	name := "presupuesto_" + report.Period.String()

	f, err := zw.Create(name + ".csv")
	if err != nil {
		return fmt.Errorf("creating csv entry: %w", err)
	}

	if err := WriteCSV(f, Lines(report)); err != nil {
		return err
	}

	f, err = zw.Create(name + "_resumen.txt")
	if err != nil {
		return fmt.Errorf("creating summary entry: %w", err)
	}

	if _, err := io.WriteString(f, s.GenerateSummary(report)); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	return zw.Close()
}
