package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cghidalgos/presupuesto/internal/budget"
	"github.com/cghidalgos/presupuesto/internal/household"
)

// Row is one budget line read from a sheet. Line is its 1-based record
// number, blank lines not counted.
type Row struct {
	Line    int
	Area    string
	Concept string
	Amount  decimal.Decimal
}

type column int

const (
	colConcept column = iota
	colAmount
	colArea
)

// headerAliases maps group keys of accepted header names to their column.
var headerAliases = map[string]column{
	"concepto":            colConcept,
	"concept":             colConcept,
	"presupuesto":         colAmount,
	"valor":               colAmount,
	"valor presupuestado": colAmount,
	"budget":              colAmount,
	"monto":               colAmount,
	"amount":              colAmount,
	"area":                colArea,
}

// summaryRows are skipped wherever they appear.
var summaryRows = map[string]bool{
	"total":   true,
	"totales": true,
}

// Parse reads a budget sheet. Leading lines before the header are ignored.
func Parse(r io.Reader) ([]Row, error) {
	utf8r, err := utf8Reader(r)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectComma(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, household.Invalid("file", "unreadable CSV: %v", err)
	}

	cols, headerIdx, ok := findHeader(records)
	if !ok {
		return nil, household.Invalid("file", "no header with Concepto and Presupuesto columns found")
	}

	return parseRecords(records[headerIdx+1:], cols, headerIdx+2)
}

// detectComma picks the separator from the first non-blank line.
func detectComma(data []byte) rune {
	for line := range strings.Lines(string(data)) {
		if strings.TrimSpace(line) == "" {
			continue
		}

		switch {
		case strings.Contains(line, ";"):
			return ';'
		case strings.Contains(line, "\t"):
			return '\t'
		}

		break
	}

	return ','
}

func findHeader(records [][]string) (map[column]int, int, bool) {
	for i, record := range records {
		cols := make(map[column]int)

		for j, cell := range record {
			if c, ok := headerAliases[budget.GroupKey(cell)]; ok {
				if _, dup := cols[c]; !dup {
					cols[c] = j
				}
			}
		}

		_, hasConcept := cols[colConcept]
		_, hasAmount := cols[colAmount]

		if hasConcept && hasAmount {
			return cols, i, true
		}
	}

	return nil, 0, false
}

func parseRecords(records [][]string, cols map[column]int, firstLine int) ([]Row, error) {
	var rows []Row

	for i, record := range records {
		line := firstLine + i

		concept := budget.DisplayName(cell(record, cols[colConcept]))
		if concept == "" || summaryRows[budget.GroupKey(concept)] {
			continue
		}

		field := fmt.Sprintf("row %d", line)

		amount, err := parseAmount(cell(record, cols[colAmount]))
		if err != nil {
			return nil, household.Invalid(field, "%s: %q is not an amount", concept, cell(record, cols[colAmount]))
		}

		if amount.IsNegative() {
			return nil, household.Invalid(field, "%s: budget must not be negative", concept)
		}

		row := Row{Line: line, Concept: concept, Amount: amount}
		if idx, ok := cols[colArea]; ok {
			row.Area = budget.DisplayName(cell(record, idx))
		}

		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, household.Invalid("file", "no budget lines found")
	}

	return rows, nil
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}

	return strings.TrimSpace(record[idx])
}
