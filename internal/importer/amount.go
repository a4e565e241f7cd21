package importer

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var errEmptyAmount = errors.New("empty amount")

// parseAmount reads spreadsheet-formatted amounts in either convention:
// "135860", "135.860", "135,860.50", "1.234,56", "$ 45.000".
//
// When both separators appear the last one is the decimal separator. A
// single separator type that repeats, or appears once followed by exactly
// three digits, groups thousands. Otherwise it marks decimals.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '$', '€', ' ', '\u00a0', '\t':
			return -1
		}

		return r
	}, s)

	if clean == "" {
		return decimal.Decimal{}, errEmptyAmount
	}

	lastDot := strings.LastIndexByte(clean, '.')
	lastComma := strings.LastIndexByte(clean, ',')

	var thousands, decimalSep string

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			thousands, decimalSep = ".", ","
		} else {
			thousands, decimalSep = ",", "."
		}
	case lastDot >= 0:
		thousands, decimalSep = classifySeparator(clean, ".", lastDot)
	case lastComma >= 0:
		thousands, decimalSep = classifySeparator(clean, ",", lastComma)
	}

	if thousands != "" {
		clean = strings.ReplaceAll(clean, thousands, "")
	}

	if decimalSep != "" && decimalSep != "." {
		clean = strings.Replace(clean, decimalSep, ".", 1)
	}

	return decimal.NewFromString(clean)
}

func classifySeparator(s, sep string, last int) (thousands, decimalSep string) {
	if strings.Count(s, sep) > 1 || len(s)-last-1 == 3 {
		return sep, ""
	}

	return "", sep
}
