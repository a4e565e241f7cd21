package view

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/cghidalgos/presupuesto/internal/budget"
)

var amountPrinter = message.NewPrinter(language.Spanish)

// FormatAmount rounds to a whole unit and groups thousands with dots.
func FormatAmount(d decimal.Decimal) string {
	n := budget.Whole(d)
	if n < 0 {
		return "-$" + amountPrinter.Sprintf("%d", -n)
	}

	return "$" + amountPrinter.Sprintf("%d", n)
}

var statusColors = map[budget.Status]lipgloss.Color{
	budget.StatusRed:    lipgloss.Color("196"),
	budget.StatusGreen:  lipgloss.Color("46"),
	budget.StatusYellow: lipgloss.Color("226"),
	budget.StatusLilac:  lipgloss.Color("183"),
	budget.StatusOrange: lipgloss.Color("208"),
}

var statusLabels = map[budget.Status]string{
	budget.StatusRed:    "Excedido",
	budget.StatusGreen:  "Completo",
	budget.StatusYellow: "Sin usar",
	budget.StatusLilac:  "Casi agotado",
	budget.StatusOrange: "En uso",
}

func statusStyle(s budget.Status) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(statusColors[s])
}
