package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/cghidalgos/presupuesto/internal/budget"
)

const statusColumn = 6

type reportState int

const (
	reportStatePeriod reportState = iota
	reportStateLoading
	reportStateShow
)

type ReportModel struct {
	CommonModel
	budgetService *budget.Service

	state  reportState
	picker PeriodPicker
	period budget.Period
	report *budget.Report
	err    error
}

func NewReportModel(svc *budget.Service) ReportModel {
	return ReportModel{
		budgetService: svc,
		picker:        NewPeriodPicker(),
	}
}

func (m ReportModel) Title() string { return "Reporte mensual" }

func (m ReportModel) ShortHelp() string {
	if m.state == reportStateShow {
		return "Esc: back | ←/→: month | p: pick month | r: refresh"
	}

	return "Esc: back | Enter: confirm"
}

func (m ReportModel) Init() tea.Cmd {
	return nil
}

func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PeriodSelectedMsg:
		m.period = msg.Period
		m.state = reportStateLoading

		return m, m.loadCmd(msg.Period)

	case loadReportMsg:
		m.state = reportStateShow
		m.report = msg.report
		m.err = msg.err

		return m, nil
	}

	switch m.state {
	case reportStatePeriod:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd

	case reportStateShow:
		keyMsg, ok := msg.(tea.KeyMsg)
		if !ok {
			return m, nil
		}

		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "left":
			return m, selectPeriod(m.period.Prev())
		case "right":
			return m, selectPeriod(m.period.Next())
		case "r":
			return m, selectPeriod(m.period)
		case "p":
			m.state = reportStatePeriod
			m.picker.Reset()
		}
	}

	return m, nil
}

func (m ReportModel) View() string {
	switch m.state {
	case reportStatePeriod:
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())
	case reportStateLoading:
		return lipgloss.NewStyle().Padding(2).Render("Cargando reporte " + m.period.String() + "...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(errorView(m.err))
	}

	header := lipgloss.NewStyle().Bold(true).Render("Presupuesto " + m.period.String())

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		m.rowsTable(),
		"",
		m.statusSummary(),
		"",
		m.contributionsView(),
	))
}

func (m ReportModel) rowsTable() string {
	rows := make([][]string, 0, len(m.report.Rows)+1)
	for _, row := range m.report.Rows {
		rows = append(rows, []string{
			row.AreaName,
			row.Name,
			FormatAmount(row.Budgeted),
			FormatAmount(row.Actual),
			FormatAmount(row.Remaining),
			FormatAmount(row.Excess),
			statusLabels[row.Status],
		})
	}

	totals := m.report.Totals
	rows = append(rows, []string{
		"",
		"TOTAL",
		FormatAmount(totals.Budgeted),
		FormatAmount(totals.Actual),
		FormatAmount(totals.Remaining),
		FormatAmount(totals.Excess),
		"",
	})

	last := len(rows) - 1
	reportRows := m.report.Rows

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("Área", "Concepto", "Presupuesto", "Gastado", "Restante", "Exceso", "Estado").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)

			switch {
			case row == table.HeaderRow:
				return s.Bold(true)
			case row == last:
				return s.Bold(true)
			case col == statusColumn:
				return s.Inherit(statusStyle(reportRows[row].Status))
			}

			return s
		}).
		String()
}

func (m ReportModel) statusSummary() string {
	parts := make([]string, 0, len(budget.Statuses))
	for _, s := range budget.Statuses {
		parts = append(parts, statusStyle(s).Render(fmt.Sprintf("%s: %d", statusLabels[s], m.report.StatusCounts.Get(s))))
	}

	return strings.Join(parts, "  ")
}

func (m ReportModel) contributionsView() string {
	if len(m.report.Contributions) == 0 {
		return lipgloss.NewStyle().Faint(true).Render("Sin usuarios registrados")
	}

	var sb strings.Builder

	sb.WriteString("Aportes\n")

	for _, c := range m.report.Contributions {
		balance := FormatAmount(c.Balance)
		if c.Balance.IsNegative() {
			balance = statusStyle(budget.StatusRed).Render(balance)
		}

		fmt.Fprintf(&sb, "  %-20s %6s%%  esperado %s  pagado %s  diferencia %s\n",
			c.Name, c.Percent.StringFixed(2), FormatAmount(c.Expected), FormatAmount(c.Paid), balance)
	}

	return sb.String()
}

type loadReportMsg struct {
	report *budget.Report
	err    error
}

func (m ReportModel) loadCmd(p budget.Period) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		report, err := m.budgetService.Report(ctx, p)

		return loadReportMsg{report: report, err: err}
	}
}
