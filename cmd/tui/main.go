package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/cghidalgos/presupuesto/cmd/tui/internal/view"
	"github.com/cghidalgos/presupuesto/internal/budget"
	budgetStore "github.com/cghidalgos/presupuesto/internal/budget/store"
	"github.com/cghidalgos/presupuesto/internal/config"
	"github.com/cghidalgos/presupuesto/internal/database"
	"github.com/cghidalgos/presupuesto/internal/export"
	"github.com/cghidalgos/presupuesto/internal/household"
	householdStore "github.com/cghidalgos/presupuesto/internal/household/store"
)

type model struct {
	householdService *household.Service
	budgetService    *budget.Service
	exportService    *export.Service

	currentView View

	reportView      view.ReportModel
	suggestionsView view.SuggestionsModel
	sharesView      view.SharesModel
	exportView      view.ExportModel
}

type View int

const (
	ViewMenu        View = 0
	ViewReport      View = 1
	ViewSuggestions View = 2
	ViewShares      View = 3
	ViewExport      View = 4
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), cfg.DB.MaxOpenConns)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	householdSvc := household.NewService(householdStore.New(db))
	budgetSvc := budget.NewService(budgetStore.New(db))
	exportSvc := export.NewService(budgetSvc)

	return model{
		householdService: householdSvc,
		budgetService:    budgetSvc,
		exportService:    exportSvc,
		currentView:      ViewMenu,
		reportView:       view.NewReportModel(budgetSvc),
		suggestionsView:  view.NewSuggestionsModel(budgetSvc),
		sharesView:       view.NewSharesModel(householdSvc, budgetSvc),
		exportView:       view.NewExportModel(exportSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewReport
				m.reportView = view.NewReportModel(m.budgetService)

				return m, m.reportView.Init()
			case "2":
				m.currentView = ViewSuggestions
				m.suggestionsView = view.NewSuggestionsModel(m.budgetService)

				return m, m.suggestionsView.Init()
			case "3":
				m.currentView = ViewShares
				m.sharesView = view.NewSharesModel(m.householdService, m.budgetService)

				return m, m.sharesView.Init()
			case "4":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService)

				return m, m.exportView.Init()
			}
		}

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewReport:
		var newModel tea.Model
		newModel, cmd = m.reportView.Update(msg)
		m.reportView = newModel.(view.ReportModel)
	case ViewSuggestions:
		var newModel tea.Model
		newModel, cmd = m.suggestionsView.Update(msg)
		m.suggestionsView = newModel.(view.SuggestionsModel)
	case ViewShares:
		var newModel tea.Model
		newModel, cmd = m.sharesView.Update(msg)
		m.sharesView = newModel.(view.SharesModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	var body string

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Presupuesto\n\n" +
				"1. Reporte mensual\n" +
				"2. Sugerencias del próximo mes\n" +
				"3. Aportes\n" +
				"4. Exportar reporte\n\n" +
				"q. Salir",
		)
	case ViewReport:
		body = m.reportView.View() + footer(m.reportView.ShortHelp())
	case ViewSuggestions:
		body = m.suggestionsView.View() + footer(m.suggestionsView.ShortHelp())
	case ViewShares:
		body = m.sharesView.View() + footer(m.sharesView.ShortHelp())
	case ViewExport:
		body = m.exportView.View() + footer(m.exportView.ShortHelp())
	default:
		body = "Unknown View"
	}

	return body
}

func footer(help string) string {
	return "\n" + lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(help)
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
