package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/cghidalgos/presupuesto/internal/budget"
)

type suggestState int

const (
	suggestStateBrowse suggestState = iota
	suggestStateEdit
	suggestStateConfirm
	suggestStateCommitting
)

type SuggestionsModel struct {
	CommonModel
	budgetService *budget.Service

	state       suggestState
	target      budget.Period
	table       table.Model
	suggestions []budget.Suggestion
	edited      map[uuid.UUID]string

	form *huh.Form

	spinner spinner.Model
	loading bool
	err     error
	status  string
}

func NewSuggestionsModel(svc *budget.Service) SuggestionsModel {
	columns := []table.Column{
		{Title: "Área", Width: 14},
		{Title: "Concepto", Width: 20},
		{Title: "Presupuesto ant.", Width: 16},
		{Title: "Gastado ant.", Width: 14},
		{Title: "Sugerido", Width: 12},
		{Title: "A guardar", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return SuggestionsModel{
		budgetService: svc,
		target:        svc.NextPeriod(),
		table:         t,
		edited:        make(map[uuid.UUID]string),
		spinner:       sp,
		loading:       true,
	}
}

func (m SuggestionsModel) Title() string { return "Sugerencias del próximo mes" }

func (m SuggestionsModel) ShortHelp() string {
	switch m.state {
	case suggestStateEdit, suggestStateConfirm:
		return "Navigate form | Esc: cancel"
	case suggestStateCommitting:
		return "Saving..."
	}

	return "Esc: back | e: edit | u: undo edit | c: commit | r: refresh"
}

func (m SuggestionsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m SuggestionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadSuggestionsMsg:
		m.loading = false
		m.err = msg.err
		m.suggestions = msg.suggestions
		m.refreshTable()

		return m, nil

	case commitSuggestionsMsg:
		m.state = suggestStateBrowse
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error al guardar: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Guardados %d presupuestos para %s", msg.count, m.target)
		m.edited = make(map[uuid.UUID]string)
		m.loading = true

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-12, 5))
		return m, nil
	}

	switch m.state {
	case suggestStateBrowse:
		return m.updateBrowse(msg)
	case suggestStateEdit:
		return m.updateEdit(msg)
	case suggestStateConfirm:
		return m.updateConfirm(msg)
	case suggestStateCommitting:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m SuggestionsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "e":
			return m.enterEditMode()
		case "u":
			if s, ok := m.selected(); ok {
				delete(m.edited, s.ConceptID)
				m.refreshTable()
			}

			return m, nil
		case "c":
			if len(m.suggestions) == 0 {
				return m, nil
			}

			m.form = huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Key("confirm").
						Title(fmt.Sprintf("¿Guardar %d presupuestos para %s?", len(m.suggestions), m.target)).
						Affirmative("Guardar").
						Negative("Cancelar"),
				),
			).WithWidth(50).WithShowHelp(false)
			m.state = suggestStateConfirm
			m.table.Blur()

			return m, m.form.Init()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m SuggestionsModel) selected() (budget.Suggestion, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.suggestions) {
		return budget.Suggestion{}, false
	}

	return m.suggestions[idx], true
}

func (m SuggestionsModel) enterEditMode() (tea.Model, tea.Cmd) {
	s, ok := m.selected()
	if !ok {
		return m, nil
	}

	value := s.SuggestedBudget.String()
	if v, ok := m.edited[s.ConceptID]; ok {
		value = v
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("value").
				Title(s.Name).
				Description(fmt.Sprintf("Sugerido: %s", FormatAmount(s.SuggestedBudget))).
				Value(&value).
				Validate(func(v string) error {
					_, err := budget.ParseAmount("valor", v)
					return err
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = suggestStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m SuggestionsModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.backToBrowse(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if s, ok := m.selected(); ok {
		m.edited[s.ConceptID] = m.form.GetString("value")
	}

	m = m.backToBrowse()
	m.refreshTable()

	return m, nil
}

func (m SuggestionsModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.backToBrowse(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !m.form.GetBool("confirm") {
		return m.backToBrowse(), nil
	}

	m.state = suggestStateCommitting
	m.form = nil
	m.status = ""

	return m, tea.Batch(m.spinner.Tick, m.commitCmd())
}

func (m SuggestionsModel) backToBrowse() SuggestionsModel {
	m.state = suggestStateBrowse
	m.form = nil
	m.table.Focus()

	return m
}

func (m *SuggestionsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.suggestions))
	for _, s := range m.suggestions {
		final := FormatAmount(s.SuggestedBudget)
		if v, ok := m.edited[s.ConceptID]; ok {
			if d, err := budget.ParseAmount("valor", v); err == nil {
				final = FormatAmount(d) + " *"
			}
		}

		rows = append(rows, table.Row{
			s.AreaName,
			s.Name,
			FormatAmount(s.PriorBudget),
			FormatAmount(s.PriorSpent),
			FormatAmount(s.SuggestedBudget),
			final,
		})
	}

	m.table.SetRows(rows)
}

func (m SuggestionsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Cargando sugerencias...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorView(m.err))
	}

	if m.state == suggestStateCommitting {
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Guardando presupuestos de %s...", m.spinner.View(), m.target),
		)
	}

	header := fmt.Sprintf("Objetivo: %s | base: %s", activeStyle(m.target.String()), m.target.Prev())

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

type loadSuggestionsMsg struct {
	suggestions []budget.Suggestion
	err         error
}

func (m SuggestionsModel) loadCmd() tea.Cmd {
	target := m.target

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		suggestions, err := m.budgetService.Suggestions(ctx, target)

		return loadSuggestionsMsg{suggestions: suggestions, err: err}
	}
}

type commitSuggestionsMsg struct {
	count int
	err   error
}

func (m SuggestionsModel) commitCmd() tea.Cmd {
	sub := budget.BatchOverrideSubmission{Target: m.target}
	for id, v := range m.edited {
		sub.Entries = append(sub.Entries, budget.OverrideEntry{ConceptID: id, Value: new(v)})
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		written, err := m.budgetService.CommitSuggestions(ctx, sub)

		return commitSuggestionsMsg{count: len(written), err: err}
	}
}
