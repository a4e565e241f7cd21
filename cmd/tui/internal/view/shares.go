package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/cghidalgos/presupuesto/internal/budget"
	"github.com/cghidalgos/presupuesto/internal/household"
)

type sharesState int

const (
	sharesStateLoading sharesState = iota
	sharesStateForm
	sharesStateSaving
	sharesStateResult
)

// SharesModel edits every user's contribution percentage in one form and
// submits them as a single batch.
type SharesModel struct {
	CommonModel
	householdService *household.Service
	budgetService    *budget.Service

	state sharesState
	users []*household.User
	form  *huh.Form
	err   error
}

func NewSharesModel(householdSvc *household.Service, budgetSvc *budget.Service) SharesModel {
	return SharesModel{
		householdService: householdSvc,
		budgetService:    budgetSvc,
	}
}

func (m SharesModel) Title() string { return "Aportes" }

func (m SharesModel) ShortHelp() string {
	if m.state == sharesStateForm {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back"
}

func (m SharesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m SharesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadUsersMsg:
		if msg.err != nil {
			m.state = sharesStateResult
			m.err = msg.err

			return m, nil
		}

		if len(msg.users) == 0 {
			m.state = sharesStateResult
			m.err = fmt.Errorf("no hay usuarios registrados")

			return m, nil
		}

		m.users = msg.users
		m.form = m.buildForm()
		m.state = sharesStateForm

		return m, m.form.Init()

	case saveSharesMsg:
		m.state = sharesStateResult
		m.err = msg.err

		return m, nil
	}

	keyMsg, isKey := msg.(tea.KeyMsg)

	switch m.state {
	case sharesStateForm:
		if isKey && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State != huh.StateCompleted {
			return m, cmd
		}

		m.state = sharesStateSaving

		return m, m.saveCmd()

	case sharesStateResult:
		if isKey && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}

		// A failed save can be corrected in place.
		if isKey && keyMsg.Type == tea.KeyEnter && m.err != nil && len(m.users) > 0 {
			m.err = nil
			m.form = m.buildForm()
			m.state = sharesStateForm

			return m, m.form.Init()
		}
	}

	return m, nil
}

func (m SharesModel) buildForm() *huh.Form {
	fields := make([]huh.Field, 0, len(m.users))

	for _, u := range m.users {
		value := u.SharePercent().String()

		fields = append(fields, huh.NewInput().
			Key(u.ID.String()).
			Title(u.Name).
			Description(u.Email).
			Placeholder("0-100").
			Value(&value).
			Validate(func(s string) error {
				_, err := budget.ParseAmount("porcentaje", s)
				return err
			}))
	}

	return huh.NewForm(huh.NewGroup(fields...).Title("Porcentaje de aporte (debe sumar 100)")).
		WithWidth(50).
		WithShowHelp(false)
}

func (m SharesModel) View() string {
	switch m.state {
	case sharesStateLoading:
		return lipgloss.NewStyle().Padding(2).Render("Cargando usuarios...")
	case sharesStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	case sharesStateSaving:
		return lipgloss.NewStyle().Padding(2).Render("Guardando aportes...")
	}

	if m.err != nil {
		hint := ""
		if len(m.users) > 0 {
			hint = "\n\n(Enter para corregir, Esc para volver)"
		}

		return lipgloss.NewStyle().Padding(1).Render(errorView(m.err) + hint)
	}

	var sb strings.Builder

	sb.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")).Render("Aportes actualizados"))
	sb.WriteString("\n\n")

	for _, u := range m.users {
		fmt.Fprintf(&sb, "  %-20s %s%%\n", u.Name, m.form.GetString(u.ID.String()))
	}

	return lipgloss.NewStyle().Padding(1).Render(sb.String())
}

type loadUsersMsg struct {
	users []*household.User
	err   error
}

func (m SharesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		users, err := m.householdService.ListUsers(ctx)

		return loadUsersMsg{users: users, err: err}
	}
}

type saveSharesMsg struct {
	err error
}

func (m SharesModel) saveCmd() tea.Cmd {
	sub := budget.BatchShareSubmission{Entries: make([]budget.ShareEntry, len(m.users))}
	for i, u := range m.users {
		sub.Entries[i] = budget.ShareEntry{UserID: u.ID, Percent: m.form.GetString(u.ID.String())}
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return saveSharesMsg{err: m.budgetService.UpdateShares(ctx, sub)}
	}
}
