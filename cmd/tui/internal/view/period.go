package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cghidalgos/presupuesto/internal/budget"
)

type periodChoice int

const (
	periodThisMonth periodChoice = iota
	periodLastMonth
	periodNextMonth
	periodCustom
)

func (c periodChoice) String() string {
	switch c {
	case periodThisMonth:
		return "Este mes"
	case periodLastMonth:
		return "Mes anterior"
	case periodNextMonth:
		return "Mes siguiente"
	case periodCustom:
		return "Otro mes (YYYY-MM)"
	}

	return "?"
}

// PeriodSelectedMsg is emitted once the user has picked a month.
type PeriodSelectedMsg struct {
	Period budget.Period
}

// PeriodPicker selects a calendar month relative to today or typed in.
type PeriodPicker struct {
	now      func() time.Time
	custom   bool
	selected periodChoice
	input    textinput.Model
	err      error
}

func NewPeriodPicker() PeriodPicker {
	ti := textinput.New()
	ti.Placeholder = "YYYY-MM"
	ti.CharLimit = 7
	ti.Width = 10
	ti.Prompt = "Mes: "

	return PeriodPicker{now: time.Now, input: ti}
}

func (m PeriodPicker) Update(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)

	if m.custom {
		if ok {
			switch keyMsg.Type {
			case tea.KeyEsc:
				m.custom = false
				m.err = nil

				return m, nil
			case tea.KeyEnter:
				p, err := budget.ParsePeriod(m.input.Value())
				if err != nil {
					m.err = err
					return m, nil
				}

				m.err = nil

				return m, selectPeriod(p)
			}
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)

		return m, cmd
	}

	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyUp:
		if m.selected > periodThisMonth {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < periodCustom {
			m.selected++
		}
	case tea.KeyEnter:
		current := budget.PeriodOf(m.now())

		switch m.selected {
		case periodThisMonth:
			return m, selectPeriod(current)
		case periodLastMonth:
			return m, selectPeriod(current.Prev())
		case periodNextMonth:
			return m, selectPeriod(current.Next())
		case periodCustom:
			m.custom = true
			m.input.Focus()

			return m, textinput.Blink
		}
	}

	return m, nil
}

func selectPeriod(p budget.Period) tea.Cmd {
	return func() tea.Msg {
		return PeriodSelectedMsg{Period: p}
	}
}

func (m PeriodPicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = "\n\n" + errorView(m.err)
	}

	if m.custom {
		return fmt.Sprintf("Ingresa el mes:\n\n%s\n\n(Enter para confirmar, Esc para volver)%s", m.input.View(), errStr)
	}

	s := "Selecciona el mes:\n\n"
	for c := periodThisMonth; c <= periodCustom; c++ {
		cursor := " "
		if m.selected == c {
			cursor = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(">")
		}

		s += fmt.Sprintf("%s %s\n", cursor, c)
	}

	return s + "\n(Enter para elegir, Esc para volver)" + errStr
}

// IsSelecting reports whether the picker is showing the preset list.
func (m PeriodPicker) IsSelecting() bool {
	return !m.custom
}

func (m *PeriodPicker) Reset() {
	m.custom = false
	m.selected = periodThisMonth
	m.err = nil
	m.input.SetValue("")
}
