package view

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const dbTimeout = 5 * time.Second

// CommonModel carries the terminal size every screen lays itself out against.
type CommonModel struct {
	Width  int
	Height int
}

// BackMsg returns the client to the main menu.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// DbCtx returns a context with a standard timeout for service calls.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

func errorView(err error) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("Error: " + err.Error())
}
