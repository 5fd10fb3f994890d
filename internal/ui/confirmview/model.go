package confirmview

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/theme"
)

// ConfirmedMsg is dispatched when the user approves the pending action.
type ConfirmedMsg struct{}

// DeclinedMsg is dispatched when the user declines or cancels.
type DeclinedMsg struct{}

// Model is a blocking yes/no prompt. Destructive board operations are
// gated behind it; the board itself never confirms.
type Model struct {
	form   *huh.Form
	value  *bool
	prompt string
	width  int
	height int
}

// New creates the confirm view.
func New(width, height int) Model {
	v := false
	return Model{value: &v, width: width, height: height}
}

// Start opens the prompt with the given question.
func (m *Model) Start(prompt string) tea.Cmd {
	m.prompt = prompt
	*m.value = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Affirmative("Yes").
				Negative("No").
				Value(m.value),
		),
	).WithWidth(48)
	return m.form.Init()
}

// Update handles messages for the prompt.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		confirmed := *m.value
		return m, func() tea.Msg {
			if confirmed {
				return ConfirmedMsg{}
			}
			return DeclinedMsg{}
		}
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return DeclinedMsg{} }
	}

	return m, cmd
}

// View renders the prompt centered in the terminal.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	box := lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.ColorRed).
		Render(m.form.View())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
