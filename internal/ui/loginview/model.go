package loginview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/theme"
)

// SubmitMsg carries the entered credentials to the app.
type SubmitMsg struct {
	Email    string
	Password string
}

// QuitMsg is dispatched when the user aborts the login form.
type QuitMsg struct{}

// formBindings holds field values on the heap so huh's Value() pointers
// remain valid across Bubble Tea model copies.
type formBindings struct {
	email    string
	password string
}

// Model is the login screen shown before the board is reachable.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	errText string
	width   int
	height  int
}

// New creates the login view.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes a fresh login form, prefilled with the account email.
func (m *Model) Start(email string) tea.Cmd {
	m.fb.email = email
	m.fb.password = ""
	m.errText = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// SetError shows an inline login failure message and reopens the form.
func (m *Model) SetError(text string) tea.Cmd {
	m.errText = text
	m.fb.password = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the login form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		email := m.fb.email
		password := m.fb.password
		return m, func() tea.Msg { return SubmitMsg{Email: email, Password: password} }
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return QuitMsg{} }
	}

	return m, cmd
}

// View renders the login screen centered in the terminal.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("Welcome back") + "\n" + m.form.View()
	if m.errText != "" {
		content += "\n" + theme.ErrorStyle.Render(m.errText)
	}

	box := lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("intern@demo.com").
				Value(&m.fb.email).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("email is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				Placeholder("Enter your password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("password is required")
					}
					return nil
				}),
		),
	).WithWidth(48)
}
