package helpview

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/theme"
)

// Model renders the keyboard shortcut reference.
type Model struct {
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates the help view.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{keys: k, width: width, height: height}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// View renders the shortcut list.
func (m Model) View() string {
	sections := []struct {
		title    string
		bindings []key.Binding
	}{
		{"Navigate", []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right}},
		{"Move task", []key.Binding{m.keys.MoveUp, m.keys.MoveDown, m.keys.MoveLeft, m.keys.MoveRight}},
		{"Tasks", []key.Binding{m.keys.New, m.keys.Edit, m.keys.Delete}},
		{"Filter", []key.Binding{m.keys.Search, m.keys.CyclePriority, m.keys.ClearFilters}},
		{"Board", []key.Binding{m.keys.Reset, m.keys.Logout, m.keys.Help, m.keys.Quit}},
	}

	lines := []string{}
	for _, s := range sections {
		lines = append(lines, theme.ColumnTitleStyle.Render(s.title))
		for _, b := range s.bindings {
			h := b.Help()
			lines = append(lines,
				"  "+lipgloss.NewStyle().Bold(true).Width(8).Render(h.Key)+
					theme.DimmedStyle.Render(h.Desc))
		}
		lines = append(lines, "")
	}

	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	box := lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.ColorBorder).
		Render(body)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
