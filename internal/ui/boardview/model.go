package boardview

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/theme"
)

// NewTaskMsg asks the app to open the create form.
type NewTaskMsg struct{}

// EditTaskMsg asks the app to open the title editor for a task.
type EditTaskMsg struct {
	Task model.Task
}

// DeleteTaskMsg asks the app to confirm and delete a task.
type DeleteTaskMsg struct {
	Task model.Task
}

// ResetMsg asks the app to confirm and reset the whole board.
type ResetMsg struct{}

// LogoutMsg asks the app to close the session.
type LogoutMsg struct{}

// Model is the three-column board view. It renders filtered, due-date
// sorted projections of the columns; the stored order is only changed by
// explicit move keys.
type Model struct {
	board *board.Board
	keys  *keys.KeyMap

	focusCol int
	cursors  map[model.Status]int

	searchMode     bool
	searchInput    textinput.Model
	priorityFilter model.Priority

	notice string

	width  int
	height int
}

// New creates the board view.
func New(b *board.Board, k *keys.KeyMap, width, height int) Model {
	si := textinput.New()
	si.Placeholder = "search tasks..."
	si.Prompt = "/ "
	si.CharLimit = 80

	cursors := make(map[model.Status]int, len(model.Statuses))
	for _, s := range model.Statuses {
		cursors[s] = 0
	}

	return Model{
		board:       b,
		keys:        k,
		cursors:     cursors,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Searching reports whether the search input has focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// Filters returns the active search text and priority filter.
func (m Model) Filters() (string, model.Priority) {
	return m.searchInput.Value(), m.priorityFilter
}

// Update handles key input for the board view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.searchMode {
		switch {
		case keyMsg.Type == tea.KeyEnter, keyMsg.Type == tea.KeyEsc:
			m.searchMode = false
			m.searchInput.Blur()
			m.clampCursor()
			return m, nil
		default:
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(msg)
			m.clampCursor()
			return m, cmd
		}
	}

	m.notice = ""

	switch {
	case key.Matches(keyMsg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(keyMsg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(keyMsg, m.keys.Left):
		m.switchColumn(-1)
	case key.Matches(keyMsg, m.keys.Right):
		m.switchColumn(1)

	case key.Matches(keyMsg, m.keys.MoveLeft):
		m.moveAcross(-1)
	case key.Matches(keyMsg, m.keys.MoveRight):
		m.moveAcross(1)
	case key.Matches(keyMsg, m.keys.MoveUp):
		m.moveWithin(-1)
	case key.Matches(keyMsg, m.keys.MoveDown):
		m.moveWithin(1)

	case key.Matches(keyMsg, m.keys.New):
		return m, func() tea.Msg { return NewTaskMsg{} }
	case key.Matches(keyMsg, m.keys.Edit):
		if task, ok := m.selectedTask(); ok {
			return m, func() tea.Msg { return EditTaskMsg{Task: task} }
		}
	case key.Matches(keyMsg, m.keys.Delete):
		if task, ok := m.selectedTask(); ok {
			return m, func() tea.Msg { return DeleteTaskMsg{Task: task} }
		}

	case key.Matches(keyMsg, m.keys.Search):
		m.searchMode = true
		return m, m.searchInput.Focus()
	case key.Matches(keyMsg, m.keys.CyclePriority):
		m.cyclePriority()
	case key.Matches(keyMsg, m.keys.ClearFilters):
		m.searchInput.SetValue("")
		m.priorityFilter = ""
		m.clampCursor()

	case key.Matches(keyMsg, m.keys.Reset):
		return m, func() tea.Msg { return ResetMsg{} }
	case key.Matches(keyMsg, m.keys.Logout):
		return m, func() tea.Msg { return LogoutMsg{} }
	}

	return m, nil
}

// visible returns the rendered projection of a column: filtered, then
// due-date sorted. The stored order is untouched.
func (m Model) visible(status model.Status) []model.Task {
	tasks := board.FilterTasks(m.board.List(status), m.searchInput.Value(), m.priorityFilter)
	return board.SortByDueDate(tasks)
}

func (m Model) focusedStatus() model.Status {
	return model.Statuses[m.focusCol]
}

func (m Model) selectedTask() (model.Task, bool) {
	tasks := m.visible(m.focusedStatus())
	cursor := m.cursors[m.focusedStatus()]
	if cursor < 0 || cursor >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[cursor], true
}

func (m *Model) moveCursor(delta int) {
	status := m.focusedStatus()
	n := len(m.visible(status))
	if n == 0 {
		m.cursors[status] = 0
		return
	}
	c := m.cursors[status] + delta
	if c < 0 {
		c = 0
	}
	if c >= n {
		c = n - 1
	}
	m.cursors[status] = c
}

func (m *Model) switchColumn(delta int) {
	m.focusCol += delta
	if m.focusCol < 0 {
		m.focusCol = 0
	}
	if m.focusCol >= len(model.Statuses) {
		m.focusCol = len(model.Statuses) - 1
	}
	m.clampCursor()
}

func (m *Model) clampCursor() {
	for _, s := range model.Statuses {
		n := len(m.visible(s))
		if m.cursors[s] >= n {
			m.cursors[s] = n - 1
		}
		if m.cursors[s] < 0 {
			m.cursors[s] = 0
		}
	}
}

// storeIndex finds a task's position in the stored column order.
func (m Model) storeIndex(status model.Status, taskID string) int {
	for i, t := range m.board.List(status) {
		if t.ID == taskID {
			return i
		}
	}
	return -1
}

// moveAcross relocates the selected task to the neighbor column,
// appending it at the end, as one drop event.
func (m *Model) moveAcross(delta int) {
	task, ok := m.selectedTask()
	if !ok {
		return
	}

	col := m.focusCol + delta
	if col < 0 || col >= len(model.Statuses) {
		return
	}

	src := m.focusedStatus()
	dst := model.Statuses[col]
	srcIndex := m.storeIndex(src, task.ID)
	ev := board.DropEvent{
		Source:      board.DropPosition{Status: src, Index: srcIndex},
		Destination: &board.DropPosition{Status: dst, Index: len(m.board.List(dst))},
	}
	if err := m.board.ApplyDrop(ev); err != nil {
		m.notice = err.Error()
		return
	}

	m.focusCol = col
	m.cursors[dst] = len(m.visible(dst)) - 1
	m.clampCursor()
}

// moveWithin swaps the selected task with its visible neighbor, expressed
// as a drop event against the stored positions.
func (m *Model) moveWithin(delta int) {
	status := m.focusedStatus()
	tasks := m.visible(status)
	cursor := m.cursors[status]
	neighbor := cursor + delta
	if cursor < 0 || cursor >= len(tasks) || neighbor < 0 || neighbor >= len(tasks) {
		return
	}

	srcIndex := m.storeIndex(status, tasks[cursor].ID)
	dstIndex := m.storeIndex(status, tasks[neighbor].ID)
	ev := board.DropEvent{
		Source:      board.DropPosition{Status: status, Index: srcIndex},
		Destination: &board.DropPosition{Status: status, Index: dstIndex},
	}
	if err := m.board.ApplyDrop(ev); err != nil {
		m.notice = err.Error()
		return
	}

	m.cursors[status] = neighbor
}

func (m *Model) cyclePriority() {
	switch m.priorityFilter {
	case "":
		m.priorityFilter = model.PriorityLow
	case model.PriorityLow:
		m.priorityFilter = model.PriorityMedium
	case model.PriorityMedium:
		m.priorityFilter = model.PriorityHigh
	default:
		m.priorityFilter = ""
	}
	m.clampCursor()
}

// View renders the three columns side by side.
func (m Model) View() string {
	colWidth := m.width/len(model.Statuses) - 2
	if colWidth < 16 {
		colWidth = 16
	}

	cols := make([]string, 0, len(model.Statuses))
	for i, status := range model.Statuses {
		cols = append(cols, m.renderColumn(status, i == m.focusCol, colWidth))
	}
	columns := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	var header string
	if m.searchMode || m.searchInput.Value() != "" || m.priorityFilter != "" {
		header = m.renderFilterBar()
	}
	if m.notice != "" {
		header = theme.ErrorStyle.Render(m.notice)
	}

	if header == "" {
		return columns
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, columns)
}

func (m Model) renderFilterBar() string {
	bar := m.searchInput.View()
	if m.priorityFilter != "" {
		bar += theme.DimmedStyle.Render("  priority: ") +
			theme.PriorityStyle(m.priorityFilter).Render(string(m.priorityFilter))
	}
	return bar
}

func (m Model) renderColumn(status model.Status, focused bool, width int) string {
	tasks := m.visible(status)

	title := theme.ColumnTitleStyle.Render(
		fmt.Sprintf("%s (%d)", status.Label(), len(tasks)),
	)

	lines := []string{title}
	if len(tasks) == 0 {
		lines = append(lines, theme.DimmedStyle.Render("No tasks yet"))
	}
	today := m.board.Today()
	for i, task := range tasks {
		selected := focused && i == m.cursors[status]
		lines = append(lines, renderCard(task, selected, today, width-2))
	}

	style := theme.ColumnStyle
	if focused {
		style = theme.FocusedColumnStyle
	}

	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return style.Width(width).Height(m.height - 2).Render(body)
}
