package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/session"
	"github.com/nhle/taskboard/internal/theme"
	"github.com/nhle/taskboard/internal/ui"
	"github.com/nhle/taskboard/internal/ui/activityfeed"
	"github.com/nhle/taskboard/internal/ui/boardview"
	"github.com/nhle/taskboard/internal/ui/confirmview"
	"github.com/nhle/taskboard/internal/ui/helpview"
	"github.com/nhle/taskboard/internal/ui/loginview"
	"github.com/nhle/taskboard/internal/ui/taskform"
)

// sidebarWidth is the fixed width of the activity feed panel.
const sidebarWidth = 34

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewBoard
	ViewTaskForm
	ViewConfirm
	ViewHelp
)

// Model is the root Bubble Tea model that manages view routing, layout,
// the session gate, and the board itself. Board operations run
// synchronously inside Update: every user action completes, including
// its persistence write, before the next event is processed.
type Model struct {
	currentView ViewState
	layout      ui.Layout
	board       *board.Board
	gate        *session.Gate
	keys        *keys.KeyMap
	cfg         *model.AppConfig
	logger      zerolog.Logger

	boardView boardview.Model
	feed      activityfeed.Model
	taskForm  taskform.Model
	login     loginview.Model
	confirm   confirmview.Model
	helpView  helpview.Model

	// pending state for the confirm gate
	pendingDeleteID string
	pendingReset    bool

	notice  string
	initCmd tea.Cmd
}

// New creates the root application model.
func New(b *board.Board, gate *session.Gate, cfg *model.AppConfig, logger zerolog.Logger) Model {
	k := keys.DefaultKeyMap()

	m := Model{
		layout:    ui.NewLayout(80, 24),
		board:     b,
		gate:      gate,
		keys:      k,
		cfg:       cfg,
		logger:    logger,
		boardView: boardview.New(b, k, 80-sidebarWidth, 22),
		feed:      activityfeed.New(b.Activity(), cfg.Display.ActivityLimit, sidebarWidth, 22),
		taskForm:  taskform.New(80, 24),
		login:     loginview.New(80, 24),
		confirm:   confirmview.New(80, 24),
		helpView:  helpview.New(k, 80, 24),
	}

	if gate.IsAuthenticated() {
		m.currentView = ViewBoard
	} else {
		m.currentView = ViewLogin
		m.initCmd = m.login.Start(cfg.Session.Username)
	}

	return m
}

// Init starts the initial view.
func (m Model) Init() tea.Cmd {
	return m.initCmd
}

// Update routes messages to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case loginview.SubmitMsg:
		if err := m.gate.Login(msg.Email, msg.Password); err != nil {
			m.logger.Info().Str("email", msg.Email).Msg("rejected login attempt")
			return m, m.login.SetError("Invalid email or password")
		}
		m.currentView = ViewBoard
		return m, nil

	case loginview.QuitMsg:
		return m, tea.Quit

	case boardview.NewTaskMsg:
		m.currentView = ViewTaskForm
		return m, m.taskForm.StartCreate()

	case boardview.EditTaskMsg:
		m.currentView = ViewTaskForm
		return m, m.taskForm.StartEditTitle(msg.Task)

	case boardview.DeleteTaskMsg:
		m.currentView = ViewConfirm
		m.pendingDeleteID = msg.Task.ID
		m.pendingReset = false
		return m, m.confirm.Start(fmt.Sprintf("Delete %q?", msg.Task.Title))

	case boardview.ResetMsg:
		m.currentView = ViewConfirm
		m.pendingReset = true
		m.pendingDeleteID = ""
		return m, m.confirm.Start("Reset entire board? This action cannot be undone.")

	case boardview.LogoutMsg:
		m.gate.Logout()
		m.currentView = ViewLogin
		return m, m.login.Start(m.cfg.Session.Username)

	case taskform.TaskSubmittedMsg:
		m.currentView = ViewBoard
		if _, err := m.board.Create(msg.Title, msg.Description, msg.Priority, msg.DueDate, msg.Tags); err != nil {
			m.notice = userMessage(err)
		}
		return m, nil

	case taskform.TitleEditedMsg:
		m.currentView = ViewBoard
		if _, err := m.board.Edit(msg.TaskID, msg.NewTitle); err != nil {
			m.notice = userMessage(err)
		}
		return m, nil

	case taskform.FormCancelMsg:
		m.currentView = ViewBoard
		return m, nil

	case confirmview.ConfirmedMsg:
		m.currentView = ViewBoard
		if m.pendingReset {
			m.board.Reset()
		} else if m.pendingDeleteID != "" {
			if err := m.board.Delete(m.pendingDeleteID); err != nil {
				m.notice = userMessage(err)
			}
		}
		m.pendingReset = false
		m.pendingDeleteID = ""
		return m, nil

	case confirmview.DeclinedMsg:
		m.currentView = ViewBoard
		m.pendingReset = false
		m.pendingDeleteID = ""
		return m, nil
	}

	switch m.currentView {
	case ViewLogin:
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		return m, cmd

	case ViewTaskForm:
		var cmd tea.Cmd
		m.taskForm, cmd = m.taskForm.Update(msg)
		return m, cmd

	case ViewConfirm:
		var cmd tea.Cmd
		m.confirm, cmd = m.confirm.Update(msg)
		return m, cmd

	case ViewHelp:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(keyMsg, m.keys.Quit):
				return m, tea.Quit
			case key.Matches(keyMsg, m.keys.Back),
				key.Matches(keyMsg, m.keys.Help):
				m.currentView = ViewBoard
			}
		}
		return m, nil

	case ViewBoard:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && !m.boardView.Searching() {
			switch {
			case key.Matches(keyMsg, m.keys.Quit):
				return m, tea.Quit
			case key.Matches(keyMsg, m.keys.Help):
				m.currentView = ViewHelp
				return m, nil
			}
		}
		m.notice = ""
		var cmd tea.Cmd
		m.boardView, cmd = m.boardView.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the active view.
func (m Model) View() string {
	switch m.currentView {
	case ViewLogin:
		return m.login.View()
	case ViewTaskForm:
		return m.taskForm.View()
	case ViewConfirm:
		return m.confirm.View()
	case ViewHelp:
		return m.helpView.View()
	}

	header := m.layout.RenderHeader("Task Board", m.board.TotalCount(), m.board.DoneCount())
	progress := m.layout.RenderProgress(m.board.Progress())

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.boardView.View(),
		m.feed.View(m.board.Today()),
	)
	if m.notice != "" {
		content = lipgloss.JoinVertical(lipgloss.Left,
			theme.ErrorStyle.Render(m.notice), content)
	}

	statusBar := m.layout.RenderStatusBar(m.hints())

	return m.layout.RenderWithFrame(header, progress, content, statusBar)
}

// hints renders the status-bar shortcut line from the bound keys, so the
// bar and the keymap cannot drift apart.
func (m Model) hints() string {
	bindings := []key.Binding{
		m.keys.New, m.keys.Edit, m.keys.Delete,
		m.keys.Search, m.keys.CyclePriority,
		m.keys.Reset, m.keys.Help, m.keys.Quit,
	}

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}

func (m *Model) resize(width, height int) {
	m.layout = ui.NewLayout(width, height)
	content := m.layout.ContentHeight()

	m.boardView.SetSize(width-sidebarWidth, content)
	m.feed.SetSize(sidebarWidth, content)
	m.taskForm.SetSize(width, height)
	m.login.SetSize(width, height)
	m.confirm.SetSize(width, height)
	m.helpView.SetSize(width, height)
}

// userMessage maps operation errors to the inline text shown to the user.
func userMessage(err error) string {
	switch {
	case errors.Is(err, board.ErrEmptyTitle):
		return "Title cannot be empty"
	case errors.Is(err, board.ErrTaskNotFound):
		return "That task no longer exists"
	case errors.Is(err, board.ErrIndexOutOfRange):
		return "The board changed; try again"
	}
	return err.Error()
}
