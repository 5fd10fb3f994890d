package activityfeed

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/activity"
	"github.com/nhle/taskboard/internal/theme"
)

// Model renders the recent-activity sidebar. The feed shows only the
// newest entries; the stored history stays complete.
type Model struct {
	log    *activity.Log
	limit  int
	width  int
	height int
}

// New creates the feed over the given log, showing at most limit entries.
func New(log *activity.Log, limit, width, height int) Model {
	if limit <= 0 {
		limit = 10
	}
	return Model{log: log, limit: limit, width: width, height: height}
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// View renders the feed panel. Elapsed-time labels are recomputed from
// now on every render; nothing is scheduled.
func (m Model) View(now time.Time) string {
	title := theme.ColumnTitleStyle.Render("Activity")

	lines := []string{title}
	entries := m.log.Recent(m.limit)
	if len(entries) == 0 {
		lines = append(lines, theme.DimmedStyle.Render("No activity yet"))
	}
	for _, e := range entries {
		kind := e.Kind()
		glyph := theme.CategoryStyle(kind).Render(theme.CategoryGlyph(kind))
		line := glyph + " " + e.Action + "\n  " +
			theme.DimmedStyle.Render(truncate(e.Title, m.width-8)) + " · " +
			theme.DimmedStyle.Render(activity.RelativeTime(e.Time, now))
		lines = append(lines, line)
	}

	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return theme.SidebarStyle.Width(m.width).Height(m.height - 2).Render(body)
}

func truncate(s string, max int) string {
	if max < 1 {
		max = 1
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
