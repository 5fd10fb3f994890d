package boardview

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/theme"
)

// renderCard draws one task as a two-line card: title with priority
// badge, then creation/due metadata with tags.
func renderCard(task model.Task, selected bool, today time.Time, width int) string {
	pri := theme.PriorityStyle(task.Priority).Render("[" + string(task.Priority) + "]")
	title := truncate(task.Title, width-lipgloss.Width(pri)-3)

	head := title + " " + pri

	meta := []string{theme.DimmedStyle.Render(task.CreatedAt.Format("Jan 2"))}
	if task.DueDate != nil {
		meta = append(meta, theme.DueDateStyle.Render("due "+task.DueDate.Format("Jan 2")))
	}
	if board.IsOverdue(task, today) {
		meta = append(meta, theme.OverdueStyle.Render("OVERDUE"))
	}
	if len(task.Tags) > 0 {
		shown := task.Tags
		if len(shown) > 2 {
			shown = append(shown[:2:2], "…")
		}
		meta = append(meta, theme.TagStyle.Render("#"+strings.Join(shown, " #")))
	}

	card := head + "\n" + strings.Join(meta, " ")
	if selected {
		return theme.SelectedCardStyle.Render(card)
	}
	return theme.CardStyle.Render(card)
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
