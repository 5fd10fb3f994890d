package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/theme"
)

// Layout manages the multi-panel terminal layout dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	ProgressHeight  int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		ProgressHeight:  1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header, progress bar, and status bar.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.ProgressHeight - l.StatusBarHeight
}

// RenderHeader renders the top header bar with the board title on the
// left and the task counts on the right.
func (l Layout) RenderHeader(title string, total, completed int) string {
	titleRendered := theme.HeaderStyle.Render(title)

	counts := fmt.Sprintf("%d tasks · %d completed", total, completed)
	countsRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(counts)

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(countsRendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.HeaderStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.HeaderStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		countsRendered,
	)
}

// RenderProgress renders a full-width completion bar for the given
// fraction in [0, 1].
func (l Layout) RenderProgress(fraction float64) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	filled := int(float64(l.Width) * fraction)
	if filled > l.Width {
		filled = l.Width
	}

	bar := lipgloss.NewStyle().Foreground(theme.ColorGreen).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.ColorSubtle).Render(strings.Repeat("░", l.Width-filled))
	return bar
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.StatusBarStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.StatusBarStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, progress bar, content area, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	progress string,
	content string,
	statusBar string,
) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		progress,
		content,
		statusBar,
	)
}
