package board

import (
	"sort"
	"strings"
	"time"

	"github.com/nhle/taskboard/internal/model"
)

// Read-only helpers applied per column at render time. None of them
// touches the stored order.

// FilterTasks returns the tasks whose title contains search
// (case-insensitive) and, when priority is non-empty, whose priority
// matches it exactly. Both predicates AND-combine; empty arguments are
// identity.
func FilterTasks(tasks []model.Task, search string, priority model.Priority) []model.Task {
	search = strings.ToLower(search)

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if search != "" && !strings.Contains(strings.ToLower(t.Title), search) {
			continue
		}
		if priority != "" && t.Priority != priority {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SortByDueDate returns a new slice sorted ascending by due date, with
// undated tasks after all dated ones. The sort is stable, so relative
// order is preserved among equal keys.
func SortByDueDate(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].DueDate, out[j].DueDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return out
}

// IsOverdue reports whether the task's due date falls on a calendar day
// strictly before today's. Time of day is ignored on both sides.
func IsOverdue(t model.Task, today time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	return calendarDay(*t.DueDate).Before(calendarDay(today))
}

func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
