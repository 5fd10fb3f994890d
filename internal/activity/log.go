package activity

import (
	"fmt"
	"time"
)

// Log is the ordered, newest-first history of board changes. It is
// append-only: entries are prepended and never mutated afterward.
type Log struct {
	entries []Entry
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{entries: []Entry{}}
}

// Replace swaps in a hydrated history, newest first.
func (l *Log) Replace(entries []Entry) {
	if entries == nil {
		entries = []Entry{}
	}
	l.entries = entries
}

// Append prepends an entry so the most recent change comes first.
func (l *Log) Append(e Entry) {
	l.entries = append([]Entry{e}, l.entries...)
}

// Clear empties the log. Invoked by a board reset.
func (l *Log) Clear() {
	l.entries = []Entry{}
}

// Entries returns the full history, newest first. The stored history is
// unbounded; use Recent for display truncation.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Recent returns at most n of the newest entries.
func (l *Log) Recent(n int) []Entry {
	if n < 0 {
		n = 0
	}
	if n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]Entry, n)
	copy(out, l.entries[:n])
	return out
}

// Len returns the number of stored entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// RelativeTime returns a human-friendly elapsed-time label for t as seen
// from now: "just now" under a minute, then whole minutes, hours, days.
func RelativeTime(t, now time.Time) string {
	seconds := int(now.Sub(t).Seconds())
	switch {
	case seconds < 60:
		return "just now"
	case seconds < 3600:
		return fmt.Sprintf("%dm ago", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%dh ago", seconds/3600)
	default:
		return fmt.Sprintf("%dd ago", seconds/86400)
	}
}
