package activity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/activity"
)

var base = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func TestLogAppendPrepends(t *testing.T) {
	log := activity.NewLog()

	log.Append(activity.NewEntry(activity.ActionCreated, "first", base))
	log.Append(activity.NewEntry(activity.ActionCreated, "second", base.Add(time.Minute)))
	log.Append(activity.NewEntry(activity.ActionMoved, "second", base.Add(2*time.Minute)))

	entries := log.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, activity.ActionMoved, entries[0].Action)
	assert.Equal(t, "second", entries[0].Title)
	assert.Equal(t, "first", entries[2].Title)
}

func TestLogRecent(t *testing.T) {
	log := activity.NewLog()
	for i := 0; i < 15; i++ {
		log.Append(activity.NewEntry(activity.ActionCreated, "task", base))
	}

	// Recent truncates, Entries does not.
	assert.Len(t, log.Recent(10), 10)
	assert.Len(t, log.Entries(), 15)
	assert.Equal(t, 15, log.Len())

	assert.Len(t, log.Recent(100), 15)
	assert.Empty(t, log.Recent(0))
	assert.Empty(t, log.Recent(-1))
}

func TestLogReplaceAndClear(t *testing.T) {
	log := activity.NewLog()
	log.Replace([]activity.Entry{
		activity.NewEntry(activity.ActionDeleted, "gone", base),
	})
	assert.Equal(t, 1, log.Len())

	log.Replace(nil)
	assert.Equal(t, 0, log.Len())

	log.Append(activity.NewEntry(activity.ActionCreated, "back", base))
	log.Clear()
	assert.Equal(t, 0, log.Len())
	assert.Empty(t, log.Entries())
}

func TestLogEntriesReturnsCopy(t *testing.T) {
	log := activity.NewLog()
	log.Append(activity.NewEntry(activity.ActionCreated, "original", base))

	entries := log.Entries()
	entries[0].Title = "tampered"

	assert.Equal(t, "original", log.Entries()[0].Title)
}

func TestRelativeTime(t *testing.T) {
	now := base

	cases := []struct {
		name string
		at   time.Time
		want string
	}{
		{"now", now, "just now"},
		{"under a minute", now.Add(-59 * time.Second), "just now"},
		{"one minute", now.Add(-60 * time.Second), "1m ago"},
		{"under an hour", now.Add(-59*time.Minute - 59*time.Second), "59m ago"},
		{"one hour", now.Add(-time.Hour), "1h ago"},
		{"under a day", now.Add(-23*time.Hour - 59*time.Minute), "23h ago"},
		{"one day", now.Add(-24 * time.Hour), "1d ago"},
		{"three days", now.Add(-3 * 24 * time.Hour), "3d ago"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, activity.RelativeTime(tc.at, now))
		})
	}
}
