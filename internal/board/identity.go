package board

import (
	"strconv"
	"sync"
	"time"
)

// Identity supplies fresh task ids and the current time. The board takes
// it as a collaborator so tests can pin both.
type Identity interface {
	NewID() string
	Now() time.Time
}

// SystemIdentity issues millisecond-timestamp ids, bumped monotonically
// when two tasks are created within the same millisecond.
type SystemIdentity struct {
	mu   sync.Mutex
	last int64
}

// NewID returns a fresh id unique within this process.
func (s *SystemIdentity) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := time.Now().UnixMilli()
	if ms <= s.last {
		ms = s.last + 1
	}
	s.last = ms

	return strconv.FormatInt(ms, 10)
}

// Now returns the current wall-clock time.
func (s *SystemIdentity) Now() time.Time {
	return time.Now()
}
