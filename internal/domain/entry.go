package domain

import (
	"sync"
	"time"
)

// UntaggedLabel is the synthetic bucket for entries that carry no tags.
const UntaggedLabel = "(Not Tagged)"

// TimeEntry represents one logged work interval.
// At most one entry in a collection may have ClockOut == nil (the active entry).
// JSON field names match the stored document format.
type TimeEntry struct {
	ID       int64      `json:"id"`
	ClockIn  time.Time  `json:"clockIn"`
	ClockOut *time.Time `json:"clockOut"`
	Tags     []string   `json:"tags"`
	ParentID *int64     `json:"parentId,omitempty"`
	IsManual bool       `json:"isManual,omitempty"`
	IsDemo   bool       `json:"isDemo,omitempty"`
}

// IsOpen returns true if the entry has no clock-out time.
func (e TimeEntry) IsOpen() bool {
	return e.ClockOut == nil
}

// Duration returns the length of the interval, using now as the end for an
// open entry. Negative intervals (clock skew) clamp to zero.
func (e TimeEntry) Duration(now time.Time) time.Duration {
	end := now
	if e.ClockOut != nil {
		end = *e.ClockOut
	}
	d := end.Sub(e.ClockIn)
	if d < 0 {
		return 0
	}
	return d
}

// HasTag reports whether the entry carries the given tag.
func (e TimeEntry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// MergeTags returns the entry's tags unioned with extra, preserving
// first-seen order and dropping duplicates.
func (e TimeEntry) MergeTags(extra []string) []string {
	seen := make(map[string]bool, len(e.Tags)+len(extra))
	merged := make([]string, 0, len(e.Tags)+len(extra))
	for _, t := range append(append([]string{}, e.Tags...), extra...) {
		if !seen[t] {
			seen[t] = true
			merged = append(merged, t)
		}
	}
	return merged
}

// TagStat is a derived per-tag duration total. Never persisted.
type TagStat struct {
	Tag      string        `json:"tag"`
	Duration time.Duration `json:"duration"`
}

// UserSettings holds per-user preferences.
type UserSettings struct {
	Timezone string `json:"timezone"`
}

// Profile is the remote user profile document. It is deliberately opaque:
// the settings store splices its own sub-object in and writes the rest back
// untouched (read-modify-write merge).
type Profile map[string]interface{}

// Period selects the report time window.
type Period string

const (
	PeriodDay    Period = "day"
	PeriodWeek   Period = "week"
	PeriodMonth  Period = "month"
	PeriodCustom Period = "custom"
)

// Valid reports whether p is a known period selector.
func (p Period) Valid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodCustom:
		return true
	}
	return false
}

var (
	idMu   sync.Mutex
	lastID int64
)

// NewEntryID returns a time-of-creation id: the millisecond epoch of now,
// bumped past the previous id when two entries land in the same millisecond.
func NewEntryID(now time.Time) int64 {
	idMu.Lock()
	defer idMu.Unlock()
	id := now.UnixMilli()
	if id <= lastID {
		id = lastID + 1
	}
	lastID = id
	return id
}
