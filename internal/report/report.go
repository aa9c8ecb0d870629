// Package report derives filtered views, per-tag aggregates, and totals from
// an entry collection for a selected time window.
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/palpal-apps/work-tracker/internal/domain"
)

// Options selects the report window and narrows the result set.
type Options struct {
	Period      domain.Period
	CustomStart time.Time
	CustomEnd   time.Time

	// Search matches entries whose tags contain the term as a
	// case-insensitive substring.
	Search string

	// Tags keeps only entries carrying every listed tag.
	Tags []string
}

// Filter applies the period filter, then the search/tag filter when either is
// set. Calendar comparisons (day, month, custom bounds) are evaluated in loc.
func Filter(entries []domain.TimeEntry, opts Options, now time.Time, loc *time.Location) []domain.TimeEntry {
	var out []domain.TimeEntry
	for _, e := range entries {
		if !inPeriod(e.ClockIn, opts, now, loc) {
			continue
		}
		if !matchesSearch(e, opts) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func inPeriod(clockIn time.Time, opts Options, now time.Time, loc *time.Location) bool {
	switch opts.Period {
	case domain.PeriodDay:
		return sameDate(clockIn.In(loc), now.In(loc))
	case domain.PeriodWeek:
		// Boundary inclusive: exactly 7x24h ago still counts.
		return !clockIn.Before(now.Add(-7 * 24 * time.Hour))
	case domain.PeriodMonth:
		in := clockIn.In(loc)
		ref := now.In(loc)
		return in.Year() == ref.Year() && in.Month() == ref.Month()
	case domain.PeriodCustom:
		sy, sm, sd := opts.CustomStart.In(loc).Date()
		start := time.Date(sy, sm, sd, 0, 0, 0, 0, loc)
		ey, em, ed := opts.CustomEnd.In(loc).Date()
		end := time.Date(ey, em, ed, 23, 59, 59, 999000000, loc)
		return !clockIn.Before(start) && !clockIn.After(end)
	}
	return true
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func matchesSearch(e domain.TimeEntry, opts Options) bool {
	if opts.Search == "" && len(opts.Tags) == 0 {
		return true
	}

	if opts.Search != "" {
		term := strings.ToLower(opts.Search)
		found := false
		for _, tag := range e.Tags {
			if strings.Contains(strings.ToLower(tag), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for _, want := range opts.Tags {
		if !e.HasTag(want) {
			return false
		}
	}
	return true
}

// TagStats accumulates per-tag duration totals over the filtered set, sorted
// by duration descending. A multi-tag entry contributes its full duration to
// each of its tags, so the stat sum can exceed the overall total; that is the
// intended "time per category" semantic. Untagged entries accumulate into a
// synthetic bucket appended at the end when nonzero.
func TagStats(entries []domain.TimeEntry, now time.Time) []domain.TagStat {
	totals := make(map[string]time.Duration)
	var untagged time.Duration

	for _, e := range entries {
		d := e.Duration(now)
		if len(e.Tags) == 0 {
			untagged += d
			continue
		}
		for _, tag := range e.Tags {
			totals[tag] += d
		}
	}

	stats := make([]domain.TagStat, 0, len(totals)+1)
	for tag, d := range totals {
		stats = append(stats, domain.TagStat{Tag: tag, Duration: d})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Duration != stats[j].Duration {
			return stats[i].Duration > stats[j].Duration
		}
		return stats[i].Tag < stats[j].Tag
	})

	if untagged > 0 {
		stats = append(stats, domain.TagStat{Tag: domain.UntaggedLabel, Duration: untagged})
	}
	return stats
}

// Total sums the interval lengths of the filtered set, independent of tag
// bucketing.
func Total(entries []domain.TimeEntry, now time.Time) time.Duration {
	var total time.Duration
	for _, e := range entries {
		total += e.Duration(now)
	}
	return total
}
