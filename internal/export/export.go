// Package export renders entry selections into CSV, JSON, and calendar
// interchange formats. The product is the exact file content plus a name and
// MIME type; delivery to disk is the caller's concern.
package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/palpal-apps/work-tracker/internal/domain"
	"github.com/palpal-apps/work-tracker/internal/errors"
	"github.com/palpal-apps/work-tracker/internal/timeutil"
)

// File is a rendered export: content bytes plus the filename and MIME type to
// deliver it under.
type File struct {
	Name    string
	MIME    string
	Content []byte
}

// Select resolves the entry set an export operates on: an explicit id
// selection filters the full collection (preserving its order), otherwise the
// currently filtered set is used as-is.
func Select(full, filtered []domain.TimeEntry, selected []int64) []domain.TimeEntry {
	if len(selected) == 0 {
		return filtered
	}

	want := make(map[int64]bool, len(selected))
	for _, id := range selected {
		want[id] = true
	}
	var out []domain.TimeEntry
	for _, e := range full {
		if want[e.ID] {
			out = append(out, e)
		}
	}
	return out
}

// CSV renders one row per entry under a fixed header. An open entry shows
// "N/A" for clock-out; duration is decimal hours to two places; tags join
// with "; ". Display times use the given zone.
func CSV(entries []domain.TimeEntry, now time.Time, loc *time.Location) File {
	lines := []string{"Date,Clock In,Clock Out,Duration (hours),Tags"}
	for _, e := range entries {
		clockOut := "N/A"
		if e.ClockOut != nil {
			clockOut = timeutil.FormatTime(*e.ClockOut, loc)
		}
		lines = append(lines, strings.Join([]string{
			timeutil.FormatDate(e.ClockIn, loc),
			timeutil.FormatTime(e.ClockIn, loc),
			clockOut,
			fmt.Sprintf("%.2f", timeutil.TotalHours(e.ClockIn, e.ClockOut, now)),
			strings.Join(e.Tags, "; "),
		}, ","))
	}

	return File{
		Name:    "work-tracker-export.csv",
		MIME:    "text/csv",
		Content: []byte(strings.Join(lines, "\n")),
	}
}

// JSON renders the raw entries as a 2-space indented array, order preserved.
func JSON(entries []domain.TimeEntry) (File, error) {
	if entries == nil {
		entries = []domain.TimeEntry{}
	}
	content, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return File{}, errors.NewStorageError("encode export", err)
	}

	return File{
		Name:    "work-tracker-export.json",
		MIME:    "application/json",
		Content: content,
	}, nil
}

// Calendar renders the 10 most recent entries of the collection as an ICS
// calendar, one VEVENT per entry. Open entries end at now. Line endings are
// CRLF per the interchange format.
func Calendar(entries []domain.TimeEntry, now time.Time) File {
	recent := entries
	if len(recent) > 10 {
		recent = recent[:10]
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Work Tracker//EN",
	}
	for _, e := range recent {
		end := now
		if e.ClockOut != nil {
			end = *e.ClockOut
		}

		summary := "Session"
		if len(e.Tags) > 0 {
			hashed := make([]string, len(e.Tags))
			for i, tag := range e.Tags {
				hashed[i] = "#" + tag
			}
			summary = "Session " + strings.Join(hashed, " ")
		}

		tagList := strings.Join(e.Tags, ", ")
		if tagList == "" {
			tagList = "None"
		}

		lines = append(lines,
			"BEGIN:VEVENT",
			fmt.Sprintf("UID:%d@worktracker", e.ID),
			"DTSTAMP:"+icsTime(now),
			"DTSTART:"+icsTime(e.ClockIn),
			"DTEND:"+icsTime(end),
			"SUMMARY:"+summary,
			fmt.Sprintf("DESCRIPTION:Tags: %s\\nDuration: %s",
				tagList, timeutil.CalculateDuration(e.ClockIn, e.ClockOut, now)),
			"END:VEVENT",
		)
	}
	lines = append(lines, "END:VCALENDAR")

	return File{
		Name:    "recent-work-sessions.ics",
		MIME:    "text/calendar",
		Content: []byte(strings.Join(lines, "\r\n")),
	}
}

// icsTime renders a timestamp in the calendar's UTC basic format,
// e.g. "20240115T120000Z".
func icsTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}
