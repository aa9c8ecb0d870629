package store

import (
	"math/rand"
	"time"

	"github.com/palpal-apps/work-tracker/internal/domain"
)

var demoTagSets = [][]string{
	{"Development", "Work Tracker"},
	{"Meeting", "Client"},
	{"Design", "UI/UX"},
	{"Research", "Planning"},
	{"Bug Fix", "Critical"},
	{"Writing", "Documentation"},
}

// GenerateDemoData produces roughly 30 days of synthetic closed sessions
// ending at now: 1-4 sessions per weekday starting around 9 AM, a 20% chance
// of weekend work, random durations between 30 minutes and 4 hours, random
// tag sets. Every entry is flagged manual and demo.
func GenerateDemoData(now time.Time) []domain.TimeEntry {
	var entries []domain.TimeEntry

	for i := 0; i < 30; i++ {
		date := now.AddDate(0, 0, -i)

		// Skip weekends mostly.
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			if rand.Float64() > 0.2 {
				continue
			}
		}

		sessions := rand.Intn(4) + 1
		hour := 9.0

		for j := 0; j < sessions; j++ {
			durationHours := rand.Float64()*3.5 + 0.5

			start := time.Date(date.Year(), date.Month(), date.Day(),
				int(hour), rand.Intn(60), 0, 0, date.Location())
			end := start.Add(time.Duration(durationHours * float64(time.Hour)))

			entries = append(entries, domain.TimeEntry{
				ID:       start.UnixMilli(),
				ClockIn:  start,
				ClockOut: &end,
				Tags:     demoTagSets[rand.Intn(len(demoTagSets))],
				IsManual: true,
				IsDemo:   true,
			})

			// Next session starts after this one plus a short break.
			hour += durationHours + rand.Float64()
		}
	}

	return entries
}
