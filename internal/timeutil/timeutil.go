// Package timeutil holds the display-facing time calculations: duration
// strings, decimal hours for CSV export, and timezone-parameterized
// date/time formatting.
package timeutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/palpal-apps/work-tracker/internal/logging"
)

// Clock is a variable that can be replaced in tests
var Clock = time.Now

// FormatDuration renders a duration as "XhYmZs", omitting the hour component
// when zero and omitting minutes only when both hours and minutes are zero.
// Negative durations (clock skew) render as "0s".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		return "0s"
	}

	hours := int(d / time.Hour)
	minutes := int(d%time.Hour) / int(time.Minute)
	seconds := int(d%time.Minute) / int(time.Second)

	var parts []string
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if hours > 0 || minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}

// CalculateDuration renders the interval between clockIn and clockOut as a
// duration string, using now for an open interval.
func CalculateDuration(clockIn time.Time, clockOut *time.Time, now time.Time) string {
	end := now
	if clockOut != nil {
		end = *clockOut
	}
	return FormatDuration(end.Sub(clockIn))
}

// TotalHours returns the interval length in decimal hours, using now for an
// open interval. Used for CSV export precision; not clamped.
func TotalHours(clockIn time.Time, clockOut *time.Time, now time.Time) float64 {
	end := now
	if clockOut != nil {
		end = *clockOut
	}
	return end.Sub(clockIn).Hours()
}

// FormatTime renders a timestamp as a 12-hour clock time in the given zone,
// e.g. "09:00 AM".
func FormatTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("03:04 PM")
}

// FormatDate renders a timestamp as a short date in the given zone,
// e.g. "Jan 1, 2024".
func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("Jan 2, 2006")
}

// LoadLocation resolves an IANA zone name, falling back to UTC when the name
// is empty or unknown.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logging.Debugf("invalid timezone %q, falling back to UTC: %v", name, err)
		return time.UTC
	}
	return loc
}

// SystemTimezone returns the host's IANA zone name, or "UTC" when the host
// zone has no name.
func SystemTimezone() string {
	name := Clock().Location().String()
	if name == "" || name == "Local" {
		return "UTC"
	}
	return name
}
