package cli

import (
	"fmt"
	"strings"

	"github.com/palpal-apps/work-tracker/internal/domain"
	"github.com/palpal-apps/work-tracker/internal/errors"
	"github.com/palpal-apps/work-tracker/internal/report"
	"github.com/palpal-apps/work-tracker/internal/timeutil"
)

// ListCommand handles the list command
type ListCommand struct {
	app *App
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{app: app}
}

// Execute runs the list command. An optional day|week|month argument narrows
// the window; the default lists everything.
func (c *ListCommand) Execute(args []string) error {
	entries := c.app.entries.Entries()

	if len(args) > 1 {
		return errors.NewInvalidInputError("command", "list", "usage: wt list [day|week|month]")
	}
	if len(args) == 1 {
		period := domain.Period(args[0])
		if !period.Valid() || period == domain.PeriodCustom {
			return errors.NewInvalidInputError("period", args[0], "must be day, week, or month")
		}
		entries = report.Filter(entries, report.Options{Period: period}, timeNow(), c.app.location())
	}

	c.printEntries(entries)
	return nil
}

// printEntries prints one line per entry:
// #id  date  clockIn - clockOut  (duration)  tags
func (c *ListCommand) printEntries(entries []domain.TimeEntry) {
	if len(entries) == 0 {
		fmt.Println("No entries found")
		return
	}

	loc := c.app.location()
	now := timeNow()
	for _, e := range entries {
		clockOut := "running"
		if e.ClockOut != nil {
			clockOut = timeutil.FormatTime(*e.ClockOut, loc)
		}

		var marks []string
		if e.IsManual {
			marks = append(marks, "manual")
		}
		if e.IsDemo {
			marks = append(marks, "demo")
		}
		suffix := ""
		if len(marks) > 0 {
			suffix = "  [" + strings.Join(marks, ", ") + "]"
		}

		fmt.Printf("#%d  %s  %s - %s  (%s)  %s%s\n",
			e.ID,
			timeutil.FormatDate(e.ClockIn, loc),
			timeutil.FormatTime(e.ClockIn, loc),
			clockOut,
			timeutil.CalculateDuration(e.ClockIn, e.ClockOut, now),
			strings.Join(e.Tags, ", "),
			suffix)
	}
}
