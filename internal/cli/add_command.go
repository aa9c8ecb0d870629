package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/palpal-apps/work-tracker/internal/errors"
	"github.com/palpal-apps/work-tracker/internal/timeutil"
)

// AddCommand handles manual sub-entry creation inside a recorded session
type AddCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewAddCommand creates a new manual entry command handler
func NewAddCommand(app *App) *AddCommand {
	return &AddCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the add command: wt add <parent-id> <tag> <in HH:MM> <out HH:MM>.
// A clock-out at or before the clock-in is taken to mean the next day.
func (c *AddCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 4 {
		return errors.NewInvalidInputError("command", "add",
			"usage: wt add <parent-id> <tag> <clock-in HH:MM> <clock-out HH:MM>")
	}

	parentID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return errors.NewInvalidInputError("parent-id", args[0], "must be an entry id")
	}

	entry, err := c.app.entries.AddManualSubEntry(ctx, parentID, args[1], args[2], args[3])
	if err != nil {
		return c.errorHandler.Handle("add manual entry", err)
	}

	loc := c.app.location()
	fmt.Printf("Added %s entry #%d: %s - %s (%s)\n",
		entry.Tags[0], entry.ID,
		timeutil.FormatTime(entry.ClockIn, loc),
		timeutil.FormatTime(*entry.ClockOut, loc),
		timeutil.CalculateDuration(entry.ClockIn, entry.ClockOut, timeNow()))
	return nil
}
