package cli

import (
	"fmt"
	"strings"

	"github.com/palpal-apps/work-tracker/internal/timeutil"
	"github.com/palpal-apps/work-tracker/internal/validation"
)

// InCommand handles the in (clock in) command
type InCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewInCommand creates a new clock-in command handler
func NewInCommand(app *App) *InCommand {
	return &InCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the in command. Arguments are taken as a comma-separated tag
// list for the new session.
func (c *InCommand) Execute(args []string) error {
	if active := c.app.entries.Active(); active != nil {
		fmt.Printf("A session is already running (started %s)\n",
			timeutil.FormatTime(active.ClockIn, c.app.location()))
		return nil
	}

	tags := validation.CleanTags(strings.Join(args, ","))
	if err := c.app.entries.StartSession(tags); err != nil {
		return c.errorHandler.Handle("clock in", err)
	}

	active := c.app.entries.Active()
	fmt.Printf("Clocked in at %s\n", timeutil.FormatTime(active.ClockIn, c.app.location()))
	if len(active.Tags) > 0 {
		fmt.Printf("Tags: %s\n", strings.Join(active.Tags, ", "))
	}
	return nil
}
