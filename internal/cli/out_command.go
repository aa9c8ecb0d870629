package cli

import (
	"context"
	"fmt"

	"github.com/palpal-apps/work-tracker/internal/errors"
	"github.com/palpal-apps/work-tracker/internal/timeutil"
)

// OutCommand handles the out (clock out) command
type OutCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewOutCommand creates a new clock-out command handler
func NewOutCommand(app *App) *OutCommand {
	return &OutCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the out command
func (c *OutCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return errors.NewInvalidInputError("command", "out", "usage: wt out")
	}

	active := c.app.entries.Active()
	if active == nil {
		fmt.Println("No session is running")
		return nil
	}

	if err := c.app.entries.StopSession(ctx); err != nil {
		return c.errorHandler.Handle("clock out", err)
	}

	fmt.Printf("Clocked out at %s (worked %s)\n",
		timeutil.FormatTime(timeNow(), c.app.location()),
		timeutil.CalculateDuration(active.ClockIn, nil, timeNow()))
	return nil
}
