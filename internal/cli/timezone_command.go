package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/palpal-apps/work-tracker/internal/errors"
)

// TimezoneCommand handles the timezone preference
type TimezoneCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewTimezoneCommand creates a new timezone command handler
func NewTimezoneCommand(app *App) *TimezoneCommand {
	return &TimezoneCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute shows the current zone, or sets it when a zone name is given.
func (c *TimezoneCommand) Execute(ctx context.Context, args []string) error {
	switch len(args) {
	case 0:
		fmt.Printf("Timezone: %s\n", c.app.settings.Timezone())
		return nil
	case 1:
		if _, err := time.LoadLocation(args[0]); err != nil {
			return errors.NewInvalidInputError("timezone", args[0], "must be an IANA zone name like Europe/London")
		}
		if err := c.app.settings.SetTimezone(ctx, args[0]); err != nil {
			return c.errorHandler.Handle("set timezone", err)
		}
		fmt.Printf("Timezone set to %s\n", args[0])
		return nil
	default:
		return errors.NewInvalidInputError("command", "timezone", "usage: wt timezone [zone]")
	}
}
