package cli

import (
	"context"
	"fmt"
)

// ClearCommand handles the clear command
type ClearCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewClearCommand creates a new clear command handler
func NewClearCommand(app *App) *ClearCommand {
	return &ClearCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute clears data. With a date only that day's entries are removed;
// without one the whole collection and the running session are dropped.
func (c *ClearCommand) Execute(ctx context.Context, date string) error {
	if date == "" {
		if err := c.app.entries.ClearAllData(); err != nil {
			return c.errorHandler.Handle("clear data", err)
		}
		fmt.Println("All data has been cleared")
		return nil
	}

	day, err := parseDate(date, c.app.location())
	if err != nil {
		return c.errorHandler.HandleSimple(err)
	}

	removed, err := c.app.entries.ClearOnDate(ctx, day)
	if err != nil {
		return c.errorHandler.Handle("clear data", err)
	}
	if removed == 0 {
		fmt.Println("No entries found for the selected date")
		return nil
	}
	fmt.Printf("Removed %d entries from %s\n", removed, date)
	return nil
}
