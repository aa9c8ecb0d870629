package cli

import (
	"context"
	"fmt"
)

// DemoCommand handles demo data loading and removal
type DemoCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewDemoCommand creates a new demo command handler
func NewDemoCommand(app *App) *DemoCommand {
	return &DemoCommand{app: app, errorHandler: NewErrorHandler()}
}

// Load merges synthetic sessions into the collection.
func (c *DemoCommand) Load(ctx context.Context) error {
	loaded, err := c.app.entries.LoadDemoData(ctx)
	if err != nil {
		return c.errorHandler.Handle("load demo data", err)
	}
	fmt.Printf("Loaded %d demo entries\n", loaded)
	return nil
}

// Clear removes every demo-flagged entry.
func (c *DemoCommand) Clear(ctx context.Context) error {
	removed, err := c.app.entries.DeleteAllDemoSessions(ctx)
	if err != nil {
		return c.errorHandler.Handle("clear demo data", err)
	}
	fmt.Printf("Removed %d demo entries\n", removed)
	return nil
}
