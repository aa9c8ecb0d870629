package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/palpal-apps/work-tracker/internal/errors"
)

// DeleteCommand handles the delete command
type DeleteCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the delete command: wt delete <id>
func (c *DeleteCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "delete", "usage: wt delete <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return errors.NewInvalidInputError("id", args[0], "must be an entry id")
	}

	if err := c.app.entries.DeleteEntry(ctx, id); err != nil {
		return c.errorHandler.Handle("delete entry", err)
	}
	fmt.Printf("Deleted entry #%d\n", id)
	return nil
}
