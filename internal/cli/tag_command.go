package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/palpal-apps/work-tracker/internal/errors"
	"github.com/palpal-apps/work-tracker/internal/validation"
)

// TagCommand handles tag add/remove on a session
type TagCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewTagCommand creates a new tag command handler
func NewTagCommand(app *App) *TagCommand {
	return &TagCommand{app: app, errorHandler: NewErrorHandler()}
}

// Add merges tags into the target entry. With id 0 the running session is
// targeted.
func (c *TagCommand) Add(ctx context.Context, id int64, args []string) error {
	tags := validation.CleanTags(strings.Join(args, ","))
	if len(tags) == 0 {
		return errors.NewInvalidInputError("tags", "", "usage: wt tag add [--id N] <tags>")
	}

	id, err := c.resolveTarget(id)
	if err != nil {
		return err
	}
	if err := c.app.entries.AddTags(ctx, id, tags); err != nil {
		return c.errorHandler.Handle("add tags", err)
	}

	entry, _ := c.app.entries.Find(id)
	fmt.Printf("Tags: %s\n", strings.Join(entry.Tags, ", "))
	return nil
}

// Remove drops tags from the target entry. With id 0 the running session is
// targeted.
func (c *TagCommand) Remove(ctx context.Context, id int64, args []string) error {
	tags := validation.CleanTags(strings.Join(args, ","))
	if len(tags) == 0 {
		return errors.NewInvalidInputError("tags", "", "usage: wt tag rm [--id N] <tags>")
	}

	id, err := c.resolveTarget(id)
	if err != nil {
		return err
	}
	if err := c.app.entries.RemoveTags(ctx, id, tags); err != nil {
		return c.errorHandler.Handle("remove tags", err)
	}

	entry, _ := c.app.entries.Find(id)
	if len(entry.Tags) == 0 {
		fmt.Println("Tags: none")
	} else {
		fmt.Printf("Tags: %s\n", strings.Join(entry.Tags, ", "))
	}
	return nil
}

// resolveTarget maps the zero id to the running session.
func (c *TagCommand) resolveTarget(id int64) (int64, error) {
	if id != 0 {
		return id, nil
	}
	active := c.app.entries.Active()
	if active == nil {
		return 0, errors.NewInvalidInputError("id", "", "no session is running; pass --id to tag a recorded entry")
	}
	return active.ID, nil
}
