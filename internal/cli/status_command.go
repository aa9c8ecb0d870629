package cli

import (
	"fmt"
	"strings"

	"github.com/palpal-apps/work-tracker/internal/errors"
	"github.com/palpal-apps/work-tracker/internal/timeutil"
)

// StatusCommand handles the status command
type StatusCommand struct {
	app *App
}

// NewStatusCommand creates a new status command handler
func NewStatusCommand(app *App) *StatusCommand {
	return &StatusCommand{app: app}
}

// Execute runs the status command
func (c *StatusCommand) Execute(args []string) error {
	if len(args) != 0 {
		return errors.NewInvalidInputError("command", "status", "usage: wt status")
	}

	active := c.app.entries.Active()
	if active == nil {
		fmt.Println("No session is running")
	} else {
		fmt.Printf("Session running since %s (%s elapsed)\n",
			timeutil.FormatTime(active.ClockIn, c.app.location()),
			timeutil.CalculateDuration(active.ClockIn, nil, timeNow()))
		if len(active.Tags) > 0 {
			fmt.Printf("Tags: %s\n", strings.Join(active.Tags, ", "))
		}
	}

	fmt.Printf("Recorded sessions: %d\n", len(c.app.entries.Entries()))
	if c.app.entries.Temporary() {
		fmt.Println("Note: data is stored locally only and is not backed by cloud storage")
	}
	return nil
}
