package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/palpal-apps/work-tracker/internal/errors"
	"github.com/palpal-apps/work-tracker/internal/export"
	"github.com/palpal-apps/work-tracker/internal/report"
)

// ExportCommand handles the export command
type ExportCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewExportCommand creates a new export command handler
func NewExportCommand(app *App) *ExportCommand {
	return &ExportCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute renders the selected entries in the requested format and writes the
// file into the configured export directory.
func (c *ExportCommand) Execute(ctx context.Context, format string, ids []int64, flags FilterFlags) error {
	full := c.app.entries.Entries()

	opts, err := c.app.reportOptions(flags)
	if err != nil {
		return c.errorHandler.HandleSimple(err)
	}
	now := timeNow()
	loc := c.app.location()
	selection := export.Select(full, report.Filter(full, opts, now, loc), ids)

	var file export.File
	count := len(selection)
	switch format {
	case "csv":
		file = export.CSV(selection, now, loc)
	case "json":
		file, err = export.JSON(selection)
		if err != nil {
			return c.errorHandler.Handle("export", err)
		}
	case "ics":
		// The calendar export always covers the most recent sessions,
		// independent of the report window.
		file = export.Calendar(full, now)
		if count = len(full); count > 10 {
			count = 10
		}
	default:
		return errors.NewInvalidInputError("format", format, "must be csv, json, or ics")
	}

	path := filepath.Join(c.app.config.Export.Dir, file.Name)
	if err := os.WriteFile(path, file.Content, 0644); err != nil {
		return c.errorHandler.Handle("export", errors.NewStorageError("write "+path, err))
	}

	fmt.Printf("Wrote %s (%s, %d entries)\n", path, file.MIME, count)
	return nil
}
