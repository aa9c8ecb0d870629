package cli

import (
	"fmt"
	"time"

	"github.com/palpal-apps/work-tracker/internal/domain"
	"github.com/palpal-apps/work-tracker/internal/errors"
	"github.com/palpal-apps/work-tracker/internal/report"
	"github.com/palpal-apps/work-tracker/internal/timeutil"
	"github.com/palpal-apps/work-tracker/internal/validation"
)

// FilterFlags carries the report window and narrowing options shared by the
// report and export commands.
type FilterFlags struct {
	Period string
	From   string
	To     string
	Search string
	Tags   []string
}

// ReportCommand handles the report command
type ReportCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewReportCommand creates a new report command handler
func NewReportCommand(app *App) *ReportCommand {
	return &ReportCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the report command
func (c *ReportCommand) Execute(flags FilterFlags) error {
	opts, err := c.app.reportOptions(flags)
	if err != nil {
		return c.errorHandler.HandleSimple(err)
	}

	now := timeNow()
	filtered := report.Filter(c.app.entries.Entries(), opts, now, c.app.location())
	if len(filtered) == 0 {
		fmt.Println("No entries in the selected period")
		return nil
	}

	fmt.Printf("Entries: %d\n", len(filtered))
	fmt.Printf("Total: %s\n", timeutil.FormatDuration(report.Total(filtered, now)))

	stats := report.TagStats(filtered, now)
	if len(stats) > 0 {
		fmt.Println("By tag:")
		for _, stat := range stats {
			fmt.Printf("  %-24s %s\n", stat.Tag, timeutil.FormatDuration(stat.Duration))
		}
	}
	return nil
}

// reportOptions resolves filter flags into report options. The default window
// is the last week; custom requires both bounds.
func (a *App) reportOptions(flags FilterFlags) (report.Options, error) {
	opts := report.Options{
		Period: domain.Period(flags.Period),
		Search: flags.Search,
		Tags:   flags.Tags,
	}
	if flags.Period == "" {
		opts.Period = domain.PeriodWeek
	}
	if !opts.Period.Valid() {
		return report.Options{}, errors.NewInvalidInputError("period", flags.Period,
			"must be day, week, month, or custom")
	}

	if opts.Period != domain.PeriodCustom {
		if flags.From != "" || flags.To != "" {
			return report.Options{}, errors.NewInvalidInputError("period", flags.Period,
				"--from/--to require --period=custom")
		}
		return opts, nil
	}

	loc := a.location()
	start, err := parseDate(flags.From, loc)
	if err != nil {
		return report.Options{}, err
	}
	end, err := parseDate(flags.To, loc)
	if err != nil {
		return report.Options{}, err
	}
	if err := validation.NewEntryValidator().ValidateCustomRange(start, end); err != nil {
		return report.Options{}, err
	}
	opts.CustomStart = start
	opts.CustomEnd = end
	return opts, nil
}

// parseDate parses a YYYY-MM-DD date in the given zone. Empty input yields
// the zero time so range validation can report the missing bound.
func parseDate(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return time.Time{}, errors.NewInvalidInputError("date", value, "must be in YYYY-MM-DD format")
	}
	return t, nil
}
