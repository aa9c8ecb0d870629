package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

// commandTimeout bounds the remote calls a single command may issue.
const commandTimeout = 60 * time.Second

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd *cobra.Command
	app *App
}

// NewRootCommand creates the root cobra command with all subcommands attached
func NewRootCommand(app *App) *RootCommand {
	root := &RootCommand{app: app}

	root.cmd = &cobra.Command{
		Use:   "wt",
		Short: "A command-line work session tracker",
		Long: `Work Tracker (wt) tracks work sessions: clock in, clock out, tag your
time, and report on where it went.

Data lives in a local cache and, when a cloud backend is configured, syncs
best-effort to the PalPal document service or a dedicated S3 bucket. Local
state is the source of truth; a failed sync never loses data.

EXAMPLES:
  wt in Dev,Client                 # Clock in with tags
  wt status                        # Show the running session
  wt out                           # Clock out
  wt tag add Review                # Tag the running session
  wt add 1704099600000 Dev 10:00 11:30   # Record a sub-interval of an entry
  wt list week                     # List this week's entries
  wt report --period=month         # Time per tag this month
  wt export --format=csv           # Export the default report window
  wt demo load                     # Try the tracker with synthetic data

CONFIGURATION:
  Settings load from ~/.wt/config.toml and WT_* environment variables
  (WT_DB_DIR, WT_USER_UID, WT_PALPAL_ENDPOINT, WT_S3_BUCKET, ...).
  Set WT_DEBUG=1 for debug output.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.addSubcommands()
	return root
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.cmd.Execute()
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), commandTimeout)
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	inCmd := &cobra.Command{
		Use:   "in [tags]",
		Short: "Clock in",
		Long:  "Start a new work session, optionally tagged. Comma-separate multiple tags.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewInCommand(r.app).Execute(args)
		},
	}

	outCmd := &cobra.Command{
		Use:   "out",
		Short: "Clock out",
		Long:  "Stop the running work session and record it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			return NewOutCommand(r.app).Execute(ctx, args)
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the running session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewStatusCommand(r.app).Execute(args)
		},
	}

	var tagID int64
	tagCmd := &cobra.Command{
		Use:   "tag",
		Short: "Edit tags on a session",
	}
	tagAddCmd := &cobra.Command{
		Use:   "add <tags>",
		Short: "Add tags to the running session (or --id for a recorded one)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			return NewTagCommand(r.app).Add(ctx, tagID, args)
		},
	}
	tagRmCmd := &cobra.Command{
		Use:   "rm <tags>",
		Short: "Remove tags from the running session (or --id for a recorded one)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			return NewTagCommand(r.app).Remove(ctx, tagID, args)
		},
	}
	tagCmd.PersistentFlags().Int64Var(&tagID, "id", 0, "Target a recorded entry instead of the running session")
	tagCmd.AddCommand(tagAddCmd, tagRmCmd)

	addCmd := &cobra.Command{
		Use:   "add <parent-id> <tag> <clock-in> <clock-out>",
		Short: "Record a tagged sub-interval inside an entry",
		Long: `Record a manually-timed, tagged interval inside an existing session.
Clock times are HH:MM on the session's start date; a clock-out at or before
the clock-in rolls to the next day. The interval must stay within the
session's bounds.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			return NewAddCommand(r.app).Execute(ctx, args)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list [day|week|month]",
		Short: "List entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewListCommand(r.app).Execute(args)
		},
	}

	var reportFlags FilterFlags
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize time per tag",
		Long: `Summarize the selected window: entry count, total time, and time per tag.
A session tagged with several tags counts fully toward each of them, so the
per-tag figures can add up to more than the total.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewReportCommand(r.app).Execute(reportFlags)
		},
	}
	addFilterFlags(reportCmd, &reportFlags)

	var exportFlags FilterFlags
	var exportFormat string
	var exportIDs []int64
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export entries to a file",
		Long: `Export entries as CSV, JSON, or an ICS calendar into the export directory.
CSV and JSON cover the selected report window, or an explicit --id selection;
the calendar always takes the ten most recent sessions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			return NewExportCommand(r.app).Execute(ctx, exportFormat, exportIDs, exportFlags)
		},
	}
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, or ics")
	exportCmd.Flags().Int64SliceVar(&exportIDs, "id", nil, "Export only these entry ids (repeatable)")
	addFilterFlags(exportCmd, &exportFlags)

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Load or clear demo data",
	}
	demoLoadCmd := &cobra.Command{
		Use:   "load",
		Short: "Merge ~30 days of synthetic sessions into the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			return NewDemoCommand(r.app).Load(ctx)
		},
	}
	demoClearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every demo entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			return NewDemoCommand(r.app).Clear(ctx)
		},
	}
	demoCmd.AddCommand(demoLoadCmd, demoClearCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			return NewDeleteCommand(r.app).Execute(ctx, args)
		},
	}

	var clearDate string
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear all data, or one day with --date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			return NewClearCommand(r.app).Execute(ctx, clearDate)
		},
	}
	clearCmd.Flags().StringVar(&clearDate, "date", "", "Remove only entries from this date (YYYY-MM-DD)")

	timezoneCmd := &cobra.Command{
		Use:   "timezone [zone]",
		Short: "Show or set the display timezone",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			return NewTimezoneCommand(r.app).Execute(ctx, args)
		},
	}

	r.cmd.AddCommand(
		inCmd,
		outCmd,
		statusCmd,
		tagCmd,
		addCmd,
		listCmd,
		reportCmd,
		exportCmd,
		demoCmd,
		deleteCmd,
		clearCmd,
		timezoneCmd,
	)
}

// addFilterFlags registers the shared report-window flags on a command.
func addFilterFlags(cmd *cobra.Command, flags *FilterFlags) {
	cmd.Flags().StringVar(&flags.Period, "period", "", "Report window: day, week, month, or custom (default week)")
	cmd.Flags().StringVar(&flags.From, "from", "", "Custom window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.To, "to", "", "Custom window end (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.Search, "search", "", "Keep entries with a tag containing this text")
	cmd.Flags().StringSliceVar(&flags.Tags, "tag", nil, "Keep only entries carrying this tag (repeatable)")
}
