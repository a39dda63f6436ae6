package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taskboard/internal/config"
	"taskboard/internal/repository/sqlite"
)

// Opener builds the App once flags, environment and config file have been
// resolved into cfg.
type Opener func(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) (*App, error)

// DefaultOpener opens the configured SQLite database, or no database at all
// in memory mode.
func DefaultOpener(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) (*App, error) {
	var repo sqlite.Repository
	if cfg.Storage.Mode == config.StorageSQLite {
		r, err := config.CreateRepository(cfg)
		if err != nil {
			return nil, err
		}
		repo = r
	}

	app, err := Build(ctx, cfg, repo, stdout, stderr)
	if err != nil {
		if repo != nil {
			repo.Close()
		}
		return nil, err
	}
	return app, nil
}

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd    *cobra.Command
	open   Opener
	config *config.Config
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(open Opener) *RootCommand {
	if open == nil {
		open = DefaultOpener
	}
	root := &RootCommand{open: open}

	root.cmd = &cobra.Command{
		Use:   "taskboard",
		Short: "A command-line task dashboard",
		Long: `Taskboard keeps a list of tasks with due dates, priorities and a status that
cycles Not Started -> In Progress -> Completed.

EXAMPLES:
  taskboard add "Pay rent" -d "Transfer before the 5th" --due tomorrow -p high
  taskboard list --search rent          # Active and completed tasks matching "rent"
  taskboard cycle 3f2a                  # Advance the status of the task with ID prefix 3f2a
  taskboard stats                       # Due today, overdue and the status breakdown
  taskboard export > tasks.csv          # Export to CSV

CONFIGURATION:
  Configuration follows this priority order:
  command-line flags > environment variables > config file > defaults

  The config file is read from --config, TASKBOARD_CONFIG or ~/.taskboard/config.yaml.

  Database Configuration:
    TASKBOARD_DB_DIR                      Database directory (default: ~/.taskboard)
    TASKBOARD_DB_FILENAME                 Database filename (default: taskboard.db)
    TASKBOARD_DB_QUERY_TIMEOUT            Query timeout (default: 10s)
    TASKBOARD_DB_WRITE_TIMEOUT            Write timeout (default: 5s)

  Storage Configuration:
    TASKBOARD_STORAGE                     sqlite or memory (default: sqlite)
    TASKBOARD_SEED_DEMO                   Seed memory storage with demo tasks (default: false)

  Validation Configuration:
    TASKBOARD_VALIDATION_TITLE_MIN        Min title length (default: 3)
    TASKBOARD_VALIDATION_TITLE_MAX        Max title length (default: 0, unbounded)
    TASKBOARD_VALIDATION_DESCRIPTION_MIN  Min description length (default: 10)
    TASKBOARD_VALIDATION_MAX_IMAGE_BYTES  Max embedded image size (default: 5242880)

  Display Configuration:
    TASKBOARD_DISPLAY_DATE_FORMAT         Date format (default: Jan 2, 2006)
    TASKBOARD_DISPLAY_TIME_FORMAT         Time format (default: 2006-01-02 15:04)
    TASKBOARD_DISPLAY_SORT                due_date, priority, created or title

  Application Configuration:
    TASKBOARD_APP_TIMEOUT                 Command timeout (default: 30s)
    TASKBOARD_APP_VERBOSE                 Log at info level (default: false)
    TASKBOARD_LOG_LEVEL                   debug, info, warn or error (default: warn)
    TASKBOARD_LOG_FORMAT                  text or json (default: text)
    TASKBOARD_DEBUG                       Force debug logging when set`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.loadConfig()
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.cmd.Execute()
}

// ExecuteContext runs the root command with ctx as the parent of every
// command context.
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	return r.cmd.ExecuteContext(ctx)
}

// Command exposes the cobra command, mainly for tests.
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// Config returns the configuration resolved for the last run.
func (r *RootCommand) Config() *config.Config {
	return r.config
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "Config file (overrides TASKBOARD_CONFIG)")

	// Database configuration
	flags.String("db-dir", "", "Database directory (overrides TASKBOARD_DB_DIR)")
	flags.String("db-filename", "", "Database filename (overrides TASKBOARD_DB_FILENAME)")
	flags.Duration("db-query-timeout", 0, "Database query timeout (overrides TASKBOARD_DB_QUERY_TIMEOUT)")
	flags.Duration("db-write-timeout", 0, "Database write timeout (overrides TASKBOARD_DB_WRITE_TIMEOUT)")

	// Storage configuration
	flags.String("storage", "", "Storage mode, sqlite or memory (overrides TASKBOARD_STORAGE)")
	flags.Bool("seed-demo", false, "Seed memory storage with demo tasks (overrides TASKBOARD_SEED_DEMO)")

	// Validation configuration
	flags.Int("title-min-length", 0, "Minimum title length (overrides TASKBOARD_VALIDATION_TITLE_MIN)")
	flags.Int("title-max-length", 0, "Maximum title length, 0 for no limit (overrides TASKBOARD_VALIDATION_TITLE_MAX)")
	flags.Int("description-min-length", 0, "Minimum description length (overrides TASKBOARD_VALIDATION_DESCRIPTION_MIN)")
	flags.Int64("max-image-bytes", 0, "Maximum embedded image size (overrides TASKBOARD_VALIDATION_MAX_IMAGE_BYTES)")

	// Display configuration
	flags.String("date-format", "", "Date display format (overrides TASKBOARD_DISPLAY_DATE_FORMAT)")
	flags.String("time-format", "", "Time display format (overrides TASKBOARD_DISPLAY_TIME_FORMAT)")
	flags.String("default-sort", "", "Default list order (overrides TASKBOARD_DISPLAY_SORT)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Command timeout (overrides TASKBOARD_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable verbose logging (overrides TASKBOARD_APP_VERBOSE)")
	flags.String("log-level", "", "Log level (overrides TASKBOARD_LOG_LEVEL)")
	flags.String("log-format", "", "Log format, text or json (overrides TASKBOARD_LOG_FORMAT)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	// Add command
	var add AddOptions
	addCmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Create a task",
		Long: `Create a task. The title comes from the arguments.

Due dates accept 2006-01-02, "Jan 2 2006", RFC3339, today, tomorrow or yesterday.
--image takes a local file (embedded as a data URL) or a URL.

Example:
  taskboard add Walk the dog -d "Take the dog to the park" --due today -p low -t home`,
		Args: cobra.MinimumNArgs(1),
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			add.Title = strings.Join(args, " ")
			return NewAddCommand(app).Execute(ctx, add)
		}),
	}
	addCmd.Flags().StringVarP(&add.Description, "description", "d", "", "Task description")
	addCmd.Flags().StringVar(&add.Due, "due", "", "Due date")
	addCmd.Flags().StringVarP(&add.Priority, "priority", "p", "", "Priority: high, medium or low")
	addCmd.Flags().StringSliceVarP(&add.Tags, "tag", "t", nil, "Tag, repeatable or comma-separated")
	addCmd.Flags().StringVar(&add.Color, "color", "", "Card colour as #RRGGBB")
	addCmd.Flags().StringVar(&add.Image, "image", "", "Image file or URL")

	// List command
	var list ListOptions
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List active and completed tasks",
		Long: `List active and completed tasks. Deleted tasks are never shown.

--search matches title, description and tags, ignoring case.`,
		Args: cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewListCommand(app).Execute(ctx, list)
		}),
	}
	listCmd.Flags().StringVarP(&list.Search, "search", "s", "", "Search text")
	listCmd.Flags().StringVar(&list.Status, "status", "", "Only tasks with this status")
	listCmd.Flags().StringVar(&list.Sort, "sort", "", "Order: due_date, priority, created or title")

	// Show command
	showCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewShowCommand(app).Execute(ctx, args[0])
		}),
	}

	// Edit command
	var (
		editTitle, editDescription, editDue, editPriority string
		editStatus, editColor, editImage                  string
		editTags                                          []string
	)
	editCmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Change task fields",
		Long:  "Change the fields given as flags and leave the rest untouched.",
		Args:  cobra.ExactArgs(1),
	}
	editCmd.RunE = r.run(func(ctx context.Context, app *App, args []string) error {
		changed := editCmd.Flags().Changed
		var opts EditOptions
		if changed("title") {
			opts.Title = &editTitle
		}
		if changed("description") {
			opts.Description = &editDescription
		}
		if changed("due") {
			opts.Due = &editDue
		}
		if changed("priority") {
			opts.Priority = &editPriority
		}
		if changed("status") {
			opts.Status = &editStatus
		}
		if changed("tag") {
			opts.Tags = &editTags
		}
		if changed("color") {
			opts.Color = &editColor
		}
		if changed("image") {
			opts.Image = &editImage
		}
		return NewEditCommand(app).Execute(ctx, args[0], opts)
	})
	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVarP(&editDescription, "description", "d", "", "New description")
	editCmd.Flags().StringVar(&editDue, "due", "", "New due date")
	editCmd.Flags().StringVarP(&editPriority, "priority", "p", "", "New priority")
	editCmd.Flags().StringVar(&editStatus, "status", "", "New status")
	editCmd.Flags().StringSliceVarP(&editTags, "tag", "t", nil, "Replace tags; pass an empty value to clear")
	editCmd.Flags().StringVar(&editColor, "color", "", "New card colour")
	editCmd.Flags().StringVar(&editImage, "image", "", "New image file or URL")

	// Delete command
	deleteCmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a task",
		Long:  "Hide a task from every list. The record is kept in storage.",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewDeleteCommand(app).Execute(ctx, args[0])
		}),
	}

	// Cycle command
	cycleCmd := &cobra.Command{
		Use:   "cycle [id]",
		Short: "Advance a task to its next status",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewCycleCommand(app).Execute(ctx, args[0])
		}),
	}

	// Restore command
	restoreCmd := &cobra.Command{
		Use:   "restore [id]",
		Short: "Reopen a completed task",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewRestoreCommand(app).Execute(ctx, args[0])
		}),
	}

	// Color command
	colorCmd := &cobra.Command{
		Use:   "color [id] [#RRGGBB|none]",
		Short: "Change a task's card colour, or list the palette",
		Args:  cobra.MaximumNArgs(2),
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewColorCommand(app).Execute(ctx, args)
		}),
	}

	// Stats command
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show today's and per-status counts",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewStatsCommand(app).Execute(ctx)
		}),
	}

	// Export command
	var export ExportOptions
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks",
		Long: `Export tasks to standard output.

Supported formats:
  csv - Comma-separated values format`,
		Args: cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewExportCommand(app).Execute(ctx, export)
		}),
	}
	exportCmd.Flags().StringVar(&export.Format, "format", "csv", "Output format")
	exportCmd.Flags().BoolVar(&export.IncludeDeleted, "include-deleted", false, "Include deleted tasks")

	// Seed command
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Store the demo task set",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewSeedCommand(app).Execute(ctx)
		}),
	}

	r.cmd.AddCommand(
		addCmd,
		listCmd,
		showCmd,
		editCmd,
		deleteCmd,
		cycleCmd,
		restoreCmd,
		colorCmd,
		statsCmd,
		exportCmd,
		seedCmd,
	)
}

// run opens the app for one command and bounds it with the application
// timeout.
func (r *RootCommand) run(fn func(ctx context.Context, app *App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
		defer cancel()

		app, err := r.open(ctx, r.config, cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("failed to start: %w", err)
		}
		defer app.Close()

		return fn(ctx, app, args)
	}
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil {
		return r.config.Application.Timeout
	}
	return 30 * time.Second
}

// loadConfig resolves defaults, config file, environment and flags.
func (r *RootCommand) loadConfig() error {
	loader := config.NewLoader()
	if path, _ := r.cmd.PersistentFlags().GetString("config"); path != "" {
		loader.WithFile(path)
	}

	cfg, err := loader.LoadWithOverrides(r.overridesFromFlags())
	if err != nil {
		return err
	}
	r.config = cfg
	return nil
}

// overridesFromFlags collects the global flags the user actually set.
func (r *RootCommand) overridesFromFlags() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()
	o := &config.ConfigOverrides{}

	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	dur := func(name string) *time.Duration {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetDuration(name)
		return &v
	}
	integer := func(name string) *int {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetInt(name)
		return &v
	}
	boolean := func(name string) *bool {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetBool(name)
		return &v
	}

	// Database configuration
	o.DBDir = str("db-dir")
	o.DBFilename = str("db-filename")
	o.DBQueryTimeout = dur("db-query-timeout")
	o.DBWriteTimeout = dur("db-write-timeout")

	// Storage configuration
	o.StorageMode = str("storage")
	o.SeedDemo = boolean("seed-demo")

	// Validation configuration
	o.TitleMinLength = integer("title-min-length")
	o.TitleMaxLength = integer("title-max-length")
	o.DescriptionMinLength = integer("description-min-length")
	if flags.Changed("max-image-bytes") {
		v, _ := flags.GetInt64("max-image-bytes")
		o.MaxImageBytes = &v
	}

	// Display configuration
	o.DateFormat = str("date-format")
	o.TimeFormat = str("time-format")
	o.SortOrder = str("default-sort")

	// Application configuration
	o.Timeout = dur("app-timeout")
	o.Verbose = boolean("verbose")
	o.LogLevel = str("log-level")
	o.LogFormat = str("log-format")

	return o
}
