package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"taskboard/internal/api"
	"taskboard/internal/config"
	"taskboard/internal/domain"
	"taskboard/internal/errors"
	"taskboard/internal/logging"
	"taskboard/internal/repository/sqlite"
	"taskboard/internal/seed"
	"taskboard/internal/services"
	"taskboard/internal/store"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// App represents the main CLI application
type App struct {
	dashboard api.Dashboard
	config    *config.Config
	repo      sqlite.Repository
	logger    *slog.Logger
	out       io.Writer
	errOut    io.Writer
	errors    *ErrorHandler
}

// AppOption configures an App.
type AppOption func(*App)

// WithOutput sets where command output and warnings go.
func WithOutput(out, errOut io.Writer) AppOption {
	return func(a *App) {
		a.out = out
		a.errOut = errOut
	}
}

// WithRepository gives the app direct access to the database, used by seed.
func WithRepository(repo sqlite.Repository) AppOption {
	return func(a *App) {
		a.repo = repo
	}
}

// WithAppLogger sets the logger used for command diagnostics.
func WithAppLogger(logger *slog.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// NewApp creates a new CLI application instance with dependency injection
func NewApp(dashboard api.Dashboard, cfg *config.Config, opts ...AppOption) *App {
	app := &App{
		dashboard: dashboard,
		config:    cfg,
		logger:    logging.Discard(),
		out:       os.Stdout,
		errOut:    os.Stderr,
		errors:    NewErrorHandler(),
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Build wires a store, task service and dashboard for cfg. With a repository
// the board is loaded from it and every change is synced back; without one
// the board lives in memory, optionally seeded with the demo set.
func Build(ctx context.Context, cfg *config.Config, repo sqlite.Repository, stdout, stderr io.Writer) (*App, error) {
	level := cfg.Application.LogLevel
	if cfg.Application.Verbose && (level == "" || level == "warn" || level == "error") {
		level = "info"
	}
	logger, err := logging.New(stderr, logging.Options{
		Level:  level,
		Format: cfg.Application.LogFormat,
	})
	if err != nil {
		return nil, err
	}

	st := store.New(
		store.WithClock(func() time.Time { return timeNow().UTC() }),
		store.WithLogger(logger),
	)

	serviceOpts := []services.TaskServiceOption{
		services.WithLogger(logger),
		services.WithValidationRules(cfg.ValidationRules()),
	}
	if repo != nil {
		serviceOpts = append(serviceOpts, services.WithRemote(services.NewRepositoryRemote(repo, st.Now)))
	}

	dashboard := api.New(st, services.NewTaskService(st, serviceOpts...), api.WithClock(func() time.Time { return timeNow() }))
	if order, ok := services.ParseSortOrder(cfg.Display.SortOrder); ok {
		dashboard.SetSortOrder(order)
	} else {
		logger.Warn("unknown sort order, using due date", slog.String("sort_order", cfg.Display.SortOrder))
	}

	if repo != nil {
		if err := dashboard.Load(ctx); err != nil {
			return nil, err
		}
	} else if cfg.Storage.SeedDemo {
		tasks, err := seed.DemoTasks(st.Now())
		if err != nil {
			return nil, err
		}
		if err := st.Load(tasks); err != nil {
			return nil, err
		}
	}

	return NewApp(dashboard, cfg,
		WithOutput(stdout, stderr),
		WithRepository(repo),
		WithAppLogger(logger),
	), nil
}

// Dashboard returns the dashboard the commands drive.
func (a *App) Dashboard() api.Dashboard {
	return a.dashboard
}

// Close releases the repository, if any.
func (a *App) Close() error {
	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}

// resolveID accepts a full task ID or an unambiguous prefix of one, the way
// IDs are shown in listings.
func (a *App) resolveID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errors.NewInvalidInputError("id", ref, "task id is required")
	}

	var matches []string
	for _, task := range a.dashboard.Snapshot() {
		if task.ID == ref {
			return ref, nil
		}
		if strings.HasPrefix(task.ID, ref) {
			matches = append(matches, task.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", errors.NewNotFoundError("task", ref)
	case 1:
		return matches[0], nil
	default:
		return "", errors.NewInvalidInputError("id", ref, fmt.Sprintf("prefix matches %d tasks", len(matches)))
	}
}

// report prints the outcome line of a mutation and, when the remote refused
// the change, a warning that it was rolled back.
func (a *App) report(verb string, res *services.MutationResult) {
	if res.RolledBack() {
		fmt.Fprintf(a.errOut, "warning: %s\n", a.errors.SyncWarning(res.SyncErr))
		return
	}
	fmt.Fprintf(a.out, "%s task %s: %s\n", verb, shortID(res.Task.ID), res.Task.Title)
	if res.Unreconciled() {
		fmt.Fprintf(a.errOut, "warning: %s\n", a.errors.SyncWarning(res.SyncErr))
	}
}

// now is the reference time for views, in the local zone so "today" matches
// the user's calendar.
func (a *App) now() time.Time {
	return timeNow()
}

func (a *App) dateFormat() string {
	if a.config != nil && a.config.Display.DateFormat != "" {
		return a.config.Display.DateFormat
	}
	return "Jan 2, 2006"
}

func (a *App) timeFormat() string {
	if a.config != nil && a.config.Display.TimeFormat != "" {
		return a.config.Display.TimeFormat
	}
	return "2006-01-02 15:04"
}

// shortID trims UUIDs to their first block for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "#" + strings.Join(tags, " #")
}

func statusMarker(task domain.Task) string {
	switch task.Status {
	case domain.StatusCompleted:
		return "[x]"
	case domain.StatusInProgress:
		return "[~]"
	default:
		return "[ ]"
	}
}
