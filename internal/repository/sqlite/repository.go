package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/errors"
	"taskboard/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Repository defines the interface for database operations
type Repository interface {
	// Create operations
	CreateTask(ctx context.Context, task *Task) error

	// Read operations
	GetTask(ctx context.Context, id string) (*Task, error)
	ListTasks(ctx context.Context, opts ListOptions) ([]*Task, error)

	// Update operations
	UpdateTask(ctx context.Context, task *Task) error
	SoftDeleteTask(ctx context.Context, id string, at time.Time) error

	// Utility
	Close() error
}

// Options tunes a SQLiteRepository. Zero timeouts disable the per-call limit.
type Options struct {
	QueryTimeout time.Duration
	WriteTimeout time.Duration
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db   *sql.DB
	opts Options
}

// New creates a new SQLite repository instance
func New(dbPath string) (*SQLiteRepository, error) {
	return NewWithOptions(dbPath, Options{})
}

// NewWithOptions opens the database at dbPath, runs pending migrations and
// applies the given timeouts to every call.
func NewWithOptions(dbPath string, opts Options) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}
	db.SetMaxOpenConns(1) // prevent SQLITE_BUSY

	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{db: db, opts: opts}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) readContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opts.QueryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.opts.QueryTimeout)
}

func (r *SQLiteRepository) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opts.WriteTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.opts.WriteTimeout)
}

// CreateTask inserts a task. An empty ID is replaced with a new UUID and
// zero timestamps with the current time.
func (r *SQLiteRepository) CreateTask(ctx context.Context, task *Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.CreatedAt.IsZero() {
		now := time.Now().UTC()
		task.CreatedAt = now
		task.UpdatedAt = now
	}

	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	query := `
	INSERT INTO tasks (` + taskColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.Title, task.Description, FormatDateForDB(task.DueDate),
		task.Priority, task.Status, FormatTagsForDB(task.Tags),
		task.BackgroundColor, task.Image, boolToInt(task.IsDeleted),
		FormatTimePtrForDB(task.CompletedAt),
		FormatTimeForDB(task.CreatedAt), FormatTimeForDB(task.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return errors.NewConflictError("task", task.ID)
		}
		return HandleDatabaseError("insert task", err)
	}
	return nil
}

// GetTask retrieves a task by ID, including soft-deleted ones.
func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (*Task, error) {
	ctx, cancel := r.readContext(ctx)
	defer cancel()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	return QuerySingle(ctx, r.db, query, ScanTask, "task", id, id)
}

// ListTasks retrieves tasks in creation order.
func (r *SQLiteRepository) ListTasks(ctx context.Context, opts ListOptions) ([]*Task, error) {
	ctx, cancel := r.readContext(ctx)
	defer cancel()

	var conditions []string
	var args []interface{}

	if !opts.IncludeDeleted {
		conditions = append(conditions, "is_deleted = 0")
	}
	if opts.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *opts.Status)
	}
	if opts.TitleLike != nil && *opts.TitleLike != "" {
		conditions = append(conditions, "title LIKE ?")
		args = append(args, "%"+*opts.TitleLike+"%")
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"

	return QueryMultiple(ctx, r.db, query, ScanTasks, "tasks", args...)
}

// UpdateTask overwrites every mutable column of an existing task.
func (r *SQLiteRepository) UpdateTask(ctx context.Context, task *Task) error {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	query := `
	UPDATE tasks
	SET title = ?, description = ?, due_date = ?, priority = ?, status = ?, tags = ?,
		background_color = ?, image = ?, is_deleted = ?, completed_at = ?, updated_at = ?
	WHERE id = ?`

	return ExecuteWithRowsAffected(ctx, r.db, query, "task", task.ID,
		task.Title, task.Description, FormatDateForDB(task.DueDate), task.Priority, task.Status,
		FormatTagsForDB(task.Tags), task.BackgroundColor, task.Image, boolToInt(task.IsDeleted),
		FormatTimePtrForDB(task.CompletedAt), FormatTimeForDB(task.UpdatedAt),
		task.ID,
	)
}

// SoftDeleteTask flags a task as deleted. Deleting an already deleted task
// leaves its row untouched and succeeds.
func (r *SQLiteRepository) SoftDeleteTask(ctx context.Context, id string, at time.Time) error {
	existing, err := r.GetTask(ctx, id)
	if err != nil {
		return err
	}
	if existing.IsDeleted {
		return nil
	}

	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	query := `UPDATE tasks SET is_deleted = 1, updated_at = ? WHERE id = ?`
	return ExecuteWithRowsAffected(ctx, r.db, query, "task", id, FormatTimeForDB(at), id)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
