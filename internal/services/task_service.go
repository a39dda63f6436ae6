package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/domain"
	"taskboard/internal/errors"
	"taskboard/internal/store"
	"taskboard/internal/validation"
)

// TaskServiceOption configures a TaskService.
type TaskServiceOption func(*taskServiceImpl)

// WithRemote sets the persistence boundary. Without one every mutation is
// final as soon as it reaches the store.
func WithRemote(remote Remote) TaskServiceOption {
	return func(t *taskServiceImpl) {
		t.remote = remote
	}
}

// WithLogger sets the logger used for sync failures.
func WithLogger(logger *slog.Logger) TaskServiceOption {
	return func(t *taskServiceImpl) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithIDGenerator replaces the UUID generator used for new tasks.
func WithIDGenerator(newID func() string) TaskServiceOption {
	return func(t *taskServiceImpl) {
		if newID != nil {
			t.newID = newID
		}
	}
}

// WithValidationRules overrides the default input limits.
func WithValidationRules(rules validation.Rules) TaskServiceOption {
	return func(t *taskServiceImpl) {
		t.taskValidator = validation.NewTaskValidatorWithRules(rules)
	}
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	store         *store.Store
	remote        Remote
	taskValidator *validation.TaskValidator
	newID         func() string
	logger        *slog.Logger
}

// NewTaskService creates a new TaskService instance over st.
func NewTaskService(st *store.Store, opts ...TaskServiceOption) TaskService {
	t := &taskServiceImpl{
		store:         st,
		taskValidator: validation.NewTaskValidator(),
		newID:         uuid.NewString,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Load fills the store from the remote. Without a remote it does nothing.
func (t *taskServiceImpl) Load(ctx context.Context) error {
	if t.remote == nil {
		return nil
	}
	tasks, err := t.remote.ListTasks(ctx)
	if err != nil {
		return errors.WrapError(err, errors.ErrorTypeSync, "failed to load tasks")
	}
	if err := t.store.Load(tasks); err != nil {
		return err
	}
	t.logger.Info("tasks loaded", slog.Int("count", len(tasks)))
	return nil
}

// Create validates the form, inserts a Not Started task and syncs it.
func (t *taskServiceImpl) Create(ctx context.Context, form domain.TaskFormData) (*MutationResult, error) {
	due, err := t.taskValidator.ValidateForm(form)
	if err != nil {
		return nil, errors.NewValidationError("invalid task", err)
	}

	task := domain.NewTask(t.newID(), form, due, t.store.Now())
	if err := t.store.Insert(task); err != nil {
		return nil, err
	}
	t.logger.Debug("task created", slog.String("task_id", task.ID))

	if t.remote == nil {
		return &MutationResult{Task: task, Sync: SyncLocal}, nil
	}

	saved, err := t.remote.CreateTask(ctx, CreateTaskRequest{
		Title:           task.Title,
		Description:     task.Description,
		DueDate:         task.DueDate,
		Priority:        task.Priority,
		Tags:            task.Tags,
		BackgroundColor: task.BackgroundColor,
		Image:           task.Image,
	})
	if err != nil {
		if removeErr := t.store.Remove(task.ID); removeErr != nil {
			t.logger.Error("rollback of create failed", slog.String("task_id", task.ID), slog.Any("err", removeErr))
		}
		return t.rolledBack("create", task, err), nil
	}
	if err := t.store.Replace(task.ID, *saved); err != nil {
		return t.unreconciled("create", task, saved.ID, err), nil
	}
	return &MutationResult{Task: saved.Clone(), Sync: SyncConfirmed}, nil
}

// Update validates and merges the provided fields.
func (t *taskServiceImpl) Update(ctx context.Context, id string, patch domain.TaskPatch) (*MutationResult, error) {
	if err := t.taskValidator.ValidateTaskID(id); err != nil {
		return nil, errors.NewValidationError("invalid task id", err)
	}
	if err := t.taskValidator.ValidatePatch(patch); err != nil {
		return nil, errors.NewValidationError("invalid task update", err)
	}

	return t.mutate(ctx, "update", id, patch, func(task *domain.Task, now time.Time) error {
		task.ApplyPatch(patch, now)
		return nil
	})
}

// SoftDelete flags the task as deleted. Deleting twice is a successful no-op.
func (t *taskServiceImpl) SoftDelete(ctx context.Context, id string) (*MutationResult, error) {
	if err := t.taskValidator.ValidateTaskID(id); err != nil {
		return nil, errors.NewValidationError("invalid task id", err)
	}

	before, after, err := t.store.Apply(id, func(task *domain.Task, _ time.Time) error {
		if task.IsDeleted {
			return store.ErrNoChange
		}
		task.IsDeleted = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if before.IsDeleted {
		return &MutationResult{Task: after, Sync: t.idleSync()}, nil
	}
	t.logger.Debug("task deleted", slog.String("task_id", id))

	if t.remote == nil {
		return &MutationResult{Task: after, Sync: SyncLocal}, nil
	}
	if err := t.remote.DeleteTask(ctx, id); err != nil {
		return t.restore("delete", before, err), nil
	}
	return &MutationResult{Task: after, Sync: SyncConfirmed}, nil
}

// CycleStatus advances Not Started -> In Progress -> Completed -> Not Started.
func (t *taskServiceImpl) CycleStatus(ctx context.Context, id string) (*MutationResult, error) {
	if err := t.taskValidator.ValidateTaskID(id); err != nil {
		return nil, errors.NewValidationError("invalid task id", err)
	}

	current, ok := t.store.Get(id)
	if !ok {
		return nil, errors.NewNotFoundError("task", id)
	}
	next := current.Status.Next()

	return t.mutate(ctx, "status change", id, domain.TaskPatch{Status: &next}, func(task *domain.Task, now time.Time) error {
		task.SetStatus(next, now)
		return nil
	})
}

// Restore moves a completed task back to In Progress.
func (t *taskServiceImpl) Restore(ctx context.Context, id string) (*MutationResult, error) {
	if err := t.taskValidator.ValidateTaskID(id); err != nil {
		return nil, errors.NewValidationError("invalid task id", err)
	}

	status := domain.StatusInProgress
	return t.mutate(ctx, "restore", id, domain.TaskPatch{Status: &status}, func(task *domain.Task, now time.Time) error {
		if !task.IsCompleted() {
			ve := validation.NewValidationError()
			ve.AddInvalidValueError(validation.FieldStatus, task.Status, "only completed tasks can be restored")
			return errors.NewValidationError("task is not completed", ve)
		}
		task.SetStatus(status, now)
		return nil
	})
}

// ChangeColor sets the card background colour; an empty colour clears it.
func (t *taskServiceImpl) ChangeColor(ctx context.Context, id string, color string) (*MutationResult, error) {
	if err := t.taskValidator.ValidateTaskID(id); err != nil {
		return nil, errors.NewValidationError("invalid task id", err)
	}
	if err := t.taskValidator.ValidateColor(color); err != nil {
		return nil, errors.NewValidationError("invalid colour", err)
	}

	normalized := domain.NormalizeColor(color)
	return t.mutate(ctx, "colour change", id, domain.TaskPatch{BackgroundColor: &normalized}, func(task *domain.Task, _ time.Time) error {
		task.BackgroundColor = normalized
		return nil
	})
}

// Get returns the task with the given ID, deleted or not.
func (t *taskServiceImpl) Get(ctx context.Context, id string) (*domain.Task, error) {
	task, ok := t.store.Get(id)
	if !ok {
		return nil, errors.NewNotFoundError("task", id)
	}
	return &task, nil
}

// mutate applies change locally, then confirms it with the remote and
// installs the authoritative record, or restores the previous state.
func (t *taskServiceImpl) mutate(ctx context.Context, operation, id string, patch domain.TaskPatch, change func(*domain.Task, time.Time) error) (*MutationResult, error) {
	before, after, err := t.store.Apply(id, change)
	if err != nil {
		return nil, err
	}
	t.logger.Debug("task changed", slog.String("task_id", id), slog.String("operation", operation))

	if t.remote == nil {
		return &MutationResult{Task: after, Sync: SyncLocal}, nil
	}

	saved, err := t.remote.UpdateTask(ctx, UpdateTaskRequest{ID: id, Patch: patch, Task: after.Clone()})
	if err != nil {
		return t.restore(operation, before, err), nil
	}
	if err := t.store.Replace(id, *saved); err != nil {
		return t.unreconciled(operation, after, saved.ID, err), nil
	}
	return &MutationResult{Task: saved.Clone(), Sync: SyncConfirmed}, nil
}

// restore puts previous back in the store after the remote refused a change.
func (t *taskServiceImpl) restore(operation string, previous domain.Task, cause error) *MutationResult {
	if err := t.store.Replace(previous.ID, previous); err != nil {
		t.logger.Error("rollback failed", slog.String("task_id", previous.ID), slog.String("operation", operation), slog.Any("err", err))
	}
	return t.rolledBack(operation, previous, cause)
}

func (t *taskServiceImpl) rolledBack(operation string, task domain.Task, cause error) *MutationResult {
	syncErr := errors.NewSyncError(operation, task.ID, cause)
	t.logger.Warn("change rolled back",
		slog.String("task_id", task.ID),
		slog.String("operation", operation),
		slog.Any("err", cause),
	)
	return &MutationResult{Task: task, Sync: SyncRolledBack, SyncErr: syncErr}
}

// unreconciled reports a change the remote saved as remoteID while the store
// still holds the tentative task.
func (t *taskServiceImpl) unreconciled(operation string, task domain.Task, remoteID string, cause error) *MutationResult {
	t.logger.Warn("remote record not installed",
		slog.String("task_id", task.ID),
		slog.String("remote_id", remoteID),
		slog.String("operation", operation),
		slog.Any("err", cause),
	)
	return &MutationResult{Task: task, Sync: SyncUnreconciled, SyncErr: errors.NewReconcileError(operation, task.ID, cause)}
}

// idleSync is the state reported when nothing needed syncing.
func (t *taskServiceImpl) idleSync() SyncState {
	if t.remote == nil {
		return SyncLocal
	}
	return SyncConfirmed
}
