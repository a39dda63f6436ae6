package services

import (
	"context"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/repository/sqlite"
)

// repositoryRemote persists tasks through a sqlite.Repository. The database
// assigns IDs and timestamps, so its records are authoritative.
type repositoryRemote struct {
	repo   sqlite.Repository
	mapper *domain.Mapper
	now    func() time.Time
}

// NewRepositoryRemote adapts repo to the Remote interface. now stamps
// created, updated and deleted times; nil uses the wall clock in UTC.
func NewRepositoryRemote(repo sqlite.Repository, now func() time.Time) Remote {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &repositoryRemote{
		repo:   repo,
		mapper: domain.NewMapper(),
		now:    now,
	}
}

// CreateTask inserts a new row and returns it as stored.
func (r *repositoryRemote) CreateTask(ctx context.Context, req CreateTaskRequest) (*domain.Task, error) {
	now := r.now()
	row := r.mapper.Task.ToDatabase(domain.Task{
		Title:           req.Title,
		Description:     req.Description,
		DueDate:         req.DueDate,
		Priority:        req.Priority,
		Status:          domain.StatusNotStarted,
		Tags:            req.Tags,
		BackgroundColor: req.BackgroundColor,
		Image:           req.Image,
		CreatedAt:       now,
		UpdatedAt:       now,
	})

	if err := r.repo.CreateTask(ctx, &row); err != nil {
		return nil, err
	}
	return r.get(ctx, row.ID)
}

// UpdateTask writes the full local state of the task.
func (r *repositoryRemote) UpdateTask(ctx context.Context, req UpdateTaskRequest) (*domain.Task, error) {
	row := r.mapper.Task.ToDatabase(req.Task)
	row.ID = req.ID
	if err := r.repo.UpdateTask(ctx, &row); err != nil {
		return nil, err
	}
	return r.get(ctx, req.ID)
}

// DeleteTask soft-deletes the row.
func (r *repositoryRemote) DeleteTask(ctx context.Context, id string) error {
	return r.repo.SoftDeleteTask(ctx, id, r.now())
}

// ListTasks returns every task, deleted ones included, in creation order.
func (r *repositoryRemote) ListTasks(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.repo.ListTasks(ctx, r.mapper.Filter.ToDatabase(domain.TaskFilter{IncludeDeleted: true}))
	if err != nil {
		return nil, err
	}
	return r.mapper.Task.FromDatabaseSlice(rows), nil
}

func (r *repositoryRemote) get(ctx context.Context, id string) (*domain.Task, error) {
	row, err := r.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	task := r.mapper.Task.FromDatabase(*row)
	return &task, nil
}
