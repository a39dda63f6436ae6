package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	apperrors "taskboard/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := New(filepath.Join(t.TempDir(), "taskboard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func newTask(title string, created time.Time) *Task {
	return &Task{
		Title:       title,
		Description: "A description long enough",
		DueDate:     time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		Priority:    "Medium",
		Status:      "Not Started",
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestCreateTask(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	created := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	task := newTask("Write report", created)
	task.Tags = []string{"work", "q1"}
	task.BackgroundColor = "#FFB3BA"
	require.NoError(t, repo.CreateTask(ctx, task))
	assert.NotEmpty(t, task.ID)

	got, err := repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Title, got.Title)
	assert.Equal(t, task.DueDate, got.DueDate)
	assert.Equal(t, []string{"work", "q1"}, got.Tags)
	assert.Equal(t, "#FFB3BA", got.BackgroundColor)
	assert.True(t, created.Equal(got.CreatedAt))
	assert.Nil(t, got.CompletedAt)
}

func TestCreateTask_DuplicateID(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	task := newTask("First", time.Now())
	task.ID = "fixed"
	require.NoError(t, repo.CreateTask(ctx, task))

	dup := newTask("Second", time.Now())
	dup.ID = "fixed"
	err := repo.CreateTask(ctx, dup)
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConflict))
}

func TestGetTask_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetTask(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
	assert.Contains(t, err.Error(), "not found")
}

func TestListTasks(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	first := newTask("Alpha report", base)
	second := newTask("Beta launch", base.Add(time.Hour))
	second.Status = "Completed"
	third := newTask("Gamma report", base.Add(2*time.Hour))
	for _, task := range []*Task{third, first, second} {
		require.NoError(t, repo.CreateTask(ctx, task))
	}
	require.NoError(t, repo.SoftDeleteTask(ctx, third.ID, base.Add(3*time.Hour)))

	completed := "Completed"
	report := "report"

	tests := []struct {
		name string
		opts ListOptions
		want []string
	}{
		{"live only", ListOptions{}, []string{"Alpha report", "Beta launch"}},
		{"include deleted", ListOptions{IncludeDeleted: true}, []string{"Alpha report", "Beta launch", "Gamma report"}},
		{"by status", ListOptions{Status: &completed}, []string{"Beta launch"}},
		{"by title", ListOptions{TitleLike: &report, IncludeDeleted: true}, []string{"Alpha report", "Gamma report"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := repo.ListTasks(ctx, tt.opts)
			require.NoError(t, err)
			var titles []string
			for _, task := range tasks {
				titles = append(titles, task.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestUpdateTask(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	created := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	task := newTask("Write report", created)
	require.NoError(t, repo.CreateTask(ctx, task))

	done := created.Add(2 * time.Hour)
	task.Status = "Completed"
	task.CompletedAt = &done
	task.UpdatedAt = done
	task.Tags = []string{"done"}
	require.NoError(t, repo.UpdateTask(ctx, task))

	got, err := repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Completed", got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, done.Equal(*got.CompletedAt))
	assert.True(t, done.Equal(got.UpdatedAt))
	assert.Equal(t, []string{"done"}, got.Tags)

	missing := newTask("Ghost", created)
	missing.ID = "missing"
	err = repo.UpdateTask(ctx, missing)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestSoftDeleteTask(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	created := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	task := newTask("Write report", created)
	require.NoError(t, repo.CreateTask(ctx, task))

	deletedAt := created.Add(time.Hour)
	require.NoError(t, repo.SoftDeleteTask(ctx, task.ID, deletedAt))
	require.NoError(t, repo.SoftDeleteTask(ctx, task.ID, deletedAt.Add(time.Hour)))

	got, err := repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)
	assert.True(t, deletedAt.Equal(got.UpdatedAt), "second delete must not touch updated_at")

	err = repo.SoftDeleteTask(ctx, "missing", deletedAt)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestNewWithOptions_Timeouts(t *testing.T) {
	repo, err := NewWithOptions(filepath.Join(t.TempDir(), "taskboard.db"), Options{
		QueryTimeout: time.Second,
		WriteTimeout: time.Second,
	})
	require.NoError(t, err)
	defer repo.Close()

	task := newTask("Timed", time.Now())
	require.NoError(t, repo.CreateTask(context.Background(), task))

	tasks, err := repo.ListTasks(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}
