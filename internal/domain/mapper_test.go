package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/repository/sqlite"
)

func sampleTask() Task {
	created := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	completed := created.Add(time.Hour)
	return Task{
		ID:              "t-1",
		Title:           "Write report",
		Description:     "Quarterly numbers for finance",
		DueDate:         time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		Priority:        PriorityHigh,
		Status:          StatusCompleted,
		Tags:            []string{"work"},
		BackgroundColor: "#FFF3E0",
		CompletedAt:     &completed,
		CreatedAt:       created,
		UpdatedAt:       completed,
	}
}

func TestTaskMapper_ToDatabase(t *testing.T) {
	mapper := NewTaskMapper()
	task := sampleTask()

	row := mapper.ToDatabase(task)

	assert.Equal(t, "t-1", row.ID)
	assert.Equal(t, "High", row.Priority)
	assert.Equal(t, "Completed", row.Status)
	assert.Equal(t, []string{"work"}, row.Tags)
	require.NotNil(t, row.CompletedAt)
	assert.Equal(t, *task.CompletedAt, *row.CompletedAt)

	row.Tags[0] = "changed"
	assert.Equal(t, "work", task.Tags[0], "row must not share the tag slice")
}

func TestTaskMapper_RoundTrip(t *testing.T) {
	mapper := NewTaskMapper()
	task := sampleTask()

	assert.Equal(t, task, mapper.FromDatabase(mapper.ToDatabase(task)))
}

func TestTaskMapper_FromDatabaseSlice(t *testing.T) {
	mapper := NewTaskMapper()
	rows := []*sqlite.Task{
		{ID: "a", Title: "Task A", Priority: "Low", Status: "Not Started"},
		nil,
		{ID: "b", Title: "Task B", Priority: "High", Status: "In Progress"},
	}

	tasks := mapper.FromDatabaseSlice(rows)

	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].ID)
	assert.Equal(t, PriorityLow, tasks[0].Priority)
	assert.Equal(t, StatusInProgress, tasks[1].Status)
}

func TestTaskMapper_ToDatabaseSlice(t *testing.T) {
	mapper := NewTaskMapper()

	rows := mapper.ToDatabaseSlice([]Task{{ID: "a"}, {ID: "b"}})

	require.Len(t, rows, 2)
	assert.Equal(t, "b", rows[1].ID)
}

func TestTaskFilterMapper(t *testing.T) {
	mapper := NewTaskFilterMapper()
	status := StatusCompleted

	tests := []struct {
		name   string
		filter TaskFilter
		check  func(t *testing.T, opts sqlite.ListOptions)
	}{
		{
			name:   "zero filter",
			filter: TaskFilter{},
			check: func(t *testing.T, opts sqlite.ListOptions) {
				assert.Equal(t, sqlite.ListOptions{}, opts)
			},
		},
		{
			name:   "all fields",
			filter: TaskFilter{IncludeDeleted: true, Status: &status, Title: "report"},
			check: func(t *testing.T, opts sqlite.ListOptions) {
				assert.True(t, opts.IncludeDeleted)
				require.NotNil(t, opts.Status)
				assert.Equal(t, "Completed", *opts.Status)
				require.NotNil(t, opts.TitleLike)
				assert.Equal(t, "report", *opts.TitleLike)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := mapper.ToDatabase(tt.filter)
			tt.check(t, opts)
			assert.Equal(t, tt.filter, mapper.FromDatabase(opts))
		})
	}
}

func TestNewMapper(t *testing.T) {
	m := NewMapper()
	assert.NotNil(t, m.Task)
	assert.NotNil(t, m.Filter)
}
