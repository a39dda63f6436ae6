package domain

import (
	"taskboard/internal/repository/sqlite"
)

// TaskMapper handles conversion between domain and database Task models.
type TaskMapper struct{}

// NewTaskMapper creates a new TaskMapper instance.
func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

// ToDatabase converts a domain Task to a database Task.
func (m *TaskMapper) ToDatabase(t Task) sqlite.Task {
	c := t.Clone()
	return sqlite.Task{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		DueDate:         DateOf(c.DueDate),
		Priority:        string(c.Priority),
		Status:          string(c.Status),
		Tags:            c.Tags,
		BackgroundColor: c.BackgroundColor,
		Image:           c.Image,
		IsDeleted:       c.IsDeleted,
		CompletedAt:     c.CompletedAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// FromDatabase converts a database Task to a domain Task.
func (m *TaskMapper) FromDatabase(row sqlite.Task) Task {
	t := Task{
		ID:              row.ID,
		Title:           row.Title,
		Description:     row.Description,
		DueDate:         row.DueDate,
		Priority:        Priority(row.Priority),
		Status:          Status(row.Status),
		Tags:            row.Tags,
		BackgroundColor: row.BackgroundColor,
		Image:           row.Image,
		IsDeleted:       row.IsDeleted,
		CompletedAt:     row.CompletedAt,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	return t.Clone()
}

// ToDatabaseSlice converts a slice of domain Tasks to database Tasks.
func (m *TaskMapper) ToDatabaseSlice(tasks []Task) []sqlite.Task {
	rows := make([]sqlite.Task, len(tasks))
	for i, task := range tasks {
		rows[i] = m.ToDatabase(task)
	}
	return rows
}

// FromDatabaseSlice converts database rows to domain Tasks. Nil rows are skipped.
func (m *TaskMapper) FromDatabaseSlice(rows []*sqlite.Task) []Task {
	tasks := make([]Task, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		tasks = append(tasks, m.FromDatabase(*row))
	}
	return tasks
}

// TaskFilterMapper handles conversion between domain filters and database list options.
type TaskFilterMapper struct{}

// NewTaskFilterMapper creates a new TaskFilterMapper instance.
func NewTaskFilterMapper() *TaskFilterMapper {
	return &TaskFilterMapper{}
}

// ToDatabase converts a TaskFilter to sqlite ListOptions.
func (m *TaskFilterMapper) ToDatabase(f TaskFilter) sqlite.ListOptions {
	opts := sqlite.ListOptions{IncludeDeleted: f.IncludeDeleted}
	if f.Status != nil {
		status := string(*f.Status)
		opts.Status = &status
	}
	if f.Title != "" {
		title := f.Title
		opts.TitleLike = &title
	}
	return opts
}

// FromDatabase converts sqlite ListOptions back to a TaskFilter.
func (m *TaskFilterMapper) FromDatabase(opts sqlite.ListOptions) TaskFilter {
	f := TaskFilter{IncludeDeleted: opts.IncludeDeleted}
	if opts.Status != nil {
		status := Status(*opts.Status)
		f.Status = &status
	}
	if opts.TitleLike != nil {
		f.Title = *opts.TitleLike
	}
	return f
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Task   *TaskMapper
	Filter *TaskFilterMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Task:   NewTaskMapper(),
		Filter: NewTaskFilterMapper(),
	}
}
