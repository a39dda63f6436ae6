package sqlite

import "time"

// Task is the row shape of the tasks table.
type Task struct {
	ID              string
	Title           string
	Description     string
	DueDate         time.Time
	Priority        string
	Status          string
	Tags            []string
	BackgroundColor string
	Image           string
	IsDeleted       bool
	CompletedAt     *time.Time // NULL unless the task is completed
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ListOptions filters ListTasks. The zero value lists live tasks only.
type ListOptions struct {
	IncludeDeleted bool
	Status         *string
	TitleLike      *string
}
