package sqlite

import (
	"database/sql"
	"fmt"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// taskColumns must stay in the order ScanTask reads them.
const taskColumns = `id, title, description, due_date, priority, status, tags,
	background_color, image, is_deleted, completed_at, created_at, updated_at`

// ScanTask scans a single task from a database row
func ScanTask(scanner Scanner) (*Task, error) {
	task := &Task{}
	var (
		dueDate     string
		tags        string
		isDeleted   int64
		completedAt sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&dueDate,
		&task.Priority,
		&task.Status,
		&tags,
		&task.BackgroundColor,
		&task.Image,
		&isDeleted,
		&completedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if task.DueDate, err = ParseDateFromDB(dueDate); err != nil {
		return nil, fmt.Errorf("task %s due_date: %w", task.ID, err)
	}
	if task.Tags, err = ParseTagsFromDB(tags); err != nil {
		return nil, fmt.Errorf("task %s tags: %w", task.ID, err)
	}
	task.IsDeleted = isDeleted != 0
	if completedAt.Valid {
		completed, err := ParseTimeFromDB(completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("task %s completed_at: %w", task.ID, err)
		}
		task.CompletedAt = &completed
	}
	if task.CreatedAt, err = ParseTimeFromDB(createdAt); err != nil {
		return nil, fmt.Errorf("task %s created_at: %w", task.ID, err)
	}
	if task.UpdatedAt, err = ParseTimeFromDB(updatedAt); err != nil {
		return nil, fmt.Errorf("task %s updated_at: %w", task.ID, err)
	}

	return task, nil
}

// ScanTasks scans multiple tasks from database rows
func ScanTasks(rows Rows) ([]*Task, error) {
	var tasks []*Task
	for rows.Next() {
		task, err := ScanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}
