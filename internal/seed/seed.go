// Package seed provides the demo task set used to populate an empty board.
package seed

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"taskboard/internal/domain"
)

//go:embed demo_tasks.yaml
var demoTasks []byte

type file struct {
	Tasks []entry `yaml:"tasks"`
}

type entry struct {
	ID              string   `yaml:"id"`
	Title           string   `yaml:"title"`
	Description     string   `yaml:"description"`
	DueDate         string   `yaml:"due_date"`
	Priority        string   `yaml:"priority"`
	Status          string   `yaml:"status"`
	Tags            []string `yaml:"tags"`
	BackgroundColor string   `yaml:"background_color"`
	Image           string   `yaml:"image"`
	CompletedAt     string   `yaml:"completed_at"`
}

// DemoTasks returns the embedded demo set with creation and update times
// set to now. Completed tasks keep their recorded completion time.
func DemoTasks(now time.Time) ([]domain.Task, error) {
	return Parse(demoTasks, now)
}

// Parse decodes a task set in the demo file format.
func Parse(data []byte, now time.Time) ([]domain.Task, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}

	tasks := make([]domain.Task, 0, len(f.Tasks))
	for i, e := range f.Tasks {
		task, err := e.toTask(now)
		if err != nil {
			return nil, fmt.Errorf("seed task %d: %w", i+1, err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (e entry) toTask(now time.Time) (domain.Task, error) {
	due, err := domain.ParseDueDate(e.DueDate)
	if err != nil {
		return domain.Task{}, err
	}
	priority, err := domain.ParsePriority(e.Priority)
	if err != nil {
		return domain.Task{}, err
	}
	status, err := domain.ParseStatus(e.Status)
	if err != nil {
		return domain.Task{}, err
	}

	task := domain.Task{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		DueDate:         due,
		Priority:        priority,
		Status:          status,
		Tags:            domain.NormalizeTags(e.Tags),
		BackgroundColor: domain.NormalizeColor(e.BackgroundColor),
		Image:           e.Image,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if !task.IsValid() {
		return domain.Task{}, fmt.Errorf("task %q is missing required fields", e.ID)
	}

	if status == domain.StatusCompleted {
		completed := now
		if e.CompletedAt != "" {
			completed, err = time.Parse(time.RFC3339, e.CompletedAt)
			if err != nil {
				return domain.Task{}, fmt.Errorf("completed_at: %w", err)
			}
		}
		task.CompletedAt = &completed
	}
	return task, nil
}
