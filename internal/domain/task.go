package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusNotStarted Status = "Not Started"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// Statuses lists every status in cycle order.
var Statuses = []Status{StatusNotStarted, StatusInProgress, StatusCompleted}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Next returns the status that follows s in the
// Not Started -> In Progress -> Completed -> Not Started cycle.
// Unknown statuses move to In Progress.
func (s Status) Next() Status {
	switch s {
	case StatusNotStarted:
		return StatusInProgress
	case StatusInProgress:
		return StatusCompleted
	case StatusCompleted:
		return StatusNotStarted
	default:
		return StatusInProgress
	}
}

// Slug returns a lowercase, hyphenated form such as "in-progress".
func (s Status) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(s)), " ", "-")
}

// ParseStatus accepts display names and slugs ("In Progress", "in-progress",
// "in_progress", "inprogress").
func ParseStatus(s string) (Status, error) {
	switch normalizeEnum(s) {
	case "notstarted":
		return StatusNotStarted, nil
	case "inprogress":
		return StatusInProgress, nil
	case "completed":
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Priority is the urgency of a task.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities lists every priority from most to least urgent.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Rank orders priorities for sorting; higher is more urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// ParsePriority is case-insensitive.
func ParsePriority(s string) (Priority, error) {
	switch normalizeEnum(s) {
	case "high":
		return PriorityHigh, nil
	case "medium":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

func normalizeEnum(s string) string {
	r := strings.NewReplacer(" ", "", "-", "", "_", "")
	return r.Replace(strings.ToLower(strings.TrimSpace(s)))
}

// Task represents a task in the domain model.
// This is a pure domain model without database-specific concerns.
type Task struct {
	ID              string     `json:"id" yaml:"id"`
	Title           string     `json:"title" yaml:"title"`
	Description     string     `json:"description" yaml:"description"`
	DueDate         time.Time  `json:"dueDate" yaml:"due_date"`
	Priority        Priority   `json:"priority" yaml:"priority"`
	Status          Status     `json:"status" yaml:"status"`
	Tags            []string   `json:"tags,omitempty" yaml:"tags,omitempty"`
	BackgroundColor string     `json:"backgroundColor,omitempty" yaml:"background_color,omitempty"`
	Image           string     `json:"image,omitempty" yaml:"image,omitempty"`
	IsDeleted       bool       `json:"isDeleted,omitempty" yaml:"is_deleted,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty" yaml:"completed_at,omitempty"`
	CreatedAt       time.Time  `json:"createdAt" yaml:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" yaml:"updated_at"`
}

// NewTask builds a Not Started task from validated form input.
func NewTask(id string, form TaskFormData, dueDate time.Time, now time.Time) Task {
	return Task{
		ID:              id,
		Title:           strings.TrimSpace(form.Title),
		Description:     strings.TrimSpace(form.Description),
		DueDate:         DateOf(dueDate),
		Priority:        form.Priority,
		Status:          StatusNotStarted,
		Tags:            NormalizeTags(form.Tags),
		BackgroundColor: NormalizeColor(form.BackgroundColor),
		Image:           strings.TrimSpace(form.Image),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Clone returns a deep copy; slices and pointers are not shared.
func (t Task) Clone() Task {
	c := t
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	if t.CompletedAt != nil {
		completed := *t.CompletedAt
		c.CompletedAt = &completed
	}
	return c
}

// IsCompleted reports whether the task is in the Completed state.
func (t Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// IsValid checks the fields every stored task must carry.
func (t Task) IsValid() bool {
	return t.ID != "" && strings.TrimSpace(t.Title) != "" && t.Status.IsValid() && t.Priority.IsValid()
}

// String returns the task title for display purposes.
func (t Task) String() string {
	return t.Title
}

// SetStatus moves the task to s. CompletedAt is stamped when the task becomes
// Completed and cleared when it leaves Completed; setting the current status
// again changes nothing.
func (t *Task) SetStatus(s Status, now time.Time) {
	if t.Status == s {
		return
	}
	t.Status = s
	if s == StatusCompleted {
		completed := now
		t.CompletedAt = &completed
	} else {
		t.CompletedAt = nil
	}
}

// ApplyPatch merges every provided field of p into t. UpdatedAt is left to
// the caller.
func (t *Task) ApplyPatch(p TaskPatch, now time.Time) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.DueDate != nil {
		t.DueDate = DateOf(*p.DueDate)
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Tags != nil {
		t.Tags = NormalizeTags(*p.Tags)
	}
	if p.BackgroundColor != nil {
		t.BackgroundColor = NormalizeColor(*p.BackgroundColor)
	}
	if p.Image != nil {
		t.Image = strings.TrimSpace(*p.Image)
	}
	if p.Status != nil {
		t.SetStatus(*p.Status, now)
	}
}

// TaskFormData is the input contract for task creation. It is validated
// before it becomes a Task.
type TaskFormData struct {
	Title           string   `json:"title"`
	DueDate         string   `json:"dueDate"`
	Priority        Priority `json:"priority"`
	Description     string   `json:"description"`
	Image           string   `json:"image,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	BackgroundColor string   `json:"backgroundColor,omitempty"`
}

// TaskPatch carries a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title           *string    `json:"title,omitempty"`
	Description     *string    `json:"description,omitempty"`
	DueDate         *time.Time `json:"dueDate,omitempty"`
	Priority        *Priority  `json:"priority,omitempty"`
	Status          *Status    `json:"status,omitempty"`
	Tags            *[]string  `json:"tags,omitempty"`
	BackgroundColor *string    `json:"backgroundColor,omitempty"`
	Image           *string    `json:"image,omitempty"`
}

// IsEmpty reports whether the patch would change nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil && p.Priority == nil &&
		p.Status == nil && p.Tags == nil && p.BackgroundColor == nil && p.Image == nil
}

// NormalizeTags trims tags, drops empty ones and removes case-insensitive
// duplicates while keeping the first spelling and order.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
