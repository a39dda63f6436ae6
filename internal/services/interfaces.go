package services

import (
	"context"
	"time"

	"taskboard/internal/domain"
)

// SortOrder defines how task results should be sorted
type SortOrder string

const (
	SortByDueDate  SortOrder = "due_date" // Earliest due first (default)
	SortByPriority SortOrder = "priority" // High before Low, then due date
	SortByCreated  SortOrder = "created"  // Oldest first, the store's own order
	SortByTitle    SortOrder = "title"    // Alphabetical, case-insensitive
)

// ParseSortOrder maps a user-supplied value to a SortOrder; an empty string
// selects SortByDueDate.
func ParseSortOrder(s string) (SortOrder, bool) {
	switch SortOrder(s) {
	case "":
		return SortByDueDate, true
	case SortByDueDate, SortByPriority, SortByCreated, SortByTitle:
		return SortOrder(s), true
	}
	return "", false
}

// StatusBucket is one row of a status breakdown.
type StatusBucket struct {
	Status     domain.Status `json:"status"`
	Count      int           `json:"count"`
	Percentage int           `json:"percentage"`
}

// Breakdown counts non-deleted tasks per status. Each percentage is rounded
// on its own, so the sum may differ from 100.
type Breakdown struct {
	Total   int            `json:"total"`
	Buckets []StatusBucket `json:"buckets"`
}

// Bucket returns the row for status s.
func (b Breakdown) Bucket(s domain.Status) StatusBucket {
	for _, bucket := range b.Buckets {
		if bucket.Status == s {
			return bucket
		}
	}
	return StatusBucket{Status: s}
}

// DashboardView is everything the dashboard renders for one snapshot.
type DashboardView struct {
	Query        string        `json:"query"`
	Reference    time.Time     `json:"reference"`
	Active       []domain.Task `json:"active"`
	Completed    []domain.Task `json:"completed"`
	TodayCount   int           `json:"today_count"`
	OverdueCount int           `json:"overdue_count"`
	Breakdown    Breakdown     `json:"breakdown"`
}

// SyncState tells the caller what happened to a mutation beyond the local store.
type SyncState int

const (
	// SyncLocal means no remote is configured; the local change is final.
	SyncLocal SyncState = iota
	// SyncConfirmed means the remote accepted the change.
	SyncConfirmed
	// SyncRolledBack means the remote rejected the change and the local
	// store was restored.
	SyncRolledBack
	// SyncUnreconciled means the remote accepted the change but its record
	// could not be installed locally. The store keeps the tentative change
	// until the next Load.
	SyncUnreconciled
)

// String returns the string representation of SyncState
func (s SyncState) String() string {
	switch s {
	case SyncLocal:
		return "local"
	case SyncConfirmed:
		return "confirmed"
	case SyncRolledBack:
		return "rolled_back"
	case SyncUnreconciled:
		return "unreconciled"
	default:
		return "unknown"
	}
}

// MutationResult reports the outcome of an accepted mutation. Task is the
// state now held by the store, or for a rolled-back create the task that
// was briefly shown.
type MutationResult struct {
	Task    domain.Task
	Sync    SyncState
	SyncErr error
}

// RolledBack reports whether the remote rejected the change.
func (r *MutationResult) RolledBack() bool {
	return r.Sync == SyncRolledBack
}

// Unreconciled reports whether the remote kept a change the local store
// could not confirm.
func (r *MutationResult) Unreconciled() bool {
	return r.Sync == SyncUnreconciled
}

// CreateTaskRequest is sent to the remote when a task is created.
type CreateTaskRequest struct {
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	DueDate         time.Time       `json:"dueDate"`
	Priority        domain.Priority `json:"priority"`
	Tags            []string        `json:"tags,omitempty"`
	BackgroundColor string          `json:"backgroundColor,omitempty"`
	Image           string          `json:"image,omitempty"`
}

// UpdateTaskRequest is sent to the remote when a task changes. Patch holds
// the fields the user changed; Task is the full local state after the change.
type UpdateTaskRequest struct {
	ID    string           `json:"id"`
	Patch domain.TaskPatch `json:"patch"`
	Task  domain.Task      `json:"task"`
}

// Remote is the persistence boundary behind the local store.
type Remote interface {
	CreateTask(ctx context.Context, req CreateTaskRequest) (*domain.Task, error)
	UpdateTask(ctx context.Context, req UpdateTaskRequest) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context) ([]domain.Task, error)
}

// TaskService handles task lifecycle operations
type TaskService interface {
	// Session
	Load(ctx context.Context) error

	// Mutations
	Create(ctx context.Context, form domain.TaskFormData) (*MutationResult, error)
	Update(ctx context.Context, id string, patch domain.TaskPatch) (*MutationResult, error)
	SoftDelete(ctx context.Context, id string) (*MutationResult, error)
	CycleStatus(ctx context.Context, id string) (*MutationResult, error)
	Restore(ctx context.Context, id string) (*MutationResult, error)
	ChangeColor(ctx context.Context, id string, color string) (*MutationResult, error)

	// Lookup
	Get(ctx context.Context, id string) (*domain.Task, error)
}
