package domain

// TaskFilter narrows a task listing at the persistence boundary.
type TaskFilter struct {
	IncludeDeleted bool
	Status         *Status
	Title          string
}
