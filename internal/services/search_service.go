package services

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"taskboard/internal/domain"
)

// MatchesSearch reports whether the task's title, description or any tag
// contains query, ignoring case. Case is compared after full Unicode case
// folding, so "ss" matches "ß". A blank query matches everything; any other
// query is matched as given, surrounding spaces included.
func MatchesSearch(task domain.Task, query string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}

	fold := cases.Fold()
	needle := fold.String(query)
	if strings.Contains(fold.String(task.Title), needle) ||
		strings.Contains(fold.String(task.Description), needle) {
		return true
	}
	for _, tag := range task.Tags {
		if strings.Contains(fold.String(tag), needle) {
			return true
		}
	}
	return false
}

// ActiveTasks returns non-deleted, non-completed tasks matching query, in
// store order.
func ActiveTasks(tasks []domain.Task, query string) []domain.Task {
	return filterTasks(tasks, func(t domain.Task) bool {
		return !t.IsCompleted() && MatchesSearch(t, query)
	})
}

// CompletedTasks returns non-deleted, completed tasks matching query, in
// store order.
func CompletedTasks(tasks []domain.Task, query string) []domain.Task {
	return filterTasks(tasks, func(t domain.Task) bool {
		return t.IsCompleted() && MatchesSearch(t, query)
	})
}

// FilterByStatus returns non-deleted tasks with the given status.
func FilterByStatus(tasks []domain.Task, status domain.Status) []domain.Task {
	return filterTasks(tasks, func(t domain.Task) bool {
		return t.Status == status
	})
}

// filterTasks never returns deleted tasks.
func filterTasks(tasks []domain.Task, keep func(domain.Task) bool) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsDeleted || !keep(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SortTasks returns a sorted copy of tasks. Ties keep their input order.
func SortTasks(tasks []domain.Task, order SortOrder) []domain.Task {
	sorted := make([]domain.Task, len(tasks))
	copy(sorted, tasks)

	switch order {
	case SortByPriority:
		sort.SliceStable(sorted, func(i, j int) bool {
			if ri, rj := sorted[i].Priority.Rank(), sorted[j].Priority.Rank(); ri != rj {
				return ri > rj
			}
			return sorted[i].DueDate.Before(sorted[j].DueDate)
		})
	case SortByCreated:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		})
	case SortByTitle:
		sort.SliceStable(sorted, func(i, j int) bool {
			return strings.ToLower(sorted[i].Title) < strings.ToLower(sorted[j].Title)
		})
	default:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].DueDate.Before(sorted[j].DueDate)
		})
	}

	return sorted
}
