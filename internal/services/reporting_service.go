package services

import (
	"math"
	"time"

	"taskboard/internal/domain"
)

// TodayCount counts non-deleted tasks due on ref's calendar day.
func TodayCount(tasks []domain.Task, ref time.Time) int {
	count := 0
	for _, t := range tasks {
		if !t.IsDeleted && domain.SameDay(t.DueDate, ref) {
			count++
		}
	}
	return count
}

// StatusBreakdown counts non-deleted tasks per status with a rounded
// percentage of the total. Every status is present, in cycle order.
func StatusBreakdown(tasks []domain.Task) Breakdown {
	counts := make(map[domain.Status]int, len(domain.Statuses))
	total := 0
	for _, t := range tasks {
		if t.IsDeleted {
			continue
		}
		counts[t.Status]++
		total++
	}

	b := Breakdown{Total: total, Buckets: make([]StatusBucket, 0, len(domain.Statuses))}
	for _, s := range domain.Statuses {
		b.Buckets = append(b.Buckets, StatusBucket{
			Status:     s,
			Count:      counts[s],
			Percentage: percentage(counts[s], total),
		})
	}
	return b
}

// percentage rounds half away from zero; 0 of 0 is 0.
func percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

// IsOverdue reports whether an unfinished task's due date is before ref's day.
func IsOverdue(task domain.Task, ref time.Time) bool {
	if task.IsDeleted || task.IsCompleted() {
		return false
	}
	return domain.DaysBetween(ref, task.DueDate) < 0
}

// OverdueCount counts the tasks IsOverdue reports.
func OverdueCount(tasks []domain.Task, ref time.Time) int {
	count := 0
	for _, t := range tasks {
		if IsOverdue(t, ref) {
			count++
		}
	}
	return count
}

// DueLabel describes a due date relative to ref: "Today", "Tomorrow",
// "Yesterday", or a short date such as "Jun 20" (with the year when it
// differs from ref's).
func DueLabel(task domain.Task, ref time.Time) string {
	switch domain.DaysBetween(ref, task.DueDate) {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	case -1:
		return "Yesterday"
	}
	if task.DueDate.Year() != ref.Year() {
		return task.DueDate.Format("Jan 2, 2006")
	}
	return task.DueDate.Format("Jan 2")
}

// Summarize derives the whole dashboard view from one snapshot.
func Summarize(tasks []domain.Task, query string, ref time.Time) DashboardView {
	return DashboardView{
		Query:        query,
		Reference:    ref,
		Active:       ActiveTasks(tasks, query),
		Completed:    CompletedTasks(tasks, query),
		TodayCount:   TodayCount(tasks, ref),
		OverdueCount: OverdueCount(tasks, ref),
		Breakdown:    StatusBreakdown(tasks),
	}
}
