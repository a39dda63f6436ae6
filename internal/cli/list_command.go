package cli

import (
	"context"
	"fmt"
	"strings"

	"taskboard/internal/domain"
	"taskboard/internal/errors"
	"taskboard/internal/services"
)

// ListOptions holds the list command input
type ListOptions struct {
	Search string
	Status string
	Sort   string
}

// ListCommand handles the list command
type ListCommand struct {
	app *App
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{app: app}
}

// Execute prints the active and completed lists
func (c *ListCommand) Execute(ctx context.Context, opts ListOptions) error {
	if opts.Sort != "" {
		order, ok := services.ParseSortOrder(opts.Sort)
		if !ok {
			return c.app.errors.Handle("list tasks", errors.NewInvalidInputError("sort", opts.Sort, "expected due_date, priority, created or title"))
		}
		c.app.dashboard.SetSortOrder(order)
	}

	var status *domain.Status
	if opts.Status != "" {
		s, err := domain.ParseStatus(opts.Status)
		if err != nil {
			return c.app.errors.Handle("list tasks", errors.NewInvalidInputError("status", opts.Status, err.Error()))
		}
		status = &s
	}

	c.app.dashboard.SetSearchQuery(opts.Search)
	ref := c.app.now()
	view := c.app.dashboard.View(ref)

	active, completed := view.Active, view.Completed
	if status != nil {
		active = services.FilterByStatus(active, *status)
		completed = services.FilterByStatus(completed, *status)
	}

	if len(active) == 0 && len(completed) == 0 {
		if view.Query != "" {
			fmt.Fprintf(c.app.out, "No tasks match %q\n", view.Query)
		} else {
			fmt.Fprintln(c.app.out, "No tasks found")
		}
		return nil
	}

	if status == nil || *status != domain.StatusCompleted {
		c.printSection("Active", active, view)
	}
	if status == nil || *status == domain.StatusCompleted {
		c.printSection("Completed", completed, view)
	}
	return nil
}

func (c *ListCommand) printSection(heading string, tasks []domain.Task, view services.DashboardView) {
	fmt.Fprintf(c.app.out, "%s (%d)\n", heading, len(tasks))
	if len(tasks) == 0 {
		fmt.Fprintln(c.app.out, "  none")
		return
	}

	width := 0
	for _, t := range tasks {
		if n := len([]rune(t.Title)); n > width {
			width = n
		}
	}

	for _, t := range tasks {
		line := fmt.Sprintf("  %s %-8s  %-*s  %-6s  %s",
			statusMarker(t), shortID(t.ID), width, t.Title, t.Priority, services.DueLabel(t, view.Reference))
		if services.IsOverdue(t, view.Reference) {
			line += "  OVERDUE"
		}
		if tags := formatTags(t.Tags); tags != "" {
			line += "  " + tags
		}
		fmt.Fprintln(c.app.out, strings.TrimRight(line, " "))
	}
}
