package cli

import (
	"context"
	"strings"

	"taskboard/internal/domain"
)

// AddOptions holds the add command input
type AddOptions struct {
	Title       string
	Description string
	Due         string
	Priority    string
	Tags        []string
	Color       string
	Image       string
}

// AddCommand handles the add command
type AddCommand struct {
	app *App
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App) *AddCommand {
	return &AddCommand{app: app}
}

// Execute creates a task from opts
func (c *AddCommand) Execute(ctx context.Context, opts AddOptions) error {
	image, err := loadImage(opts.Image)
	if err != nil {
		return c.app.errors.Handle("add task", err)
	}

	form := domain.TaskFormData{
		Title:           strings.TrimSpace(opts.Title),
		Description:     strings.TrimSpace(opts.Description),
		DueDate:         resolveDue(opts.Due, c.app.now()),
		Priority:        parsePriority(opts.Priority),
		Image:           image,
		Tags:            splitTags(opts.Tags),
		BackgroundColor: opts.Color,
	}

	res, err := c.app.dashboard.Create(ctx, form)
	if err != nil {
		return c.app.errors.Handle("add task", err)
	}

	c.app.report("Created", res)
	return nil
}
