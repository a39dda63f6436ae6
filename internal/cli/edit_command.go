package cli

import (
	"context"

	"taskboard/internal/domain"
	"taskboard/internal/errors"
)

// EditOptions holds the fields to change. Nil fields are left alone.
type EditOptions struct {
	Title       *string
	Description *string
	Due         *string
	Priority    *string
	Status      *string
	Tags        *[]string
	Color       *string
	Image       *string
}

// EditCommand handles the edit command
type EditCommand struct {
	app *App
}

// NewEditCommand creates a new edit command handler
func NewEditCommand(app *App) *EditCommand {
	return &EditCommand{app: app}
}

// Execute applies opts to the task identified by ref
func (c *EditCommand) Execute(ctx context.Context, ref string, opts EditOptions) error {
	id, err := c.app.resolveID(ref)
	if err != nil {
		return c.app.errors.Handle("edit task", err)
	}

	patch, err := c.patch(opts)
	if err != nil {
		return c.app.errors.Handle("edit task", err)
	}
	if patch.IsEmpty() {
		return c.app.errors.Handle("edit task", errors.NewInvalidInputError("fields", nil, "nothing to change, pass at least one field flag"))
	}

	res, err := c.app.dashboard.Update(ctx, id, patch)
	if err != nil {
		return c.app.errors.Handle("edit task", err)
	}

	c.app.report("Updated", res)
	return nil
}

func (c *EditCommand) patch(opts EditOptions) (domain.TaskPatch, error) {
	patch := domain.TaskPatch{
		Title:           opts.Title,
		Description:     opts.Description,
		BackgroundColor: opts.Color,
	}
	if opts.Due != nil {
		due, err := parseDueDate(resolveDue(*opts.Due, c.app.now()))
		if err != nil {
			return patch, err
		}
		patch.DueDate = &due
	}
	if opts.Priority != nil {
		p := parsePriority(*opts.Priority)
		patch.Priority = &p
	}
	if opts.Status != nil {
		s := parseStatus(*opts.Status)
		patch.Status = &s
	}
	if opts.Tags != nil {
		tags := splitTags(*opts.Tags)
		patch.Tags = &tags
	}
	if opts.Image != nil {
		image, err := loadImage(*opts.Image)
		if err != nil {
			return patch, err
		}
		patch.Image = &image
	}
	return patch, nil
}
