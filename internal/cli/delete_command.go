package cli

import (
	"context"
	"fmt"
)

// DeleteCommand handles the delete command
type DeleteCommand struct {
	app *App
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{app: app}
}

// Execute soft-deletes the task identified by ref. The task disappears from
// every view but stays in storage.
func (c *DeleteCommand) Execute(ctx context.Context, ref string) error {
	id, err := c.app.resolveID(ref)
	if err != nil {
		return c.app.errors.Handle("delete task", err)
	}

	before, err := c.app.dashboard.Get(ctx, id)
	if err != nil {
		return c.app.errors.Handle("delete task", err)
	}
	if before.IsDeleted {
		fmt.Fprintf(c.app.out, "Task %s is already deleted\n", shortID(id))
		return nil
	}

	res, err := c.app.dashboard.SoftDelete(ctx, id)
	if err != nil {
		return c.app.errors.Handle("delete task", err)
	}

	c.app.report("Deleted", res)
	return nil
}
