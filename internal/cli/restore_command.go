package cli

import (
	"context"
)

// RestoreCommand handles the restore command
type RestoreCommand struct {
	app *App
}

// NewRestoreCommand creates a new restore command handler
func NewRestoreCommand(app *App) *RestoreCommand {
	return &RestoreCommand{app: app}
}

// Execute reopens a completed task as In Progress
func (c *RestoreCommand) Execute(ctx context.Context, ref string) error {
	id, err := c.app.resolveID(ref)
	if err != nil {
		return c.app.errors.Handle("restore task", err)
	}

	res, err := c.app.dashboard.Restore(ctx, id)
	if err != nil {
		return c.app.errors.Handle("restore task", err)
	}

	c.app.report("Restored", res)
	return nil
}
