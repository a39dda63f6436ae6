package cli

import (
	"context"
	"fmt"
)

// CycleCommand handles the cycle command
type CycleCommand struct {
	app *App
}

// NewCycleCommand creates a new cycle command handler
func NewCycleCommand(app *App) *CycleCommand {
	return &CycleCommand{app: app}
}

// Execute moves the task to its next status:
// Not Started -> In Progress -> Completed -> Not Started
func (c *CycleCommand) Execute(ctx context.Context, ref string) error {
	id, err := c.app.resolveID(ref)
	if err != nil {
		return c.app.errors.Handle("cycle status", err)
	}

	res, err := c.app.dashboard.CycleStatus(ctx, id)
	if err != nil {
		return c.app.errors.Handle("cycle status", err)
	}
	if res.RolledBack() {
		c.app.report("Cycled", res)
		return nil
	}

	fmt.Fprintf(c.app.out, "%s %s is now %s\n", statusMarker(res.Task), res.Task.Title, res.Task.Status)
	if res.Unreconciled() {
		fmt.Fprintf(c.app.errOut, "warning: %s\n", c.app.errors.SyncWarning(res.SyncErr))
	}
	return nil
}
