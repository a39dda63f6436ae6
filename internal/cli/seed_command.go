package cli

import (
	"context"
	"fmt"

	"taskboard/internal/errors"
	"taskboard/internal/seed"
)

// SeedCommand handles the seed command
type SeedCommand struct {
	app *App
}

// NewSeedCommand creates a new seed command handler
func NewSeedCommand(app *App) *SeedCommand {
	return &SeedCommand{app: app}
}

// Execute stores the demo task set and reloads the board. Demo tasks that
// are already stored are left as they are.
func (c *SeedCommand) Execute(ctx context.Context) error {
	if c.app.repo == nil {
		return c.app.errors.Handle("seed tasks", errors.NewInvalidInputError("storage", "memory",
			"seeding needs sqlite storage; memory storage is seeded at startup with --seed-demo"))
	}

	tasks, err := seed.DemoTasks(timeNow().UTC())
	if err != nil {
		return c.app.errors.Handle("seed tasks", err)
	}

	inserted, skipped, err := seed.Import(ctx, c.app.repo, tasks)
	if err != nil {
		return c.app.errors.Handle("seed tasks", err)
	}
	if err := c.app.dashboard.Load(ctx); err != nil {
		return c.app.errors.Handle("seed tasks", err)
	}

	fmt.Fprintf(c.app.out, "Seeded %d demo tasks", inserted)
	if skipped > 0 {
		fmt.Fprintf(c.app.out, " (%d already present)", skipped)
	}
	fmt.Fprintln(c.app.out)
	return nil
}
