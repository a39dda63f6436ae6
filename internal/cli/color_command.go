package cli

import (
	"context"
	"fmt"

	"taskboard/internal/domain"
)

// ColorCommand handles the color command
type ColorCommand struct {
	app *App
}

// NewColorCommand creates a new color command handler
func NewColorCommand(app *App) *ColorCommand {
	return &ColorCommand{app: app}
}

// Execute sets the card colour of the task identified by ref. Without a
// colour it lists the palette; "none" clears the colour.
func (c *ColorCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 2 {
		c.printPalette()
		return nil
	}

	id, err := c.app.resolveID(args[0])
	if err != nil {
		return c.app.errors.Handle("change colour", err)
	}

	color := args[1]
	if color == "none" {
		color = ""
	}

	res, err := c.app.dashboard.ChangeColor(ctx, id, color)
	if err != nil {
		return c.app.errors.Handle("change colour", err)
	}

	c.app.report("Recoloured", res)
	return nil
}

func (c *ColorCommand) printPalette() {
	fmt.Fprintln(c.app.out, "Palette:")
	for _, color := range domain.ColorPalette {
		fmt.Fprintf(c.app.out, "  %s\n", color)
	}
	fmt.Fprintln(c.app.out, "Any #RRGGBB value is accepted; use \"none\" to clear.")
}
