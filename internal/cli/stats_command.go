package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

const statsBarWidth = 20

// StatsCommand handles the stats command
type StatsCommand struct {
	app *App
}

// NewStatsCommand creates a new stats command handler
func NewStatsCommand(app *App) *StatsCommand {
	return &StatsCommand{app: app}
}

// Execute prints today's count, overdue count and the status breakdown
func (c *StatsCommand) Execute(ctx context.Context) error {
	view := c.app.dashboard.View(c.app.now())
	out := c.app.out

	fmt.Fprintf(out, "Due today: %s\n", humanize.Comma(int64(view.TodayCount)))
	fmt.Fprintf(out, "Overdue:   %s\n", humanize.Comma(int64(view.OverdueCount)))
	fmt.Fprintf(out, "Total:     %s\n", humanize.Comma(int64(view.Breakdown.Total)))
	fmt.Fprintln(out)

	for _, bucket := range view.Breakdown.Buckets {
		filled := bucket.Percentage * statsBarWidth / 100
		if filled > statsBarWidth {
			filled = statsBarWidth
		}
		bar := strings.Repeat("#", filled) + strings.Repeat(".", statsBarWidth-filled)
		fmt.Fprintf(out, "%-12s %s %3d%% (%d)\n", bucket.Status, bar, bucket.Percentage, bucket.Count)
	}
	return nil
}
