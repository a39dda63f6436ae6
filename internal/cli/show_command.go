package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"taskboard/internal/domain"
	"taskboard/internal/services"
)

// ShowCommand handles the show command
type ShowCommand struct {
	app *App
}

// NewShowCommand creates a new show command handler
func NewShowCommand(app *App) *ShowCommand {
	return &ShowCommand{app: app}
}

// Execute prints every field of one task
func (c *ShowCommand) Execute(ctx context.Context, ref string) error {
	id, err := c.app.resolveID(ref)
	if err != nil {
		return c.app.errors.Handle("show task", err)
	}

	task, err := c.app.dashboard.Get(ctx, id)
	if err != nil {
		return c.app.errors.Handle("show task", err)
	}

	c.print(*task)
	return nil
}

func (c *ShowCommand) print(t domain.Task) {
	now := c.app.now()
	out := c.app.out

	fmt.Fprintf(out, "%s %s\n", statusMarker(t), t.Title)
	fmt.Fprintf(out, "  ID:          %s\n", t.ID)
	fmt.Fprintf(out, "  Status:      %s\n", t.Status)
	fmt.Fprintf(out, "  Priority:    %s\n", t.Priority)

	due := fmt.Sprintf("%s (%s)", t.DueDate.Format(c.app.dateFormat()), services.DueLabel(t, now))
	if services.IsOverdue(t, now) {
		due += " OVERDUE"
	}
	fmt.Fprintf(out, "  Due:         %s\n", due)

	if t.CompletedAt != nil {
		fmt.Fprintf(out, "  Completed:   %s (%s)\n",
			t.CompletedAt.Local().Format(c.app.timeFormat()),
			humanize.RelTime(*t.CompletedAt, now, "ago", "from now"))
	}
	if len(t.Tags) > 0 {
		fmt.Fprintf(out, "  Tags:        %s\n", strings.Join(t.Tags, ", "))
	}
	if t.BackgroundColor != "" {
		fmt.Fprintf(out, "  Colour:      %s\n", t.BackgroundColor)
	}
	if t.Image != "" {
		fmt.Fprintf(out, "  Image:       %s\n", describeImage(t.Image))
	}
	if t.IsDeleted {
		fmt.Fprintln(out, "  Deleted:     yes")
	}
	fmt.Fprintf(out, "  Created:     %s\n", t.CreatedAt.Local().Format(c.app.timeFormat()))
	fmt.Fprintf(out, "  Updated:     %s (%s)\n",
		t.UpdatedAt.Local().Format(c.app.timeFormat()),
		humanize.RelTime(t.UpdatedAt, now, "ago", "from now"))
	fmt.Fprintf(out, "\n%s\n", t.Description)
}

// describeImage avoids dumping a base64 payload to the terminal.
func describeImage(image string) string {
	if !strings.HasPrefix(image, "data:") {
		return image
	}
	header, payload, _ := strings.Cut(image, ",")
	mediaType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	return fmt.Sprintf("embedded %s, %s", mediaType, humanize.Bytes(uint64(len(payload)*3/4)))
}
