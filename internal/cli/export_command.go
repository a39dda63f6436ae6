package cli

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/errors"
)

// ExportOptions holds the export command input
type ExportOptions struct {
	Format         string
	IncludeDeleted bool
}

// ExportCommand handles the export command
type ExportCommand struct {
	app *App
}

// NewExportCommand creates a new export command handler
func NewExportCommand(app *App) *ExportCommand {
	return &ExportCommand{app: app}
}

// Execute writes every task in the requested format
func (c *ExportCommand) Execute(ctx context.Context, opts ExportOptions) error {
	format := strings.TrimPrefix(strings.ToLower(opts.Format), "format=")
	switch format {
	case "", "csv":
		return c.exportCSV(opts.IncludeDeleted)
	default:
		return c.app.errors.Handle("export tasks", errors.NewInvalidInputError("format", opts.Format, "unsupported format"))
	}
}

// exportCSV outputs all tasks in CSV format
func (c *ExportCommand) exportCSV(includeDeleted bool) error {
	writer := csv.NewWriter(c.app.out)

	header := []string{"id", "title", "description", "due_date", "priority", "status", "tags", "background_color", "completed_at", "created_at", "updated_at", "is_deleted"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, t := range c.app.dashboard.Snapshot() {
		if t.IsDeleted && !includeDeleted {
			continue
		}
		if err := writer.Write(csvRecord(t)); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func csvRecord(t domain.Task) []string {
	completed := ""
	if t.CompletedAt != nil {
		completed = t.CompletedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		t.ID,
		t.Title,
		t.Description,
		t.DueDate.Format(domain.DueDateLayout),
		string(t.Priority),
		string(t.Status),
		strings.Join(t.Tags, ";"),
		t.BackgroundColor,
		completed,
		t.CreatedAt.UTC().Format(time.RFC3339),
		t.UpdatedAt.UTC().Format(time.RFC3339),
		strconv.FormatBool(t.IsDeleted),
	}
}
