package migrations

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

func init() {
	RegisterGoMigration(3, Up_000003_normalize_due_dates, Down_000003_normalize_due_dates)
}

// dueDateLayouts are the forms due dates were written in before they were
// stored as plain calendar dates.
var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Up_000003_normalize_due_dates rewrites every due_date to YYYY-MM-DD.
// Values that cannot be parsed are left alone and logged.
func Up_000003_normalize_due_dates(tx *sql.Tx) error {
	type row struct {
		id      string
		dueDate string
	}
	var pending []row

	rows, err := tx.Query("SELECT id, due_date FROM tasks WHERE length(due_date) != 10")
	if err != nil {
		return fmt.Errorf("failed to query tasks: %w", err)
	}
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.dueDate); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan task: %w", err)
		}
		pending = append(pending, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("error iterating tasks: %w", err)
	}
	rows.Close()

	stmt, err := tx.Prepare("UPDATE tasks SET due_date = ? WHERE id = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare due_date update: %w", err)
	}
	defer stmt.Close()

	updated, skipped := 0, 0
	for _, r := range pending {
		date, err := normalizeDueDate(r.dueDate)
		if err != nil {
			slog.Warn("leaving unparseable due date", slog.String("task_id", r.id), slog.String("value", r.dueDate))
			skipped++
			continue
		}
		if _, err := stmt.Exec(date, r.id); err != nil {
			return fmt.Errorf("failed to update due_date for %s: %w", r.id, err)
		}
		updated++
	}

	slog.Debug("due date migration complete", slog.Int("updated", updated), slog.Int("skipped", skipped))
	return nil
}

// Down_000003_normalize_due_dates is a no-op: a plain date is valid input for
// every earlier schema version.
func Down_000003_normalize_due_dates(tx *sql.Tx) error {
	return nil
}

// normalizeDueDate keeps the calendar date of s as written, ignoring any
// time-of-day or zone.
func normalizeDueDate(s string) (string, error) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("could not parse due date: %s", s)
}
