package domain

import (
	"fmt"
	"strings"
	"time"
)

// DueDateLayout is the canonical calendar-date form used for due dates.
const DueDateLayout = "2006-01-02"

var dueDateLayouts = []string{
	DueDateLayout,
	time.RFC3339,
	"2006/01/02",
	"Jan 2 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDueDate parses a calendar date. Timestamps are reduced to the date
// they carry in their own offset.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("due date is empty")
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised due date %q, expected %s", s, DueDateLayout)
}

// DateOf strips the time of day, keeping the calendar date t has in its own
// location. The result is midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay compares calendar dates, ignoring time of day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysBetween returns the number of calendar days from -> to. Negative when
// to is before from.
func DaysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)).Hours() / 24)
}
