package sqlite

import (
	"encoding/json"
	"time"
)

// DateLayout is the storage form of due dates.
const DateLayout = "2006-01-02"

// FormatTimeForDB formats a timestamp as RFC3339 with nanoseconds so values
// survive a round trip unchanged.
func FormatTimeForDB(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// FormatTimePtrForDB formats a *time.Time, returning nil for a nil pointer so
// the column is stored as NULL.
func FormatTimePtrForDB(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return FormatTimeForDB(*t)
}

// ParseTimeFromDB parses a stored timestamp. Second-precision RFC3339 values
// written by older builds are accepted too.
func ParseTimeFromDB(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// FormatDateForDB keeps only the calendar date.
func FormatDateForDB(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDateFromDB parses a stored due date as midnight UTC.
func ParseDateFromDB(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatTagsForDB encodes tags as a JSON array; nil becomes "[]".
func FormatTagsForDB(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// ParseTagsFromDB decodes a JSON tag array. An empty array yields nil.
func ParseTagsFromDB(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(s), &tags); err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, nil
	}
	return tags, nil
}
