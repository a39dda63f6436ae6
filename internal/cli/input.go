package cli

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/errors"
	"taskboard/internal/validation"
)

// parsePriority accepts any spelling ParsePriority does. Unknown values are
// passed through so the validator can name them.
func parsePriority(s string) domain.Priority {
	if p, err := domain.ParsePriority(s); err == nil {
		return p
	}
	return domain.Priority(s)
}

func parseStatus(s string) domain.Status {
	if st, err := domain.ParseStatus(s); err == nil {
		return st
	}
	return domain.Status(s)
}

// resolveDue expands "today", "tomorrow" and "yesterday" against now.
// Anything else is returned unchanged for ParseDueDate.
func resolveDue(s string, now time.Time) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return now.Format(domain.DueDateLayout)
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format(domain.DueDateLayout)
	case "yesterday":
		return now.AddDate(0, 0, -1).Format(domain.DueDateLayout)
	}
	return s
}

// parseDueDate turns a flag value into a patch date, reporting bad input as
// a field error like the form validator does.
func parseDueDate(s string) (time.Time, error) {
	due, err := domain.ParseDueDate(s)
	if err != nil {
		ve := validation.NewValidationError()
		if strings.TrimSpace(s) == "" {
			ve.AddRequiredError(validation.FieldDueDate)
		} else {
			ve.AddInvalidFormatError(validation.FieldDueDate, s, domain.DueDateLayout)
		}
		return time.Time{}, errors.NewValidationError("invalid task", ve)
	}
	return due, nil
}

// loadImage turns a local file into a data URL. Anything that is not a
// readable file, such as a URL or an existing data URL, is kept as given.
func loadImage(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "data:") || strings.Contains(ref, "://") {
		return ref, nil
	}

	info, err := os.Stat(ref)
	if err != nil || !info.Mode().IsRegular() {
		return ref, nil
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return "", fmt.Errorf("failed to read image %s: %w", ref, err)
	}
	mediaType := http.DetectContentType(data)
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// splitTags accepts repeated flags as well as comma-separated values.
func splitTags(values []string) []string {
	var tags []string
	for _, v := range values {
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}
