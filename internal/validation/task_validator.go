package validation

import (
	"strings"
	"time"

	"taskboard/internal/domain"
)

// Field names reported in validation errors.
const (
	FieldID              = "id"
	FieldTitle           = "title"
	FieldDescription     = "description"
	FieldDueDate         = "dueDate"
	FieldPriority        = "priority"
	FieldStatus          = "status"
	FieldImage           = "image"
	FieldBackgroundColor = "backgroundColor"
)

// TaskValidator provides validation for Task-related operations
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{
		validator: NewValidator(),
	}
}

// NewTaskValidatorWithRules creates a task validator with custom limits.
func NewTaskValidatorWithRules(rules Rules) *TaskValidator {
	return &TaskValidator{
		validator: NewValidatorWithRules(rules),
	}
}

// ValidateForm checks every field of a creation form and returns the parsed
// due date. All offending fields are reported together.
func (tv *TaskValidator) ValidateForm(form domain.TaskFormData) (time.Time, error) {
	ve := NewValidationError()

	tv.checkTitle(ve, form.Title)
	tv.checkDescription(ve, form.Description)

	var due time.Time
	if strings.TrimSpace(form.DueDate) == "" {
		ve.AddRequiredError(FieldDueDate)
	} else {
		parsed, err := domain.ParseDueDate(form.DueDate)
		if err != nil {
			ve.AddInvalidFormatError(FieldDueDate, form.DueDate, domain.DueDateLayout)
		} else {
			due = parsed
		}
	}

	tv.checkPriority(ve, form.Priority)
	tv.checkImage(ve, form.Image)
	tv.checkColor(ve, form.BackgroundColor)

	return due, ve.ErrOrNil()
}

// ValidatePatch checks only the fields a patch provides.
func (tv *TaskValidator) ValidatePatch(p domain.TaskPatch) error {
	ve := NewValidationError()

	if p.Title != nil {
		tv.checkTitle(ve, *p.Title)
	}
	if p.Description != nil {
		tv.checkDescription(ve, *p.Description)
	}
	if p.DueDate != nil && p.DueDate.IsZero() {
		ve.AddRequiredError(FieldDueDate)
	}
	if p.Priority != nil {
		tv.checkPriority(ve, *p.Priority)
	}
	if p.Status != nil && !p.Status.IsValid() {
		ve.AddInvalidValueError(FieldStatus, *p.Status, "must be Not Started, In Progress or Completed")
	}
	if p.Image != nil {
		tv.checkImage(ve, *p.Image)
	}
	if p.BackgroundColor != nil {
		tv.checkColor(ve, *p.BackgroundColor)
	}

	return ve.ErrOrNil()
}

// ValidateTaskID validates a task ID
func (tv *TaskValidator) ValidateTaskID(id string) error {
	if !tv.validator.IsNonEmptyString(id) {
		ve := NewValidationError()
		ve.AddRequiredError(FieldID)
		return ve
	}
	return nil
}

// ValidateColor validates a standalone background colour change.
func (tv *TaskValidator) ValidateColor(color string) error {
	ve := NewValidationError()
	tv.checkColor(ve, color)
	return ve.ErrOrNil()
}

func (tv *TaskValidator) checkTitle(ve *ValidationError, title string) {
	rules := tv.validator.Rules()
	switch {
	case !tv.validator.IsNonEmptyString(title):
		ve.AddRequiredError(FieldTitle)
	case tv.validator.TrimmedLength(title) < rules.TitleMinLength:
		ve.AddMinLengthError(FieldTitle, title, rules.TitleMinLength)
	case !tv.validator.IsValidStringLength(title, rules.TitleMinLength, rules.TitleMaxLength):
		ve.AddMaxLengthError(FieldTitle, title, rules.TitleMaxLength)
	}
}

func (tv *TaskValidator) checkDescription(ve *ValidationError, description string) {
	min := tv.validator.Rules().DescriptionMinLength
	switch {
	case !tv.validator.IsNonEmptyString(description):
		ve.AddRequiredError(FieldDescription)
	case !tv.validator.IsValidStringLength(description, min, 0):
		ve.AddMinLengthError(FieldDescription, description, min)
	}
}

func (tv *TaskValidator) checkPriority(ve *ValidationError, p domain.Priority) {
	if p == "" {
		ve.AddRequiredError(FieldPriority)
		return
	}
	if !p.IsValid() {
		ve.AddInvalidValueError(FieldPriority, p, "must be High, Medium or Low")
	}
}

func (tv *TaskValidator) checkImage(ve *ValidationError, image string) {
	if !tv.validator.IsDataURL(image) {
		return
	}
	mediaType, size, err := tv.validator.ParseDataURL(image)
	if err != nil {
		ve.AddInvalidFormatError(FieldImage, nil, "base64 data URL")
		return
	}
	if !strings.HasPrefix(mediaType, "image/") {
		ve.AddInvalidValueError(FieldImage, mediaType, "only image files are allowed")
	}
	if limit := tv.validator.Rules().MaxImageBytes; size > limit {
		ve.AddTooLargeError(FieldImage, size, limit)
	}
}

func (tv *TaskValidator) checkColor(ve *ValidationError, color string) {
	if !tv.validator.IsValidHexColor(color) {
		ve.AddInvalidFormatError(FieldBackgroundColor, color, "#RRGGBB")
	}
}
