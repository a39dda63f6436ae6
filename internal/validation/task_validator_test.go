package validation

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/domain"
)

func validForm() domain.TaskFormData {
	return domain.TaskFormData{
		Title:       "Write report",
		DueDate:     "2024-03-12",
		Priority:    domain.PriorityMedium,
		Description: "Quarterly numbers for finance",
	}
}

func TestTaskValidator_ValidateForm(t *testing.T) {
	tv := NewTaskValidator()
	png := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png"))

	tests := []struct {
		name       string
		mutate     func(f *domain.TaskFormData)
		wantFields []string
	}{
		{"valid", func(f *domain.TaskFormData) {}, nil},
		{"valid with image and colour", func(f *domain.TaskFormData) {
			f.Image = png
			f.BackgroundColor = "#fff3e0"
		}, nil},
		{"image reference is not inspected", func(f *domain.TaskFormData) { f.Image = "assets/cat.png" }, nil},
		{"short title", func(f *domain.TaskFormData) { f.Title = "ab" }, []string{FieldTitle}},
		{"padded title too short", func(f *domain.TaskFormData) { f.Title = "  ab  " }, []string{FieldTitle}},
		{"short description", func(f *domain.TaskFormData) { f.Description = "too short" }, []string{FieldDescription}},
		{"title and description", func(f *domain.TaskFormData) {
			f.Title = "ab"
			f.Description = "short"
		}, []string{FieldTitle, FieldDescription}},
		{"missing due date", func(f *domain.TaskFormData) { f.DueDate = " " }, []string{FieldDueDate}},
		{"unparseable due date", func(f *domain.TaskFormData) { f.DueDate = "someday" }, []string{FieldDueDate}},
		{"missing priority", func(f *domain.TaskFormData) { f.Priority = "" }, []string{FieldPriority}},
		{"unknown priority", func(f *domain.TaskFormData) { f.Priority = "Urgent" }, []string{FieldPriority}},
		{"non image data url", func(f *domain.TaskFormData) {
			f.Image = "data:application/pdf;base64," + base64.StdEncoding.EncodeToString([]byte("pdf"))
		}, []string{FieldImage}},
		{"bad colour", func(f *domain.TaskFormData) { f.BackgroundColor = "blue" }, []string{FieldBackgroundColor}},
		{"everything wrong", func(f *domain.TaskFormData) {
			*f = domain.TaskFormData{}
		}, []string{FieldTitle, FieldDescription, FieldDueDate, FieldPriority}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			due, err := tv.ValidateForm(form)
			if tt.wantFields == nil {
				require.NoError(t, err)
				assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), due)
				return
			}
			ve, ok := AsValidationError(err)
			require.True(t, ok, "expected ValidationError, got %v", err)
			assert.Equal(t, tt.wantFields, ve.Fields())
		})
	}
}

func TestTaskValidator_ValidateForm_ImageTooLarge(t *testing.T) {
	tv := NewTaskValidatorWithRules(Rules{MaxImageBytes: 16})
	form := validForm()
	form.Image = "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(strings.Repeat("x", 17)))

	_, err := tv.ValidateForm(form)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	require.Len(t, ve.Errors, 1)
	assert.Equal(t, ErrorTypeTooLarge, ve.Errors[0].Type)
}

func TestTaskValidator_ValidateForm_TitleMaxLength(t *testing.T) {
	form := validForm()
	form.Title = strings.Repeat("t", 500)

	_, err := NewTaskValidator().ValidateForm(form)
	assert.NoError(t, err, "no upper bound by default")

	_, err = NewTaskValidatorWithRules(Rules{TitleMaxLength: 50}).ValidateForm(form)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	require.Len(t, ve.Errors, 1)
	assert.Equal(t, FieldTitle, ve.Errors[0].Field)
	assert.Equal(t, ErrorTypeInvalidLength, ve.Errors[0].Type)
}

func TestTaskValidator_ValidatePatch(t *testing.T) {
	tv := NewTaskValidator()
	short := "ab"
	good := "A fine title"
	badPriority := domain.Priority("Urgent")
	badStatus := domain.Status("Done")
	zero := time.Time{}
	badColor := "nope"

	tests := []struct {
		name       string
		patch      domain.TaskPatch
		wantFields []string
	}{
		{"empty patch", domain.TaskPatch{}, nil},
		{"good title", domain.TaskPatch{Title: &good}, nil},
		{"short title", domain.TaskPatch{Title: &short}, []string{FieldTitle}},
		{"short description", domain.TaskPatch{Description: &short}, []string{FieldDescription}},
		{"zero due date", domain.TaskPatch{DueDate: &zero}, []string{FieldDueDate}},
		{"bad priority and status", domain.TaskPatch{Priority: &badPriority, Status: &badStatus}, []string{FieldPriority, FieldStatus}},
		{"bad colour", domain.TaskPatch{BackgroundColor: &badColor}, []string{FieldBackgroundColor}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tv.ValidatePatch(tt.patch)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			ve, ok := AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantFields, ve.Fields())
		})
	}
}

func TestTaskValidator_ValidateTaskID(t *testing.T) {
	tv := NewTaskValidator()
	assert.NoError(t, tv.ValidateTaskID("abc"))
	assert.Error(t, tv.ValidateTaskID("  "))
}

func TestTaskValidator_ValidateColor(t *testing.T) {
	tv := NewTaskValidator()
	assert.NoError(t, tv.ValidateColor("#E8F5E8"))
	assert.NoError(t, tv.ValidateColor(""))
	assert.Error(t, tv.ValidateColor("#E8F5"))
}
