package errors

import (
	"errors"
	"testing"
)

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		name      string
		errorType ErrorType
		expected  string
	}{
		{"Validation", ErrorTypeValidation, "validation"},
		{"NotFound", ErrorTypeNotFound, "not_found"},
		{"Conflict", ErrorTypeConflict, "conflict"},
		{"Sync", ErrorTypeSync, "sync"},
		{"Database", ErrorTypeDatabase, "database"},
		{"InvalidInput", ErrorTypeInvalidInput, "invalid_input"},
		{"Unknown", ErrorType(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.errorType.String(); got != tt.expected {
				t.Errorf("ErrorType.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppError_Error(t *testing.T) {
	plain := &AppError{Type: ErrorTypeNotFound, Message: "task not found: 42"}
	if got := plain.Error(); got != "not_found: task not found: 42" {
		t.Errorf("AppError.Error() = %q", got)
	}

	wrapped := &AppError{Type: ErrorTypeSync, Message: "remote rejected update", Cause: errors.New("disk full")}
	if got := wrapped.Error(); got != "sync: remote rejected update (caused by: disk full)" {
		t.Errorf("AppError.Error() = %q", got)
	}
}

func TestAppError_UnwrapAndIs(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewSyncError("update", "abc", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if !errors.Is(err, ErrSync) {
		t.Error("errors.Is should match the sync sentinel")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("sync error must not match the not found sentinel")
	}
}

func TestAppError_Context(t *testing.T) {
	err := &AppError{Type: ErrorTypeValidation}

	if _, ok := err.GetContext("field"); ok {
		t.Error("empty context should not contain keys")
	}

	err.WithContext("field", "title").WithContext("min", 3)

	value, ok := err.GetContext("field")
	if !ok || value != "title" {
		t.Errorf("GetContext(field) = %v, %v", value, ok)
	}
	if value, _ := err.GetContext("min"); value != 3 {
		t.Errorf("GetContext(min) = %v, want 3", value)
	}
}
