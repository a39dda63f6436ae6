package cli

import (
	"fmt"

	"taskboard/internal/errors"
	"taskboard/internal/validation"
)

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle provides user-friendly error messages for validation and other errors
func (eh *ErrorHandler) Handle(operation string, err error) error {
	return fmt.Errorf("failed to %s: %s", operation, eh.message(err))
}

// HandleSimple provides user-friendly error messages without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	return fmt.Errorf("%s", eh.message(err))
}

func (eh *ErrorHandler) message(err error) string {
	if err == nil {
		return "unknown error"
	}
	// Field details win over the wrapping AppError message
	if ve, ok := validation.AsValidationError(err); ok && ve.HasErrors() {
		return ve.GetUserFriendlyMessage()
	}
	return errors.GetUserMessage(err)
}

// SyncWarning describes a change the remote refused and that was undone
// locally.
func (eh *ErrorHandler) SyncWarning(err error) string {
	if err == nil {
		return "remote sync failed, changes were rolled back"
	}
	if appErr, ok := errors.AsAppError(err); ok && appErr.IsType(errors.ErrorTypeSync) {
		if appErr.Cause != nil {
			return fmt.Sprintf("%s (%v)", appErr.Message, appErr.Cause)
		}
		return appErr.Message
	}
	return fmt.Sprintf("%v, changes were rolled back", err)
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	if validation.IsValidationError(err) {
		return true
	}
	return errors.IsErrorType(err, errors.ErrorTypeValidation)
}

// IsNotFoundError checks if an error is a not found error
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeNotFound)
}

// IsDatabaseError checks if an error is a database error
func (eh *ErrorHandler) IsDatabaseError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeDatabase)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}
