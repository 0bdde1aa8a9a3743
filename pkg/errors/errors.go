package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound   = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrConflict   = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal   = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss  = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// Scheduling domain errors. Conflict kinds are distinct so callers can render
// an actionable message; none of them are retryable.
var (
	ErrInvalidSlot      = New("INVALID_SLOT", http.StatusUnprocessableEntity, "start time does not match any slot in the active period template")
	ErrBreakSlot        = New("BREAK_SLOT", http.StatusUnprocessableEntity, "break slots are not schedulable")
	ErrSlotOccupied     = New("SLOT_OCCUPIED", http.StatusConflict, "slot is already occupied")
	ErrRoomConflict     = New("ROOM_CONFLICT", http.StatusConflict, "room is already booked for this slot")
	ErrFacultyConflict  = New("FACULTY_CONFLICT", http.StatusConflict, "faculty is already scheduled for this slot")
	ErrNoActiveTemplate = New("NO_ACTIVE_TEMPLATE", http.StatusPreconditionFailed, "no active period template")
	ErrEmptyTemplate    = New("EMPTY_TEMPLATE", http.StatusPreconditionFailed, "active period template has no slots")
	ErrVersionNotReady  = New("VERSION_NOT_READY", http.StatusConflict, "timetable version is not ready")
	ErrTemplateActive   = New("TEMPLATE_ACTIVE", http.StatusConflict, "active period template cannot be deleted")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
