package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an application error. The set is closed; every failure a
// service returns to a handler carries one of these kinds.
type Kind string

const (
	KindNotFound              Kind = "NOT_FOUND"
	KindUserNotFound          Kind = "USER_NOT_FOUND"
	KindHotelNotFound         Kind = "HOTEL_NOT_FOUND"
	KindRoomNotFound          Kind = "ROOM_NOT_FOUND"
	KindPetNotFound           Kind = "PET_NOT_FOUND"
	KindBookingNotFound       Kind = "BOOKING_NOT_FOUND"
	KindUnauthorized          Kind = "UNAUTHORIZED"
	KindForbidden             Kind = "FORBIDDEN"
	KindInvalidInput          Kind = "INVALID_INPUT"
	KindRoomNotAvailable      Kind = "ROOM_NOT_AVAILABLE"
	KindUpdateFailed          Kind = "UPDATE_FAILED"
	KindPaymentMethodLocked   Kind = "PAYMENT_METHOD_LOCKED"
	KindWrongPaymentMethod    Kind = "WRONG_PAYMENT_METHOD"
	KindFileTooLarge          Kind = "FILE_TOO_LARGE"
	KindUnsupportedFileType   Kind = "UNSUPPORTED_FILE_TYPE"
	KindDirectoryCreateFailed Kind = "DIRECTORY_CREATE_FAILED"
	KindFileWriteFailed       Kind = "FILE_WRITE_FAILED"
	KindFileDeleteFailed      Kind = "FILE_DELETE_FAILED"
	KindFileMissing           Kind = "FILE_MISSING"
	KindConflict              Kind = "CONFLICT"
	KindDuplicate             Kind = "DUPLICATE"
)

// AppError is a structured error with a kind and a human-readable message.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewError creates an AppError of the given kind.
func NewError(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// WrapError creates an AppError of the given kind that wraps a cause.
func WrapError(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// NewNotFoundError reports that an entity of the given kind does not exist.
func NewNotFoundError(kind Kind, entity string, id any) *AppError {
	return NewError(kind, fmt.Sprintf("%s %v not found", entity, id))
}

// NewValidationError reports invalid caller input.
func NewValidationError(message string) *AppError {
	return NewError(KindInvalidInput, message)
}

// NewUnauthorizedError reports a missing or unresolvable actor.
func NewUnauthorizedError(message string) *AppError {
	return NewError(KindUnauthorized, message)
}

// NewForbiddenError reports an actor acting on something it does not own.
func NewForbiddenError(message string) *AppError {
	return NewError(KindForbidden, message)
}

// NewConflictError reports a lost update.
func NewConflictError(message string) *AppError {
	return NewError(KindConflict, message)
}

// KindOf returns the kind of err, or "" when err is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsNotFound reports whether err is any of the not-found kinds.
func IsNotFound(err error) bool {
	switch KindOf(err) {
	case KindNotFound, KindUserNotFound, KindHotelNotFound, KindRoomNotFound,
		KindPetNotFound, KindBookingNotFound, KindFileMissing:
		return true
	}
	return false
}
