package faults

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind is the stable machine-readable classification of a business-rule error.
type Kind string

const (
	KindValidation        Kind = "validation_error"
	KindInvalidTransition Kind = "invalid_transition"
	KindUnauthorized      Kind = "unauthorized"
	KindOutOfRange        Kind = "out_of_range"
	KindConflict          Kind = "conflict"
	KindNotFound          Kind = "not_found"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// InvalidTransition names both the current and the requested state so the
// caller can see exactly which lifecycle rule was broken.
func InvalidTransition(current, requested string) *Error {
	return &Error{
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("cannot move expense from %q to %q", current, requested),
	}
}

func Unauthorized(format string, args ...any) *Error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func OutOfRange(format string, args ...any) *Error {
	return &Error{Kind: KindOutOfRange, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return "", false
}

// ToHTTP maps a fault to the fiber error the central error handler renders.
// Unclassified errors pass through untouched.
func ToHTTP(err error) error {
	var fe *Error
	if !errors.As(err, &fe) {
		return err
	}
	switch fe.Kind {
	case KindValidation, KindInvalidTransition, KindOutOfRange:
		return fiber.NewError(fiber.StatusBadRequest, fe.Message)
	case KindUnauthorized:
		return fiber.NewError(fiber.StatusForbidden, fe.Message)
	case KindConflict:
		return fiber.NewError(fiber.StatusConflict, fe.Message)
	case KindNotFound:
		return fiber.NewError(fiber.StatusNotFound, fe.Message)
	default:
		return err
	}
}
