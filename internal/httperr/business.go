package httperr

import (
	"errors"
	"fmt"
)

// Kind classifies expected business outcomes returned to callers.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindInvalidTransition Kind = "invalid_state_transition"
	KindAlreadyTaken      Kind = "already_taken"
	KindNoAvailableSlots  Kind = "no_available_slots"
)

type BusinessError struct {
	Kind   Kind
	Code   string
	Detail string
}

func (e BusinessError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Detail)
	}
	return e.Code
}

// ErrBusiness builds a validation error, the most common business failure.
func ErrBusiness(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func Validation(code, detail string) error {
	return BusinessError{Kind: KindValidation, Code: code, Detail: detail}
}

func NotFound(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

func Conflict(code, detail string) error {
	return BusinessError{Kind: KindConflict, Code: code, Detail: detail}
}

func InvalidTransition(code, detail string) error {
	return BusinessError{Kind: KindInvalidTransition, Code: code, Detail: detail}
}

func AlreadyTaken(code string) error {
	return BusinessError{Kind: KindAlreadyTaken, Code: code}
}

func NoAvailableSlots(code string) error {
	return BusinessError{Kind: KindNoAvailableSlots, Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

func KindOf(err error) (Kind, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind, true
	}
	return "", false
}
