package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Kind classifies a service failure so the HTTP layer can pick a status code.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindBusinessRule
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindBusinessRule:
		return "business_rule"
	case KindConflict:
		return "conflict"
	}
	return "internal"
}

// Business rule causes. Match them with errors.Is.
var (
	ErrNotAvailable      = errors.New("food item is not available")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrFoodMismatch      = errors.New("food_id cannot be changed on an existing order detail")
	ErrOrderClosed       = errors.New("order is no longer pending")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrDiscountExhausted = errors.New("discount code has reached its usage limit")
	ErrOutOfStock        = errors.New("food item has no stock")
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind carried by err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

func validationError(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func ruleViolation(cause error, format string, args ...interface{}) error {
	return &Error{Kind: KindBusinessRule, Msg: fmt.Sprintf(format, args...), Err: cause}
}

func conflict(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

func internal(err error, op string) error {
	return &Error{Kind: KindInternal, Msg: op, Err: err}
}

// lookupError turns a gorm read failure into NotFound or Internal.
func lookupError(err error, what string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("%s ID %d not found", what, id)
	}
	return internal(err, fmt.Sprintf("failed to load %s %d", what, id))
}

// passThrough keeps typed service errors intact and wraps anything else.
func passThrough(err error, op string) error {
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return internal(err, op)
}
