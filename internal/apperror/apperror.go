package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error so the HTTP layer can pick a status code.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindDuplicate         Kind = "duplicate"
	KindInsufficientStock Kind = "insufficient_stock"
	KindInvalidArgument   Kind = "invalid_argument"
	KindUnauthorized      Kind = "unauthorized"
	KindForbidden         Kind = "forbidden"
	KindConflict          Kind = "conflict"
	KindInternal          Kind = "internal"
)

// Sentinels for errors.Is checks against a kind.
var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrDuplicate         = &Error{Kind: KindDuplicate}
	ErrInsufficientStock = &Error{Kind: KindInsufficientStock}
	ErrInvalidArgument   = &Error{Kind: KindInvalidArgument}
	ErrUnauthorized      = &Error{Kind: KindUnauthorized}
	ErrForbidden         = &Error{Kind: KindForbidden}
	ErrConflict          = &Error{Kind: KindConflict}
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports a match when target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func NotFound(entity string, id any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s '%v' not found", entity, id)}
}

func Duplicate(entity, field string, value any) error {
	return &Error{Kind: KindDuplicate, Message: fmt.Sprintf("%s with %s '%v' already exists", entity, field, value)}
}

func Invalid(format string, args ...any) error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(msg string) error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func Forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// InsufficientStockError is raised when a removal exceeds the available quantity.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product '%s': requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == KindInsufficientStock
}

func InsufficientStock(productID string, requested, available int) error {
	return &InsufficientStockError{ProductID: productID, Requested: requested, Available: available}
}

// KindOf returns the kind carried by err, or KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var stock *InsufficientStockError
	if errors.As(err, &stock) {
		return KindInsufficientStock
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
