package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error crossing the service boundary.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindAuth               Kind = "auth"
	KindPermissionDenied   Kind = "permission_denied"
	KindNotFound           Kind = "not_found"
	KindBackend            Kind = "backend"
	KindStockInsufficient  Kind = "stock_insufficient"
	KindAccountExists      Kind = "account_exists"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindInvalidSession     Kind = "invalid_session"
)

// Error is the single error type returned by the service layer.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind, so errors.Is(err, apperr.ErrNotFound) works
// regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Kind sentinels for errors.Is.
var (
	ErrValidation         = &Error{Kind: KindValidation}
	ErrAuth               = &Error{Kind: KindAuth}
	ErrPermissionDenied   = &Error{Kind: KindPermissionDenied}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrBackend            = &Error{Kind: KindBackend}
	ErrStockInsufficient  = &Error{Kind: KindStockInsufficient}
	ErrAccountExists      = &Error{Kind: KindAccountExists}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
	ErrInvalidSession     = &Error{Kind: KindInvalidSession}
)

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

func Auth(format string, args ...any) *Error {
	return New(KindAuth, format, args...)
}

func PermissionDenied(format string, args ...any) *Error {
	return New(KindPermissionDenied, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

// Backend wraps an opaque collaborator failure; the original message is kept.
func Backend(err error) *Error {
	return &Error{Kind: KindBackend, Err: err}
}

// KindOf reports the kind of err, or KindBackend for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindBackend
}
