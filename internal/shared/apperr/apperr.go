package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind classifies an error for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindInsufficientBalance
	KindOutOfStock
	KindTooManyRequests
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindForbidden:
		return "FORBIDDEN"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	case KindInsufficientBalance:
		return "INSUFFICIENT_BALANCE"
	case KindOutOfStock:
		return "OUT_OF_STOCK"
	case KindTooManyRequests:
		return "TOO_MANY_REQUESTS"
	default:
		return "INTERNAL_ERROR"
	}
}

// Error is the domain error carried from repositories up to handlers.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

// Error implements error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap allows error wrapping compatibility
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on code, so a sentinel still matches after Wrap or WithMessage.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New declares a sentinel.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap attaches a cause to a copy of the sentinel.
func (e *Error) Wrap(err error) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: e.Message, Err: err}
}

// WithMessage returns a copy of the sentinel with a more specific message.
func (e *Error) WithMessage(format string, args ...interface{}) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...), Err: e.Err}
}

// ============================================
// GENERIC ERRORS
// ============================================

var (
	ErrInvalidInput  = New(KindValidation, "GEN001", "Invalid input")
	ErrUnauthorized  = New(KindUnauthorized, "GEN002", "Authentication required")
	ErrForbidden     = New(KindForbidden, "GEN003", "You are not allowed to perform this action")
	ErrDuplicate     = New(KindConflict, "GEN004", "Resource already exists")
	ErrReference     = New(KindValidation, "GEN005", "Referenced resource does not exist")
	ErrInUse         = New(KindConflict, "GEN006", "Resource is still referenced")
	ErrInternal      = New(KindInternal, "GEN500", "Internal server error")
	ErrTooManyTrials = New(KindTooManyRequests, "GEN429", "Too many requests, please try again later")
)

// KindOf returns the kind of the first *Error in the chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to a response status.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInsufficientBalance, KindOutOfStock:
		return http.StatusUnprocessableEntity
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// ============================================
// POSTGRES ERROR MAPPING
// ============================================

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNumericOutOfRange   = "22003"
)

// FromPg maps constraint violations to domain errors.
// onUnique overrides the generic duplicate error when not nil.
func FromPg(err error, onUnique *Error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		if onUnique != nil {
			return onUnique.Wrap(err)
		}
		return ErrDuplicate.Wrap(err)
	case pgForeignKeyViolation:
		// Deleting a parent row that is still referenced vs inserting a dangling reference
		if strings.Contains(pgErr.Detail, "is still referenced") {
			return ErrInUse.Wrap(err)
		}
		return ErrReference.Wrap(err)
	case pgCheckViolation:
		return ErrInvalidInput.WithMessage("Constraint %s violated", pgErr.ConstraintName).Wrap(err)
	case pgNumericOutOfRange:
		return ErrInvalidInput.WithMessage("Numeric value out of range").Wrap(err)
	}
	return err
}
