package service

import (
	"errors"
	"fmt"

	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/robalyx/squadpledge/internal/ledger"
)

// Kind classifies a domain failure.
type Kind string

const (
	KindAccessDenied    Kind = "AccessDenied"
	KindNotFound        Kind = "NotFound"
	KindInvalidState    Kind = "InvalidState"
	KindBudgetExceeded  Kind = "BudgetExceeded"
	KindConflict        Kind = "Conflict"
	KindValidationError Kind = "ValidationError"
)

// Sentinels for matching with errors.Is.
var (
	ErrAccessDenied    = &Error{Kind: KindAccessDenied}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrInvalidState    = &Error{Kind: KindInvalidState}
	ErrBudgetExceeded  = &Error{Kind: KindBudgetExceeded}
	ErrConflict        = &Error{Kind: KindConflict}
	ErrValidationError = &Error{Kind: KindValidationError}
)

// Error is a domain failure returned by every service operation.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message == "" && e.Err == nil:
		return string(e.Kind)
	case e.Message == "":
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.Kind == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the domain kind of err, or "" for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return ""
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func accessDenied(format string, args ...any) *Error {
	return newError(KindAccessDenied, format, args...)
}

func notFound(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

func invalidState(format string, args ...any) *Error {
	return newError(KindInvalidState, format, args...)
}

func conflict(format string, args ...any) *Error {
	return newError(KindConflict, format, args...)
}

func validation(format string, args ...any) *Error {
	return newError(KindValidationError, format, args...)
}

// classify converts storage and ledger errors into domain errors.
// Errors that are already classified or unknown are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return err
	}

	switch {
	case errors.Is(err, types.ErrProjectNotFound),
		errors.Is(err, types.ErrTaskNotFound),
		errors.Is(err, types.ErrPledgeNotFound),
		errors.Is(err, types.ErrProfileNotFound),
		errors.Is(err, types.ErrApprovalNotFound):
		return &Error{Kind: KindNotFound, Message: err.Error(), Err: err}
	case errors.Is(err, types.ErrProfileExists),
		errors.Is(err, types.ErrVoteExists),
		errors.Is(err, types.ErrRatingExists),
		errors.Is(err, types.ErrChallengeExists):
		return &Error{Kind: KindConflict, Message: err.Error(), Err: err}
	case errors.Is(err, ledger.ErrBudgetExceeded):
		return &Error{Kind: KindBudgetExceeded, Message: err.Error(), Err: err}
	case errors.Is(err, ledger.ErrUnknownTask):
		return &Error{Kind: KindValidationError, Message: err.Error(), Err: err}
	}

	return err
}
