package canon

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// CanonError is the error type returned by every package in this module. The
// sentinels below are the root causes; errors.Is works against both the
// sentinel and any wrapped cause.
type CanonError interface {
	error
	WithMessage(message string) CanonError
	Wrap(err error) CanonError
}

type baseCanonError string

const rootError = baseCanonError("")

// ErrCapacityExceeded means an insertion would push the basis rank past the
// dimension of the ambient vector space. The offending element is never
// silently dropped.
var ErrCapacityExceeded = rootError.WithMessage("basis rank would exceed the space dimension")

// ErrInvalidWidth means a vector width outside the supported 1..64 range.
var ErrInvalidWidth = rootError.WithMessage("invalid vector width")

var ErrInvalidInput = rootError.WithMessage("input stream unreadable")
var ErrNotCanonFile = rootError.WithMessage("not a CANON file")
var ErrUnsupportedVersion = rootError.WithMessage("unsupported CANON format version")
var ErrCorruptContainer = rootError.WithMessage("corrupt CANON container")

func (e baseCanonError) Error() string {
	return string(e)
}

func (e baseCanonError) WithMessage(message string) CanonError {
	return customCanonError{
		message:       message,
		originalError: e,
	}
}

func (e baseCanonError) Wrap(err error) CanonError {
	return customCanonError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

// -----------------------------------------------------------------------------

type customCanonError struct {
	message       string
	originalError error
}

// Error implements the `error` object interface. When called, it returns a
// string describing the error.
func (e customCanonError) Error() string {
	return e.message
}

func (e customCanonError) WithMessage(message string) CanonError {
	return customCanonError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

func (e customCanonError) Wrap(err error) CanonError {
	return customCanonError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e customCanonError) Unwrap() error {
	return e.originalError
}
