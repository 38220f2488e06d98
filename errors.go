package framepack

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// EncoderError is the error type returned by every package in this module. It
// carries a human-readable message and keeps the chain of errors it was derived
// from, so [errors.Is] works against the sentinel values below.
type EncoderError interface {
	error
	WithMessage(message string) EncoderError
	Wrap(err error) EncoderError
}

type baseEncoderError string

const rootError = baseEncoderError("")

var ErrBudgetExceeded = rootError.WithMessage("Animation does not fit in the size budget")
var ErrInvalidArgument = rootError.WithMessage("Invalid argument")
var ErrInvalidProfile = rootError.WithMessage("Invalid platform profile")
var ErrIOFailed = rootError.WithMessage("Input/output error")
var ErrMalformedFrame = rootError.WithMessage("Malformed frame")
var ErrManifestMismatch = rootError.WithMessage("Resource does not match its manifest")
var ErrNoFrames = rootError.WithMessage("No frames to encode")
var ErrNotFound = rootError.WithMessage("No such file or directory")
var ErrNotSupported = rootError.WithMessage("Operation not supported")
var ErrSealed = rootError.WithMessage("Bit stream already finalized")

func (e baseEncoderError) Error() string {
	return string(e)
}

func (e baseEncoderError) WithMessage(message string) EncoderError {
	return customEncoderError{
		message:       message,
		originalError: e,
	}
}

func (e baseEncoderError) Wrap(err error) EncoderError {
	return customEncoderError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

// -----------------------------------------------------------------------------

type customEncoderError struct {
	message       string
	originalError error
}

// Error implements the `error` object interface. When called, it returns a string
// describing the error.
func (e customEncoderError) Error() string {
	return e.message
}

func (e customEncoderError) WithMessage(message string) EncoderError {
	return customEncoderError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

func (e customEncoderError) Wrap(err error) EncoderError {
	return customEncoderError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e customEncoderError) Unwrap() error {
	return e.originalError
}
