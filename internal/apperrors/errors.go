// Package apperrors provides the typed error taxonomy surfaced by the playback
// controller and the HTTP layer. Message is always safe to show to the user;
// Internal carries details meant for logs only.
package apperrors

import (
	"errors"
	"fmt"
)

// Code categorizes errors for consistent handling across the agent.
type Code int

const (
	// CodeUnknown indicates an unspecified error type
	CodeUnknown Code = iota
	// CodeInput indicates input rejected before playback starts (empty text, no media)
	CodeInput
	// CodeSynthesis indicates the speech provider call failed
	CodeSynthesis
	// CodePlaybackResource indicates the audio resource failed to play
	CodePlaybackResource
	// CodeNotFound indicates a requested resource does not exist
	CodeNotFound
	// CodeDatabase indicates a database operation failure
	CodeDatabase
	// CodeUnauthorized indicates authentication is required
	CodeUnauthorized
)

type Error struct {
	Code     Code
	Message  string
	Internal string
	Field    string
	Err      error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) WithInternal(format string, args ...any) *Error {
	e.Internal = fmt.Sprintf(format, args...)
	return e
}

func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func (c Code) String() string {
	switch c {
	case CodeUnknown:
		return "unknown"
	case CodeInput:
		return "input"
	case CodeSynthesis:
		return "synthesis"
	case CodePlaybackResource:
		return "playback_resource"
	case CodeNotFound:
		return "not_found"
	case CodeDatabase:
		return "database"
	case CodeUnauthorized:
		return "unauthorized"
	default:
		return fmt.Sprintf("unknown_code_%d", c)
	}
}

func Input(message string) *Error {
	return &Error{Code: CodeInput, Message: message}
}

func Synthesis(message string) *Error {
	return &Error{Code: CodeSynthesis, Message: message}
}

func PlaybackResource(message string) *Error {
	return &Error{Code: CodePlaybackResource, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

func Database(message string) *Error {
	return &Error{Code: CodeDatabase, Message: message}
}

// CodeOf returns the code of the first *Error in err's chain, or CodeUnknown.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}
