// Package apperr classifies the failures a lotto query can end with.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindUpstreamUnavailable
	KindParse
	KindNotFound
	KindPageOutOfRange
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	case KindParse:
		return "parse"
	case KindNotFound:
		return "not_found"
	case KindPageOutOfRange:
		return "page_out_of_range"
	}
	return "unknown"
}

// Error carries a user facing message and optionally the error that caused it.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error appends the cause unless the message already carries it.
func (e *Error) Error() string {
	if e.Err != nil && !strings.Contains(e.Message, e.Err.Error()) {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// UpstreamUnavailable wraps a failure to reach the PCSO site.
func UpstreamUnavailable(err error) *Error {
	return &Error{
		Kind:    KindUpstreamUnavailable,
		Message: fmt.Sprintf("Network error contacting PCSO: %v", err),
		Err:     err,
	}
}

func Parse(message string, err error) *Error {
	return &Error{Kind: KindParse, Message: message, Err: err}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func PageOutOfRange(message string) *Error {
	return &Error{Kind: KindPageOutOfRange, Message: message}
}

// KindOf returns the kind of the first *Error in err's chain, KindUnknown if there is none.
func KindOf(err error) Kind {
	var target *Error
	if errors.As(err, &target) {
		return target.Kind
	}
	return KindUnknown
}

// MessageOf returns the user facing message of err, for errors outside the taxonomy this is
// err.Error().
func MessageOf(err error) string {
	var target *Error
	if errors.As(err, &target) {
		return target.Message
	}
	return err.Error()
}
