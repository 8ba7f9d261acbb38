package parser

import (
	"errors"
	"fmt"
)

// ErrInvalid is matched by errors.Is for every error in this package's
// taxonomy. It plays the role of a generic "bad value" category.
var ErrInvalid = errors.New("invalid value")

// Error is implemented by every error the package reports for a bad format or
// a non-matching entry.
type Error interface {
	error
	apacheLogsError()
}

// InvalidDirectiveError reports a malformed directive, such as a lone "%" or
// modifiers inside a %{...}t time format.
type InvalidDirectiveError struct {
	// Format is the log format being compiled.
	Format string
	// Pos is the byte offset of the offending directive within Format.
	Pos int
}

func (e *InvalidDirectiveError) Error() string {
	return fmt.Sprintf("Invalid log format directive at index %d of %q", e.Pos, e.Format)
}

func (e *InvalidDirectiveError) Is(target error) bool { return target == ErrInvalid }

func (*InvalidDirectiveError) apacheLogsError() {}

// UnknownDirectiveError reports a well-formed directive with no table entry.
type UnknownDirectiveError struct {
	// Directive is the complete directive text, modifiers and parameter
	// included.
	Directive string
}

func (e *UnknownDirectiveError) Error() string {
	return fmt.Sprintf("Unknown log format directive: %q", e.Directive)
}

func (e *UnknownDirectiveError) Is(target error) bool { return target == ErrInvalid }

func (*UnknownDirectiveError) apacheLogsError() {}

// InvalidEntryError reports a log line that does not match the format.
type InvalidEntryError struct {
	// Entry is the line with trailing line terminators removed.
	Entry  string
	Format string
	// Err is set when the line matched but a captured value could not be
	// converted, for example an impossible calendar date.
	Err error
}

func (e *InvalidEntryError) Error() string {
	msg := fmt.Sprintf("Could not match log entry %q against log format %q", e.Entry, e.Format)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidEntryError) Unwrap() error { return e.Err }

func (e *InvalidEntryError) Is(target error) bool { return target == ErrInvalid }

func (*InvalidEntryError) apacheLogsError() {}
