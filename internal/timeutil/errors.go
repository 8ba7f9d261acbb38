package timeutil

import "errors"

var (
	// ErrIncomplete reports that the fields do not pin down a calendar date.
	ErrIncomplete = errors.New("timeutil: insufficient information to determine a date")
	// ErrOutOfRange reports a field combination that names no real date or time.
	ErrOutOfRange = errors.New("timeutil: value out of range")
	// ErrMalformed reports text that does not have the expected shape.
	ErrMalformed = errors.New("timeutil: malformed value")
)
