package extract

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned by tiers that have nothing to work on.
var ErrEmptyInput = errors.New("no text to extract from")

// RemoteServiceError wraps a failed call to the extraction service: network,
// auth, quota, timeout or a broken stream.
type RemoteServiceError struct {
	Err error
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("remote extraction failed: %v", e.Err)
}

func (e *RemoteServiceError) Unwrap() error { return e.Err }

// ParseError reports service output that could not be turned into a Record.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse extraction output: %s: %v", e.Reason, e.Err)
	}
	return "parse extraction output: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }
