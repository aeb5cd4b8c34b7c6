package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a block, block name, end marker or statement cannot be located in scope.
var ErrNotFound = errors.New("not found")

// ErrAnchorNotFound is returned when a structural anchor (such as the equation section) is missing.
var ErrAnchorNotFound = errors.New("anchor not found")

// ErrAmbiguous is returned when more than one candidate matches where exactly one is expected.
var ErrAmbiguous = errors.New("ambiguous match")

// ErrInvalidPath is returned when a dotted path cannot be parsed.
var ErrInvalidPath = errors.New("invalid path")

// ErrInvalidArgument is returned when an operation is missing a required field.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrUnbalanced is returned by the outline scanner when start and end markers do not pair up.
var ErrUnbalanced = errors.New("unbalanced block markers")

// ErrDocumentNotFound is returned when a document ID cannot be found in the store.
var ErrDocumentNotFound = errors.New("document not found")

// EditError reports a failed resolution or mutation.
// Kind is one of the sentinel errors above and is exposed through Unwrap.
type EditError struct {
	Op     string // Operation that failed, e.g. "resolve" or "edit_parameter"
	Kind   error  // Sentinel describing the failure class
	Target string // Path segment, block name or statement that was not matched
	Detail string // Optional human-readable context
}

func (e *EditError) Error() string {
	msg := fmt.Sprintf("%s: %q %s", e.Op, e.Target, e.Kind)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *EditError) Unwrap() error {
	return e.Kind
}

// NewEditError is a shorthand for building an EditError.
func NewEditError(op string, kind error, target, detail string) *EditError {
	return &EditError{Op: op, Kind: kind, Target: target, Detail: detail}
}

// IsNotFound reports whether err belongs to the NotFound class (missing block or missing anchor).
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrAnchorNotFound)
}

// FailedTarget returns the segment or name carried by an EditError in the chain.
func FailedTarget(err error) (string, bool) {
	var ee *EditError
	if errors.As(err, &ee) {
		return ee.Target, true
	}
	return "", false
}
