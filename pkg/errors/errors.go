package errors

import (
	"errors"
	"fmt"
)

// Failure kinds
var (
	ErrValidation = errors.New("validation failed")
	ErrMerge      = errors.New("merge failed")
)

// ValidationError reports JSON data whose shape disagrees with the expected
// schema. Message already includes the document name and key path.
type ValidationError struct {
	Message string
	// Record is the raw top-level record the defect was found in, if known.
	Record any
}

// Error returns the error message
func (e *ValidationError) Error() string {
	return e.Message
}

// Is reports whether target is ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// WithRecord returns a copy of the error that carries the raw record.
func (e *ValidationError) WithRecord(record any) *ValidationError {
	return &ValidationError{Message: e.Message, Record: record}
}

// MergeError reports two values that were expected to be mergeable but are not.
type MergeError struct {
	Message string
	Values  []any
}

// Error returns the error message
func (e *MergeError) Error() string {
	return e.Message
}

// Is reports whether target is ErrMerge
func (e *MergeError) Is(target error) bool {
	return target == ErrMerge
}

// Invalid creates a validation error with a formatted message
func Invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Unmergeable creates a merge error carrying the conflicting values
func Unmergeable(message string, values ...any) error {
	return &MergeError{Message: message, Values: values}
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// IsValidation returns true if the error is a structural validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsMerge returns true if the error is a consistency error
func IsMerge(err error) bool {
	return errors.Is(err, ErrMerge)
}

// Details returns the values attached to a failure for diagnostic display:
// the raw record of a validation error or the conflicting values of a merge error.
func Details(err error) []any {
	var verr *ValidationError
	if errors.As(err, &verr) {
		if verr.Record == nil {
			return nil
		}
		return []any{verr.Record}
	}
	var merr *MergeError
	if errors.As(err, &merr) {
		return merr.Values
	}
	return nil
}
