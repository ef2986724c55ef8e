package invoice

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInputShape indicates a required field is missing or malformed.
	ErrInputShape = errors.New("invoice: invalid input")
	// ErrRangeViolation indicates a negative amount or non-positive quantity.
	ErrRangeViolation = errors.New("invoice: value out of range")
	// ErrNotFound is returned by stores when no invoice has the requested number.
	ErrNotFound = errors.New("invoice: not found")
	// ErrStoreUnavailable is returned when stored invoices are requested without a store.
	ErrStoreUnavailable = errors.New("invoice: store not configured")
)

// ValidationError rejects an invoice. It unwraps to ErrInputShape or ErrRangeViolation.
type ValidationError struct {
	Err        error
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		fields = append(fields, v.Field+": "+v.Code)
	}
	if len(fields) == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s (%s)", e.Err, strings.Join(fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
