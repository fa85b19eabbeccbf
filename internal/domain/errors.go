package domain

import (
	"errors"
	"fmt"
)

// Validation sentinels. Callers match with errors.Is; the wrapping
// ValidationError carries the field name and a readable message.
var (
	ErrInvalidIncome         = errors.New("invalid income")
	ErrUnknownState          = errors.New("unknown state")
	ErrInvalidRate           = errors.New("invalid rate")
	ErrInvalidHours          = errors.New("invalid hours")
	ErrInvalidLocation       = errors.New("invalid location")
	ErrInvalidDuration       = errors.New("invalid duration")
	ErrInvalidSalary         = errors.New("invalid salary")
	ErrInvalidPayPeriod      = errors.New("invalid pay period")
	ErrInvalidFilingStatus   = errors.New("invalid filing status")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrDeductionsExceedGross = errors.New("deductions exceed gross pay")
	ErrInvalidContractType   = errors.New("invalid contract type")
	ErrInvalidCalculation    = errors.New("invalid calculation")
)

// Domain sentinels.
var (
	ErrEmptyInputSet = errors.New("empty input set")
)

// Storage sentinels.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrQuotaExceeded      = errors.New("storage quota exceeded")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Export sentinels.
var (
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrNilResult         = errors.New("nothing to export")
)

// ValidationError names the offending input field.
type ValidationError struct {
	Field   string
	Err     error
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Invalid builds a ValidationError with a formatted message.
func Invalid(field string, sentinel error, format string, args ...any) error {
	return &ValidationError{Field: field, Err: sentinel, Message: fmt.Sprintf(format, args...)}
}

// StorageError wraps a failure reported by a history storage backend.
type StorageError struct {
	Op  string
	ID  string
	Err error
}

func (e *StorageError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("history %s %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("history %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Retryable reports whether the caller may try the operation again later.
func (e *StorageError) Retryable() bool {
	return errors.Is(e.Err, ErrQuotaExceeded) || errors.Is(e.Err, ErrStorageUnavailable)
}
