package services

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrVendorNotFound      = errors.New("vendor not found")
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrFundNotFound        = errors.New("fund transaction not found")
	ErrTransactionNotFound = errors.New("vendor transaction not found")
	ErrInvalidStatus       = errors.New("status must be paid or pending")
	ErrInvalidFundType     = errors.New("fund type must be deposit or withdraw")
	ErrNegativeAmount      = errors.New("amount must not be negative")
	ErrDuplicateLineID     = errors.New("line id is already used in this order")

	// ErrInvalidBackup is returned when an import file fails validation.
	// Nothing has been written when it is returned.
	ErrInvalidBackup = errors.New("invalid database file format")

	// ErrBackupIO is returned when the backup file cannot be read or written.
	ErrBackupIO = errors.New("backup file error")
)

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func newValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: err.Error(), Err: err}
}

// BackupError wraps failures of the import/export bridge with the operation
// that failed.
type BackupError struct {
	Op  string
	Err error
}

func (e *BackupError) Error() string {
	return fmt.Sprintf("backup: %s failed: %v", e.Op, e.Err)
}

func (e *BackupError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is one of the not-found errors above.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrVendorNotFound) ||
		errors.Is(err, ErrExpenseNotFound) ||
		errors.Is(err, ErrFundNotFound) ||
		errors.Is(err, ErrTransactionNotFound)
}

// IsValidation reports whether err was caused by bad input.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrInvalidBackup)
}
