package apperror

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrNotFound is returned when a referenced row (parent, user, entity) does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write or a migration step collides with existing state.
	ErrConflict = errors.New("conflict")
	// ErrIntegrityViolation is returned when the store rejects a write on a
	// foreign-key or uniqueness constraint.
	ErrIntegrityViolation = errors.New("integrity violation")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrForbidden          = errors.New("forbidden")
	ErrInsufficientStock  = errors.New("insufficient stock")
	// ErrStorageUnavailable is returned by file operations when object storage is not configured.
	ErrStorageUnavailable = errors.New("object storage is not configured")
	// ErrInvalidInput marks malformed uploaded data, such as a bad CSV row.
	ErrInvalidInput = errors.New("invalid input")
)

// NotFound wraps ErrNotFound with the kind and id that could not be found.
func NotFound[K ~string](kind K, id any) error {
	return fmt.Errorf("%s %v: %w", kind, id, ErrNotFound)
}

// MigrationError reports the step that halted a migration run.
type MigrationError struct {
	Step string
	Err  error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration step %q: %v", e.Step, e.Err)
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}

// InsufficientStockError reports a usage larger than the stock on hand.
type InsufficientStockError struct {
	Available float64
	Requested float64
	Unit      string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock. Available: %s %s, Requested: %s %s",
		strconv.FormatFloat(e.Available, 'f', -1, 64), e.Unit,
		strconv.FormatFloat(e.Requested, 'f', -1, 64), e.Unit)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
