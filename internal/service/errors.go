package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinel errors surfaced to handlers. Wrapped errors keep the entity in the
// message ("brand 1f0c...: not found").
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("already exists")
	ErrInvalidReference = errors.New("references an unknown record")
	ErrUnprocessable    = errors.New("cannot be processed")
)

// dbErr translates a repository error into one of the sentinels above.
// Unique violations are reported, never retried.
func dbErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", what, ErrConflict)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: %w", what, ErrInvalidReference)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

// refErr reports a missing parent as an invalid reference rather than a 404:
// the request names something that does not exist.
func refErr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrInvalidReference)
	}
	return dbErr(err, what)
}
