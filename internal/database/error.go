package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dsnakex/Biotech-Dashboard/internal/apperror"
	"gorm.io/gorm"
	"modernc.org/sqlite"
)

// SQLITE_CONSTRAINT primary result code
const sqliteConstraint = 19

// TranslateError maps store errors onto the apperror sentinels. Errors that
// are not recognised are returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, apperror.ErrNotFound), errors.Is(err, apperror.ErrIntegrityViolation):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", apperror.ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %w", apperror.ErrIntegrityViolation, err)
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqliteConstraint {
		return fmt.Errorf("%w: %w", apperror.ErrIntegrityViolation, err)
	}

	// drivers that gorm cannot translate still name the constraint in the message
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "foreign key constraint") || strings.Contains(msg, "unique constraint") {
		return fmt.Errorf("%w: %w", apperror.ErrIntegrityViolation, err)
	}

	return err
}
