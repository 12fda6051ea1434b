package crud

import (
	"errors"
	"fmt"
	"strings"

	"github.com/frahmantamala/epic-crm/internal"
	"gorm.io/gorm"
)

// translate maps store failures onto the application error taxonomy.
// Errors that already carry an AppError pass through untouched.
func translate(kind, op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := internal.AsAppError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey) || looksLikeUniqueViolation(err):
		return internal.NewConflictError(
			fmt.Sprintf("%s already exists with one of these unique values", kind),
			internal.ErrCodeIntegrityViolation,
		).WithCause(err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return internal.NewConflictError(
			fmt.Sprintf("%s references a record that does not exist", kind),
			internal.ErrCodeIntegrityViolation,
		).WithCause(err)
	default:
		return internal.NewInternalError(fmt.Sprintf("failed to %s %s", op, kind), err)
	}
}

func looksLikeUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}
