package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// translateError maps a unique violation to duplicate and wraps anything else
// with op. gorm only translates the code when the connection was opened with
// TranslateError, so the raw pgconn error is checked too.
func translateError(err error, op string, duplicate error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return duplicate
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return duplicate
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// isNotFound reports whether a First/Take query matched no row
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
