package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/user/notecards/internal/content"
)

// mapError converts driver errors to content errors.
// context.DeadlineExceeded and context.Canceled pass through wrapped.
func mapError(err error, id string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("content item %s: %w", id, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("content item %s: %w", id, content.ErrNotFound)
	}

	// Constraint violations become validation errors naming only the column;
	// the driver text stays in the server log.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23514", "23502": // check_violation, not_null_violation
			field := pgErr.ColumnName
			if field == "" {
				field = constraintField(pgErr.ConstraintName)
			}
			return content.NewValidationError(field, "invalid value")
		}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
			return content.NewValidationError(constraintField(liteErr.Error()), "invalid value")
		}
	}

	return fmt.Errorf("content item %s: %w", id, err)
}

// constraintField picks the first column named in a driver message such as
// "NOT NULL constraint failed: content_items.title" or "content_items_title_check".
func constraintField(msg string) string {
	words := strings.FieldsFunc(msg, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		for _, col := range columns {
			if w == col {
				return col
			}
		}
	}
	return "item"
}
