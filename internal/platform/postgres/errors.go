package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/store"
)

// sqlstateErrors maps PostgreSQL SQLSTATE codes onto store sentinels.
var sqlstateErrors = map[string]error{
	"23505": store.ErrDuplicate,     // unique_violation
	"23502": store.ErrInvalidEntity, // not_null_violation
	"23514": store.ErrInvalidEntity, // check_violation
	"22P02": store.ErrInvalidEntity, // invalid_text_representation (bad JSON)
	"22032": store.ErrInvalidEntity, // invalid_json_text
	"42703": store.ErrInvalidQuery,  // undefined_column
	"42883": store.ErrInvalidQuery,  // undefined_function, e.g. comparing jsonb to text
}

// MapError translates a driver error into a store sentinel, keeping the
// original text for the log. Unrecognised errors are returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if sentinel, ok := sqlstateErrors[pgErr.Code]; ok {
			if pgErr.ConstraintName != "" {
				return fmt.Errorf("%w (%s): %v", sentinel, pgErr.ConstraintName, err)
			}
			return fmt.Errorf("%w: %v", sentinel, err)
		}
	}
	return err
}

// CheckRowsAffected returns notFound (store.ErrNotFound when nil) if result
// touched no rows.
func CheckRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return errors.New("nil result provided to CheckRowsAffected")
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}
	if notFound == nil {
		return store.ErrNotFound
	}
	return notFound
}
