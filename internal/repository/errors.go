package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicatePending is returned when a unique partial index rejects a
// second pending row (edit suggestions, reports).
var ErrDuplicatePending = errors.New("a pending entry already exists")

const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a Postgres unique constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
