package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error class 23: integrity constraint violations.
const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a unique constraint violation,
// such as a taken username or an already existing conversation pair.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
