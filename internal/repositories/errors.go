package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateForeignKeyViolation  = "23503"
	sqlStateNumericOutOfRange    = "22003"
)

// SQLState extracts the Postgres error code from either driver, or "" when err is not a Postgres error.
func SQLState(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}

// IsSerializationFailure reports whether the transaction lost a race and can be retried by the caller.
func IsSerializationFailure(err error) bool {
	code := SQLState(err)
	return code == sqlStateSerializationFailure || code == sqlStateDeadlockDetected
}

func IsForeignKeyViolation(err error) bool {
	return SQLState(err) == sqlStateForeignKeyViolation
}

// IsNumericOutOfRange reports a value that does not fit its column, such as an INTEGER quantity or a NUMERIC total.
func IsNumericOutOfRange(err error) bool {
	return SQLState(err) == sqlStateNumericOutOfRange
}
