package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgCodeUniqueViolation      = "23505"
	pgCodeSerializationFailure = "40001"
	pgCodeDeadlockDetected     = "40P01"
)

// pgErrorCode достаёт SQLSTATE из ошибки pgx; пустая строка, если это
// не ошибка PostgreSQL.
func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// uniqueViolationConstraint возвращает имя нарушенного ограничения
// уникальности, чтобы отличать коллизию SKU от коллизии первичного ключа.
func uniqueViolationConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgCodeUniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// isRetryableTxError сообщает, что транзакцию имеет смысл повторить:
// serialization failure или deadlock.
func isRetryableTxError(err error) bool {
	code := pgErrorCode(err)
	return code == pgCodeSerializationFailure || code == pgCodeDeadlockDetected
}
