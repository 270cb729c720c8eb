package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is a unique-constraint failure from postgres
// (pgx or lib/pq) or sqlite. When constraintName is set it must match the constraint
// reported by postgres; other drivers only carry it in the message.
func IsUniqueViolation(err error, constraintName string) bool {
	return matchesConstraint(err, pgUniqueViolation, constraintName, gorm.ErrDuplicatedKey,
		"duplicate key value", "UNIQUE constraint failed")
}

// IsForeignKeyViolation reports a write or delete rejected by a foreign key, such as
// deleting a parent row that still has children.
func IsForeignKeyViolation(err error, constraintName string) bool {
	return matchesConstraint(err, pgForeignKeyViolation, constraintName, gorm.ErrForeignKeyViolated,
		"violates foreign key constraint", "FOREIGN KEY constraint failed")
}

func matchesConstraint(err error, pgCode, constraintName string, sentinel error, fallbacks ...string) bool {
	if err == nil {
		return false
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == pgCode && (constraintName == "" || pgxErr.ConstraintName == constraintName)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgCode && (constraintName == "" || pqErr.Constraint == constraintName)
	}

	if constraintName != "" && !strings.Contains(err.Error(), constraintName) {
		return false
	}
	if errors.Is(err, sentinel) {
		return true
	}
	msg := err.Error()
	for _, fragment := range fallbacks {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

// ReferencingTable names the table whose foreign key rejected a postgres write, or ""
// when the driver does not report it.
func ReferencingTable(err error) string {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.TableName
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Table
	}
	return ""
}

// IsNotFound reports gorm's record-not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
