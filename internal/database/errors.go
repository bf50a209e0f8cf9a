package database

import (
	"errors"

	"github.com/lib/pq"
)

// Postgres error code for unique constraint violations
const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation (duplicate email, duplicate employment, duplicate assignment).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolationCode
	}
	return false
}
