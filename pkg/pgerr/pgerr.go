// Package pgerr classifies PostgreSQL errors returned by lib/pq.
package pgerr

import (
	"errors"

	"github.com/lib/pq"
)

// SQLSTATE codes used by the service
const (
	CodeUniqueViolation      = "23505"
	CodeForeignKeyViolation  = "23503"
	CodeCheckViolation       = "23514"
	CodeExclusionViolation   = "23P01"
	CodeSerializationFailure = "40001"
	CodeDeadlockDetected     = "40P01"
)

// Code returns the SQLSTATE of err or "" if err is not a postgres error
func Code(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func IsUniqueViolation(err error) bool {
	return Code(err) == CodeUniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	return Code(err) == CodeForeignKeyViolation
}

// IsSerializationFailure covers both serialization failures and deadlocks:
// in both cases the transaction lost a race and may be retried by the caller.
func IsSerializationFailure(err error) bool {
	code := Code(err)
	return code == CodeSerializationFailure || code == CodeDeadlockDetected
}

// IsBookingConflict reports errors meaning another writer already took the interval
func IsBookingConflict(err error) bool {
	switch Code(err) {
	case CodeExclusionViolation, CodeUniqueViolation, CodeSerializationFailure, CodeDeadlockDetected:
		return true
	default:
		return false
	}
}
