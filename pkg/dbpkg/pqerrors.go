package dbpkg

import "github.com/lib/pq"

// Postgres SQLSTATE codes that abort an attempt without making it a
// terminal business failure.
const (
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
	pqLockNotAvailable     = "55P03"
)

// IsConflictError reports whether the error is a lock or serialization
// conflict that the caller may retry.
func IsConflictError(err error) bool {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return false
	}

	switch string(pqErr.Code) {
	case pqSerializationFailure, pqDeadlockDetected, pqLockNotAvailable:
		return true
	}

	return false
}
