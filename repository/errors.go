package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrDuplicateEmail is returned when inserting a user whose email is already taken.
var ErrDuplicateEmail = errors.New("email already registered")

const uniqueViolation = pq.ErrorCode("23505")

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
