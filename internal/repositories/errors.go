package repository

import "errors"

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrAlreadyExists   = errors.New("record already exists")
	ErrAlreadyPaid     = errors.New("order already paid")
	ErrLockNotAcquired = errors.New("lock not acquired")
)

// postgres unique_violation
const uniqueViolation = "23505"
