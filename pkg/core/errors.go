package core

import "errors"

// Sentinel errors. Operations wrap them with context; match with errors.Is.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrDuplicateID   = errors.New("duplicate id")
	ErrNotFound      = errors.New("not found")
	ErrInUse         = errors.New("in use by an active loan")
	ErrUnavailable   = errors.New("book is not available")
	ErrLimitExceeded = errors.New("loan limit exceeded")
	ErrNoActiveLoan  = errors.New("no active loan")
	ErrPersistence   = errors.New("persistence failure")
)
