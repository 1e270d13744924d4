package store

import "errors"

// Errors returned by Store operations. They are wrapped with the operation
// and the offending id or index; match them with errors.Is.
var (
	ErrNotFound           = errors.New("item not found")
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrInvariantViolation = errors.New("store invariant violated")
)
