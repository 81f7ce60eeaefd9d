package common

import (
	"errors"
)

// Common error types used across projfind packages
var (
	ErrTargetEmpty    = errors.New("sentinel target cannot be empty")
	ErrTargetConflict = errors.New("sentinel target and pattern are mutually exclusive")
	ErrPatternInvalid = errors.New("sentinel pattern is not a valid regular expression")
	ErrNoRoots        = errors.New("at least one root path is required")
	ErrWorkerCount    = errors.New("worker count must be positive")
	ErrUnknownBackend = errors.New("unknown search backend")
	ErrWorkerPanic    = errors.New("search worker terminated abnormally")
)
