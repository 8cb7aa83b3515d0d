package controlbreak

import "errors"

// Usage errors. They are returned wrapped with context; match with errors.Is.
var (
	ErrMissingLevels         = errors.New("at least one level is required")
	ErrInvalidLevelName      = errors.New("invalid level name")
	ErrDuplicateLevelName    = errors.New("duplicate level name")
	ErrInvalidOperator       = errors.New("invalid comparison operator")
	ErrArgumentCountMismatch = errors.New("argument count mismatch")
	ErrInvalidLevel          = errors.New("invalid level")
	ErrNotCallable           = errors.New("callback is not callable")
)
