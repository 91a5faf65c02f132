package roto

import "errors"

// Errors reported by shape editing and curve evaluation. Packages wrap these
// with additional detail, so clients should test with errors.Is.
//
// Query misses are not errors: lookups return an additional ok flag.
var (
	// ErrInvalidArgument indicates a bad index, point count or parameter.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidState indicates an operation illegal for a finished or unfinished curve.
	ErrInvalidState = errors.New("operation not allowed in current curve state")
	// ErrPrecondition indicates an edit without auto-keying or a keyframe at the edit time.
	ErrPrecondition = errors.New("edit requires auto-keying or a keyframe at edit time")
)
