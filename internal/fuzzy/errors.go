package fuzzy

import "errors"

// Configuration errors are returned while building a System and never by
// Evaluate: an invalid model must be rejected before first use.
var (
	ErrUnknownShape    = errors.New("unknown membership shape")
	ErrBadShapeParams  = errors.New("bad shape parameters")
	ErrInvalidSigma    = errors.New("sigma must be positive")
	ErrUnknownOperator = errors.New("unknown rule operator")
	ErrUnknownOutput   = errors.New("unknown output variable")
	ErrInvalidWeight   = errors.New("rule weight must be in [0,1]")
)
