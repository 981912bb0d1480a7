package reach

import "github.com/pkg/errors"

// ErrInconsistentInput is returned by the root package's New when it is
// given a nil DTG graph or a nil term manager (spec.md §7). An initial
// state naming an unknown object is not reported with this error.
var ErrInconsistentInput = errors.New("reach: inconsistent input")

// ErrResourceExhausted is returned by Driver.Run when the fixed point was
// not reached within the configured iteration budget (spec.md §7).
var ErrResourceExhausted = errors.New("reach: iteration budget exhausted before reaching a fixed point")

// ErrInvariantViolation wraps a panic recovered from one of the engine's
// invariantf assertions, surfaced to callers of the public Engine API
// instead of crashing the process (spec.md §7: "invariant violations
// indicate engine bugs, not malformed input").
var ErrInvariantViolation = errors.New("reach: internal invariant violation")
