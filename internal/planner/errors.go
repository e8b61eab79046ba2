package planner

import "errors"

// ErrCancelled is returned when the caller-supplied context is cancelled (or
// its deadline passes) mid-search. The Planner is otherwise infallible for
// well-formed inputs: routing impossibility is an empty result, not an
// error.
var ErrCancelled = errors.New("journey search cancelled")
