// Package result implements a tagged success/failure value used by the
// validation and data-access layers in place of error returns for expected
// failures.
package result

import "fmt"

// Result holds exactly one of a success value of type T or a failure value
// of type E.
type Result[T, E any] struct {
	value T
	err   E
	ok    bool
}

// Success wraps value as a successful Result.
func Success[T, E any](value T) Result[T, E] {
	return Result[T, E]{value: value, ok: true}
}

// Failure wraps err as a failed Result.
func Failure[T, E any](err E) Result[T, E] {
	return Result[T, E]{err: err}
}

func (r Result[T, E]) IsSuccess() bool { return r.ok }

func (r Result[T, E]) IsFailure() bool { return !r.ok }

// Unwrap returns the success value. It panics on a failure, so call it only
// after IsSuccess has been checked.
func (r Result[T, E]) Unwrap() T {
	if !r.ok {
		panic(fmt.Sprintf("result: Unwrap called on failure: %v", r.err))
	}
	return r.value
}

// Failure returns the failure payload. It panics on a success.
func (r Result[T, E]) Failure() E {
	if r.ok {
		panic("result: Failure called on success")
	}
	return r.err
}

func (r Result[T, E]) String() string {
	if r.ok {
		return fmt.Sprintf("Success(%v)", r.value)
	}
	return fmt.Sprintf("Failure(%v)", r.err)
}
