// Package common provides the error taxonomy and result type shared by all
// flow-config use cases. Handlers translate these values into HTTP responses;
// use cases never write to the transport directly.
package common

// Result represents the outcome of a use case execution. A use case either
// produces a value or a typed UseCaseError; it never panics for well-formed
// input and never returns a bare boolean, so callers can always distinguish
// denial reasons.
type Result[T any] struct {
	value   T
	err     *UseCaseError
	success bool
}

// Success creates a successful result carrying the given value.
func Success[T any](value T) Result[T] {
	return Result[T]{
		value:   value,
		success: true,
	}
}

// Failure creates a failed result.
func Failure[T any](err *UseCaseError) Result[T] {
	return Result[T]{
		err:     err,
		success: false,
	}
}

// IsSuccess returns true if the result is successful.
func (r Result[T]) IsSuccess() bool {
	return r.success
}

// IsFailure returns true if the result is a failure.
func (r Result[T]) IsFailure() bool {
	return !r.success
}

// Value returns the success value.
// Should only be called after checking IsSuccess().
func (r Result[T]) Value() T {
	return r.value
}

// Error returns the error if the result is a failure, nil otherwise.
func (r Result[T]) Error() *UseCaseError {
	return r.err
}

// Map transforms a successful result's value using the provided function.
// If the result is a failure, it returns the failure unchanged.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.IsFailure() {
		return Failure[U](r.err)
	}
	return Success(fn(r.value))
}
