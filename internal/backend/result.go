package backend

import "fmt"

// Code categorizes an expected backend failure.
type Code string

const (
	// CodeNotInitializable indicates Initialize was given an empty or
	// unusable data path.
	CodeNotInitializable Code = "not_initializable"
	// CodeNotInitialized indicates an operation was called before a
	// successful Initialize.
	CodeNotInitialized Code = "not_initialized"
	// CodeEntryNotFound indicates an operation referenced an unknown entry id.
	CodeEntryNotFound Code = "entry_not_found"
	// CodeInvalidInput indicates the entry or movement failed validation.
	CodeInvalidInput Code = "invalid_input"
	// CodeUnavailable indicates the underlying SDK call surface faulted.
	CodeUnavailable Code = "backend_unavailable"
	// CodeIOError indicates a file-system write failed.
	CodeIOError Code = "io_error"
)

// Failure is the typed outcome of an expected backend failure mode.
// It implements error so the worker's retry wrapper can treat backend
// failures and unexpected faults uniformly.
type Failure struct {
	Code    Code
	Message string
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

// FailureCode exposes the code for metric tagging.
func (f *Failure) FailureCode() string {
	return string(f.Code)
}

// Result is a discriminated outcome: success with a value, or failure
// with a code and message. Backend operations never return Go errors for
// expected failure modes; they return a failed Result instead.
type Result[T any] struct {
	value   T
	failure *Failure
}

// Ok returns a successful result carrying value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Fail returns a failed result with the given code and message.
func Fail[T any](code Code, message string) Result[T] {
	return Result[T]{failure: &Failure{Code: code, Message: message}}
}

// Failf returns a failed result with a formatted message.
func Failf[T any](code Code, format string, args ...any) Result[T] {
	return Fail[T](code, fmt.Sprintf(format, args...))
}

// OK reports whether the result is a success.
func (r Result[T]) OK() bool {
	return r.failure == nil
}

// Value returns the success value; the zero value on failure.
func (r Result[T]) Value() T {
	return r.value
}

// Failure returns the failure outcome, or nil on success.
func (r Result[T]) Failure() *Failure {
	return r.failure
}

// Err returns the failure as an error, or nil on success.
func (r Result[T]) Err() error {
	if r.failure == nil {
		return nil
	}
	return r.failure
}

// failureRecorder is implemented by backends that remember their most
// recent failure message for LastError.
type failureRecorder interface {
	record(message string)
}

// noteFailure stores the failure message on the backend and passes the
// result through.
func noteFailure[T any](b failureRecorder, r Result[T]) Result[T] {
	b.record(r.Failure().Message)
	return r
}
