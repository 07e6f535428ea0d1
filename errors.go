package sessync

import "errors"

var (
	// ErrMachineNotReady is returned when an operation runs before
	// [Machine.Init] or after [Machine.Close].
	ErrMachineNotReady = errors.New("session machine not initialized")

	// ErrAlreadyInitialized is returned by [Machine.Init] on a second call.
	// Init is a startup-only operation.
	ErrAlreadyInitialized = errors.New("session machine already initialized")
)
