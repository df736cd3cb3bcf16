package errors

// Code classifies an Error for logging and exit-code decisions.
type Code string

const (
	// ErrBadRequest is used for invalid user input like malformed timestamps,
	// non-positive durations or inserting at an occupied start.
	ErrBadRequest Code = "bad-request"
	// ErrNotFound is used when an addressed resource does not exist.
	ErrNotFound Code = "not-found"
	// ErrInternal is used for failures that are not the user's fault like
	// failed queries or broken persisted data.
	ErrInternal Code = "internal"
	// ErrFatal is used for errors the application cannot recover from.
	ErrFatal Code = "fatal"
	// ErrUnexpected is used for errors that were not created by us.
	ErrUnexpected Code = "unexpected"
)
