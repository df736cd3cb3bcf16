package errors

import "fmt"

// NewInvalidInputError returns a new ErrBadRequest error with the given
// message for malformed user input.
func NewInvalidInputError(message string, details Details) error {
	return Error{
		Code:    ErrBadRequest,
		Message: message,
		Details: details,
	}
}

// NewDuplicateStartError returns a new ErrBadRequest error for inserting an
// event at a start time that is already taken.
func NewDuplicateStartError(start string) error {
	return Error{
		Code:    ErrBadRequest,
		Message: fmt.Sprintf("an event already starts at %s", start),
		Details: Details{
			"start": start,
		},
	}
}

// NewScheduleConflictError returns a new ErrBadRequest error for a mutation
// that was aborted because of overlapping events.
func NewScheduleConflictError() error {
	return Error{
		Code:    ErrBadRequest,
		Message: "time conflict detected, re-run with -force to apply anyway",
	}
}

// NewResourceNotFoundError returns a new ErrNotFound error with the given
// message.
func NewResourceNotFoundError(message string, details Details) error {
	return Error{
		Code:    ErrNotFound,
		Message: message,
		Details: details,
	}
}

// NewInternalError returns a new ErrInternal error with the given message.
func NewInternalError(message string, details Details) error {
	return Error{
		Code:    ErrInternal,
		Message: message,
		Details: details,
	}
}

// NewInternalErrorFromErr returns a new ErrInternal error with the given
// message and original error.
func NewInternalErrorFromErr(err error, message string, details Details) error {
	return Error{
		Code:    ErrInternal,
		Err:     err,
		Message: message,
		Details: details,
	}
}

// NewIOError returns a new ErrInternal error for failed file operations.
func NewIOError(err error, message string, filename string) error {
	return Error{
		Code:    ErrInternal,
		Err:     err,
		Message: message,
		Details: Details{
			"filename": filename,
		},
	}
}

// NewExecQueryError returns a new ErrInternal error for failed queries with
// the query in the details.
func NewExecQueryError(err error, message string, query string) error {
	return Error{
		Code:    ErrInternal,
		Err:     err,
		Message: message,
		Details: Details{
			"query": query,
		},
	}
}

// NewScanDBRowError returns a new ErrInternal error for failed row scans with
// the query in the details.
func NewScanDBRowError(err error, message string, query string) error {
	return Error{
		Code:    ErrInternal,
		Err:     err,
		Message: message,
		Details: Details{
			"query": query,
		},
	}
}

// NewDBTxBeginError returns a new ErrInternal error for failed transaction
// begins.
func NewDBTxBeginError(err error) error {
	return Error{
		Code:    ErrInternal,
		Err:     err,
		Message: "begin tx",
	}
}

// NewDBTxCommitError returns a new ErrInternal error for failed transaction
// commits.
func NewDBTxCommitError(err error) error {
	return Error{
		Code:    ErrInternal,
		Err:     err,
		Message: "commit tx",
	}
}
