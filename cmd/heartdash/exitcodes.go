package main

import "fmt"

// Exit codes for the heartdash CLI.
const (
	ExitOK          = 0 // Command succeeded.
	ExitInvalidArgs = 1 // Invalid arguments, flags or configuration.
	ExitNoData      = 2 // The query matched no records.
	ExitIngest      = 3 // The data source could not be loaded or fetched.
)

// exitCodeError carries a non-zero exit code through cobra's error handling.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

// exitError creates an exitCodeError. If msg is empty, the error message is
// set to a generic description of the exit code.
func exitError(code int, format string, args ...any) *exitCodeError {
	msg := fmt.Sprintf(format, args...)
	if msg == "" {
		switch code {
		case ExitNoData:
			msg = "heartdash: no matching records"
		case ExitIngest:
			msg = "heartdash: could not load data"
		default:
			msg = "heartdash: error"
		}
	}
	return &exitCodeError{code: code, msg: msg}
}
