package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeValidation    = "validation_error"
	ErrCodeNameTaken     = "name_taken"
	ErrCodeUnknownUser   = "unknown_user"
	ErrCodeAlreadyJoined = "already_joined"
	ErrCodeBadRequest    = "bad_request"
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}

// asCoreError extracts a *CoreError from err, wrapping unrecognized
// errors under the bad_request code so callers always have a code to report.
func asCoreError(err error) *CoreError {
	if err == nil {
		return nil
	}
	var cerr *CoreError
	if errors.As(err, &cerr) {
		return cerr
	}
	return coreError(ErrCodeBadRequest, err.Error())
}
