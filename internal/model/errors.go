package model

import "errors"

// Sentinel errors shared by services and mapped to HTTP statuses in handlers.
var (
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrAlreadyVoted   = errors.New("already voted")
	ErrNotJuror       = errors.New("not a jury member of this competition")
	ErrDeadlinePassed = errors.New("submission deadline has passed")
	ErrPhaseLocked    = errors.New("competition is no longer accepting changes")
)

// ValidationError carries field-level messages for malformed input.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return "validation failed"
	}
	msg := e.Messages[0]
	for _, m := range e.Messages[1:] {
		msg += "; " + m
	}
	return msg
}

// NewValidationError builds a ValidationError from field messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
