package service

import "errors"

var (
	// ErrInvalidRequest wraps request shape failures.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidTransition is returned for status moves the review
	// workflow does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrDailyLimitRace is returned when the committed daily total would
	// exceed the limit after insert. The transaction is rolled back.
	ErrDailyLimitRace = errors.New("daily limit exceeded by concurrent commit")
)
