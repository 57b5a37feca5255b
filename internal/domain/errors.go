package domain

import "errors"

var (
	// ErrInvalidInput is returned for malformed create/update arguments.
	ErrInvalidInput = errors.New("invalid input")

	// ErrJobNotFound is returned when a job cannot be found in the store.
	ErrJobNotFound = errors.New("job not found")

	// ErrAlreadyPaid is returned when attempting to pay a job that has
	// already been paid or completed.
	ErrAlreadyPaid = errors.New("job already paid")

	// ErrNotPaid is returned when a receipt is requested for a job that
	// has no approval code yet.
	ErrNotPaid = errors.New("job not paid")

	// ErrForbidden is returned when the caller does not own the resource
	// or lacks the required role.
	ErrForbidden = errors.New("forbidden")

	// ErrCodeCollision is returned when an approval code is already held
	// by another job. The lifecycle service regenerates and retries once.
	ErrCodeCollision = errors.New("approval code collision")

	// ErrCodeExhausted is returned when a regenerated approval code collides
	// again. Two consecutive collisions in a 36^8 space indicate a broken
	// generator, so this is treated as a fatal configuration error.
	ErrCodeExhausted = errors.New("approval code space exhausted")

	// ErrUserNotFound is returned when a user id or email is unknown.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when creating an account with an email
	// that already exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned on a failed login. It deliberately
	// does not distinguish unknown email from wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountSuspended is returned when a suspended account attempts to
	// log in. Existing sessions and jobs are unaffected by suspension.
	ErrAccountSuspended = errors.New("account is suspended")

	// ErrPostNotFound is returned when a forum post id is unknown.
	ErrPostNotFound = errors.New("forum post not found")

	// ErrCourseNotFound is returned when a course id is unknown.
	ErrCourseNotFound = errors.New("course not found")
)
