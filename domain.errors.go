package main

import "errors"

// Failure classes surfaced to the api layer. Each class maps to a
// distinct http status so callers can tell a missing book from a
// denied operation from an invalid transition.
var (
	ErrBookNotFound          = errors.New("book not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrForbidden             = errors.New("operation not permitted")
	ErrBookAlreadyCheckedOut = errors.New("book is already checked out")
	ErrBookNotCheckedOut     = errors.New("book is not checked out")
	ErrUsernameTaken         = errors.New("username is already taken")
	ErrWrongCredentials      = errors.New("invalid username or password")
)

type missingFieldError string

func (m missingFieldError) Error() string {
	return string(m) + " is required"
}
