// Package common defines shared sentinel errors and small helpers used across
// nkauth layers. Callers should use errors.Is to match the error values; the
// error text of the validation and authentication errors is the message shown
// to the user.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// ErrorInternal is what the shell shows in place of storage and other
	// unexpected failures; the details go to the log.
	ErrorInternal = errors.New("internal error, see the log for details")

	// Registration / password validation errors.
	ErrUsernameTooShort    = errors.New("username must be at least 3 characters")
	ErrPasswordTooShort    = errors.New("password must be at least 6 characters")
	ErrUsernameTaken       = errors.New("username already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrIncorrectPassword   = errors.New("current password is incorrect")
	ErrNewPasswordTooShort = errors.New("new password must be at least 6 characters")

	// Auth errors. Unknown user and wrong password share one value on purpose.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// Session lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// License errors.
	ErrInvalidLicenseKey = errors.New("invalid license key")
)
