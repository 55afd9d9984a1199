package services

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account temporarily locked")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrEmailTaken         = errors.New("unable to create account")
	ErrSessionNotFound    = errors.New("invalid or expired refresh token")

	ErrOTPInvalid  = errors.New("invalid code")
	ErrOTPExpired  = errors.New("code expired")
	ErrOTPConsumed = errors.New("code already used")
	ErrOTPAttempts = errors.New("too many attempts, request a new code")

	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("access denied")
	ErrDuplicate    = errors.New("duplicate content")
	ErrInvalidInput = errors.New("invalid input")
)
