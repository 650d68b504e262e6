package app

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrUnauthenticated       = errors.New("authentication required")
	ErrForbidden             = errors.New("forbidden")
	ErrEmailExists           = errors.New("email already exists")
	ErrInvalidCredential     = errors.New("email or password is incorrect")
	ErrUserNotFound          = errors.New("user not found")
	ErrPostNotFound          = errors.New("blog not found")
	ErrRevocationUnavailable = errors.New("token revocation is unavailable")
)
