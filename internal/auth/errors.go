package auth

import "errors"

var (
	ErrInvalidInput = errors.New("auth: invalid input")
	ErrNotFound     = errors.New("auth: not found")
	ErrConflict     = errors.New("auth: already exists")
	ErrUnauthorized = errors.New("auth: unauthorized")

	// ErrInvalidToken indicates the token failed signature or shape validation.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrExpiredToken indicates a well-formed token past its validity window.
	ErrExpiredToken = errors.New("auth: token expired")
)
