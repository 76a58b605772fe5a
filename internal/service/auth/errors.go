package auth

import "errors"

// Token and credential errors. The API maps the token errors to 401.
var (
	// ErrInvalidToken covers malformed tokens, bad signatures and tokens
	// signed with an algorithm other than HS256.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken is returned once exp has passed; clients must log in again.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid is returned while the nbf claim is still in the future.
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken means no bearer token reached a protected route.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrPasswordMismatch is returned by PasswordVerifier when a login
	// password does not match the stored bcrypt hash.
	ErrPasswordMismatch = errors.New("password does not match")
)
