package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrNotSignedIn indicates an operation requiring a session was attempted
	// while signed out
	ErrNotSignedIn = errors.New("not signed in")

	// ErrAuthDisabled indicates no identity provider is configured
	ErrAuthDisabled = errors.New("authentication is not configured")

	// ErrVerificationFailed indicates the identity provider rejected the
	// magic-link code
	ErrVerificationFailed = errors.New("magic link verification failed")
)
