package auth

import "errors"

// Errors returned by JWTService. The API layer maps each one onto a 401 or
// 500 response.
var (
	ErrInvalidToken     = errors.New("invalid authentication token")
	ErrExpiredToken     = errors.New("authentication token has expired")
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")
	ErrMissingToken     = errors.New("authentication token is missing")

	// ErrWrongTokenType is returned for a well-signed token minted for
	// something other than API access.
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrEmptySubject is returned by GenerateToken for a blank user id and by
	// ValidateToken for a token without a subject.
	ErrEmptySubject = errors.New("token subject cannot be empty")
)
