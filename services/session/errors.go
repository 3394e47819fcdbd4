package session

import "errors"

var (
	// ErrAuthentication means the portal completed the login exchange
	// but rejected the credentials (or returned no usable cookies).
	// Never retried automatically; the caller decides whether to
	// prompt again.
	ErrAuthentication = errors.New("upstream rejected the credentials")

	// the three verification failures are distinguished so clients
	// know whether to retry with the refresh flow or re-login entirely
	ErrTokenInvalid = errors.New("bearer token signature is invalid")
	ErrTokenExpired = errors.New("bearer token has expired")
	ErrTokenRevoked = errors.New("bearer token session no longer exists")

	ErrRefreshNotFound = errors.New("refresh handle not found")
	ErrRefreshExpired  = errors.New("refresh handle has expired")
)
