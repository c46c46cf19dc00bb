package client

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthenticationFailed is returned when an expired session could not be refreshed
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrNoRefreshToken is returned when a refresh is attempted without a refresh token
	ErrNoRefreshToken = errors.New("no refresh token available")
	// ErrInvalidRefreshResponse is returned when the refresh endpoint did not issue a new access token
	ErrInvalidRefreshResponse = errors.New("invalid token refresh response")
)

// HTTPError is a non-2xx response from the API
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// StatusCode returns the HTTP status carried by err, or 0 if it is not an HTTPError
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
