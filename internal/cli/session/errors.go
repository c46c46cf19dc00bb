package session

import "errors"

var (
	// ErrLoginFailed is returned when the backend rejects the credentials
	ErrLoginFailed = errors.New("login failed")
	// ErrGoogleLoginFailed is returned when the backend rejects a Google code
	ErrGoogleLoginFailed = errors.New("google login failed")
	// ErrRegistrationFailed is returned when the backend refuses to create the account
	ErrRegistrationFailed = errors.New("registration failed")
	// ErrUserDataUnavailable is returned when login succeeded but the user could not be fetched
	ErrUserDataUnavailable = errors.New("failed to get user data")
	// ErrNoHandoffToken is returned when a hand-off carries no access token
	ErrNoHandoffToken = errors.New("no access token received")
)
