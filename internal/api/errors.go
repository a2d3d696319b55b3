package api

import (
	"errors"
	"fmt"

	"github.com/openai/openai-go"
)

// AuthError means the API key was rejected. It is fatal for the profile
// but not for the program; the user can pick another profile.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// NotFoundError means the resource no longer exists on the server.
type NotFoundError struct {
	Err error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %v", e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// NetworkError covers transport failures and server-side errors. These
// are transient; the caller should offer a retry.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Classify maps an SDK error onto the adapter's error taxonomy. Errors
// that carry no HTTP status are treated as transport failures.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 401 || apiErr.StatusCode == 403:
			return &AuthError{Err: err}
		case apiErr.StatusCode == 404:
			return &NotFoundError{Err: err}
		case apiErr.StatusCode >= 500:
			return &NetworkError{Err: err}
		default:
			return err
		}
	}

	return &NetworkError{Err: err}
}

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool {
	var target *AuthError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is a stale-resource error.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsNetwork reports whether err is a transient transport failure.
func IsNetwork(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}
