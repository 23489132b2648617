package client

import (
	"errors"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("network error, please try again")
	ErrUnauthorized = errors.New("not authenticated")
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Detail     string

	authRequired bool
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return http.StatusText(e.StatusCode)
}

// Unwrap lets errors.Is(err, ErrUnauthorized) detect a rejected token.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized && e.authRequired {
		return ErrUnauthorized
	}
	return nil
}

// unavailableError hides the transport cause behind the generic message but
// keeps it reachable for errors.As and logging.
type unavailableError struct {
	cause error
}

func (e *unavailableError) Error() string { return ErrUnavailable.Error() }

func (e *unavailableError) Unwrap() []error { return []error{ErrUnavailable, e.cause} }

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
