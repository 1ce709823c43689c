package sdk

import (
	"errors"
	"fmt"
)

// ErrNotFound signals a 404 from the API.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("quaero: %s (%s, HTTP %d)", e.Message, e.Code, e.StatusCode)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == 404
}
