package scoring

import (
	"errors"
	"fmt"
)

// Error kinds. Every failed call wraps exactly one of these.
var (
	ErrStatus            = errors.New("unexpected HTTP status")
	ErrTransport         = errors.New("network error")
	ErrMalformedResponse = errors.New("malformed response")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.Code)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

func transportError(err error) error {
	return fmt.Errorf("%w: %v", ErrTransport, err)
}

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}
