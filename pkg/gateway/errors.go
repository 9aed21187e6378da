package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyRollNumber is returned before any request is made.
	ErrEmptyRollNumber = errors.New("gateway: roll number is required")
	// ErrEmptyEndpoint is returned by NewClient without a base URL.
	ErrEmptyEndpoint = errors.New("gateway: endpoint is required")
)

// StatusError reports a non-success HTTP status. Message carries the
// service's own explanation when the body had one.
type StatusError struct {
	Call       string
	StatusCode int
	Status     string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gateway: %s: %s: %s", e.Call, e.Status, e.Message)
	}
	return fmt.Sprintf("gateway: %s: unexpected status %s", e.Call, e.Status)
}

// Reason returns the text to show a user for err: the service message when a
// StatusError carries one, otherwise the error text. Empty for nil.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Message != "" {
		return statusErr.Message
	}
	return err.Error()
}
