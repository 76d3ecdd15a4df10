package dnc

import (
	"errors"
	"fmt"
)

var (
	// ErrAckTimeout indicates no acknowledgement arrived before the
	// command deadline. The dispatcher retries on this error while the
	// retry budget lasts.
	ErrAckTimeout = errors.New("timeout waiting for acknowledgement")
	// ErrRetriesExceeded indicates the retry budget was exhausted by
	// timeouts. This is terminal: the connection is presumed dead.
	ErrRetriesExceeded = errors.New("maximum number of retries due to timeouts exceeded")
)

// DeviceError wraps an error code reported by the controller in an
// acknowledgement line. Device errors are never retried.
type DeviceError struct {
	Code byte
}

// Error implements error.
func (e *DeviceError) Error() string {
	return fmt.Sprintf("device error code %c", e.Code)
}
