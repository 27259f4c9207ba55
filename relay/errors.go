package relay

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned when the normalized text is empty.
var ErrInvalidInput = errors.New("empty text")

// DeliveryRejectedError reports a non-2xx answer from the outbound endpoint.
type DeliveryRejectedError struct {
	Status int
	Body   string
}

func (e *DeliveryRejectedError) Error() string {
	return fmt.Sprintf("delivery rejected with status %v", e.Status)
}

// DeliveryError reports a failure to reach the outbound endpoint.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery failed: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Detail is the message surfaced to callers for a transport failure.
func (e *DeliveryError) Detail() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}
