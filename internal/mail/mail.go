// Package mail defines the outbound email contract used by lead capture.
package mail

import (
	"context"
	"fmt"
)

// Email is one transactional message with an HTML body.
type Email struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Mailer delivers a single email. Implementations make exactly one delivery
// attempt per call.
type Mailer interface {
	Send(ctx context.Context, e Email) error
}

// DeliveryError reports a failed send. Its text may carry provider detail
// and must not be echoed to API callers.
type DeliveryError struct {
	To  string
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver email to %s: %v", e.To, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
