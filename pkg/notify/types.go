package notify

import (
	"context"
	"fmt"
)

// Notifier delivers a rendered report message to an external system.
type Notifier interface {
	// Name returns the notifier identifier.
	Name() string

	// Send delivers a message. Implementations must be safe for concurrent use.
	Send(ctx context.Context, text string) error
}

// StatusError is returned when the receiving endpoint rejects a message.
type StatusError struct {
	Notifier   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error: status %d, response: %s", e.Notifier, e.StatusCode, e.Body)
}
