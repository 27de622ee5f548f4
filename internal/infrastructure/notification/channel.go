// Package notification delivers customer messages over external channels.
package notification

import (
	"context"
	"errors"
)

var (
	// ErrNoAddress means the recipient has no address for the channel
	ErrNoAddress = errors.New("notification: recipient has no address for channel")
	// ErrDeliveryFailed wraps transport failures
	ErrDeliveryFailed = errors.New("notification: delivery failed")
)

// Recipient identifies who a message goes to
type Recipient struct {
	Name  string
	Phone string
	Email string
}

// Message is one notification
type Message struct {
	To      Recipient
	Subject string
	Body    string
}

// Channel sends messages through one transport
type Channel interface {
	// Name identifies the channel in logs and metrics
	Name() string
	// Send delivers msg. It returns ErrNoAddress when the recipient cannot be
	// reached on this channel.
	Send(ctx context.Context, msg Message) error
}
