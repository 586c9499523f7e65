// Package messaging defines the queue abstraction used to fan out approval
// events. Delivery is best effort: publishers never block on consumers, and a
// rejected message is parked rather than redelivered.
package messaging

import (
	"context"
	"errors"
)

var (
	// ErrQueueFull is returned by Publish when the queue cannot accept more messages.
	ErrQueueFull = errors.New("queue full")

	// ErrProcessed is returned when a message is acknowledged twice.
	ErrProcessed = errors.New("message already processed")
)

// Queue is a message queue for any payload type.
type Queue[T any] interface {
	// Publish adds a new message with payload to the queue.
	Publish(ctx context.Context, t *T) error

	// Consume retrieves a single message, blocking until one is available or
	// ctx is done.
	Consume(ctx context.Context) (Message[T], error)
}

// Message is a message retrieved from a queue.
type Message[T any] interface {
	ID() string

	// T returns the payload of this message.
	T() *T

	// Ack marks the message as processed.
	Ack() error

	// Nack marks the message as rejected; it moves to the dead-letter area.
	Nack(err error) error
}
