package approval

import (
	"context"
	"errors"
	"log/slog"

	"github.com/viant/sanction/model/approval"
	"github.com/viant/sanction/service/messaging"
)

// Handler processes one lifecycle event.
type Handler func(ctx context.Context, event *approval.Event) error

// Watch consumes events until ctx is done. Handled events are acknowledged;
// events whose handler fails are rejected to the queue's dead letters.
func Watch(ctx context.Context, queue messaging.Queue[approval.Event], handler Handler) error {
	for {
		message, err := queue.Consume(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		if err = handler(ctx, message.T()); err != nil {
			if nErr := message.Nack(err); nErr != nil {
				return nErr
			}
			continue
		}
		if err = message.Ack(); err != nil {
			return err
		}
	}
}

// LogHandler writes each event to logger.
func LogHandler(logger *slog.Logger) Handler {
	return func(ctx context.Context, event *approval.Event) error {
		attrs := []any{"topic", event.Topic, "request_id", event.RequestID, "actor_id", event.ActorID, "at", event.At}
		if event.Request != nil && event.Request.CommandName != "" {
			attrs = append(attrs, "command", event.Request.CommandName)
		}
		if event.Error != "" {
			attrs = append(attrs, "error", event.Error)
		}
		logger.InfoContext(ctx, "approval event", attrs...)
		return nil
	}
}
