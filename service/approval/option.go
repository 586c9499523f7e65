package approval

import (
	"log/slog"
	"time"

	"github.com/viant/sanction/model/approval"
	"github.com/viant/sanction/progress"
	"github.com/viant/sanction/service/lock"
	"github.com/viant/sanction/service/messaging"
)

// Option customises the Service.
type Option func(*Service)

// WithLocker sets the per-request locker; the default is an in-process keyed mutex.
func WithLocker(locker lock.Locker) Option {
	return func(s *Service) { s.locker = locker }
}

// WithQueue sets the queue receiving lifecycle events.
func WithQueue(queue messaging.Queue[approval.Event]) Option {
	return func(s *Service) { s.events = queue }
}

// WithProgress sets the activity counters.
func WithProgress(tracker *progress.Progress) Option {
	return func(s *Service) { s.progress = tracker }
}

// WithClock overrides the time source used for created and completed timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides request id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}
