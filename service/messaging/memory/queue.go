package memory

import (
	"context"
	"sync"
	"time"

	"github.com/viant/sanction/internal/clock"
	"github.com/viant/sanction/internal/idgen"
	"github.com/viant/sanction/service/messaging"
)

// Config for the memory queue.
type Config struct {
	// QueueBuffer bounds the number of unconsumed messages.
	QueueBuffer int
	// DeadLetter keeps rejected messages for inspection.
	DeadLetter bool
}

// DefaultConfig returns the standard memory queue configuration.
func DefaultConfig() Config {
	return Config{
		QueueBuffer: 256,
		DeadLetter:  true,
	}
}

// Message implements messaging.Message for the in-memory queue.
type Message[T any] struct {
	id        string
	payload   T
	queue     *Queue[T]
	createdAt time.Time
	mu        sync.Mutex
	processed bool
	err       error
}

func (m *Message[T]) ID() string { return m.id }

func (m *Message[T]) T() *T { return &m.payload }

// CreatedAt returns the publish time.
func (m *Message[T]) CreatedAt() time.Time { return m.createdAt }

// Err returns the rejection cause recorded by Nack.
func (m *Message[T]) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return messaging.ErrProcessed
	}
	m.processed = true
	return nil
}

func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	if m.processed {
		m.mu.Unlock()
		return messaging.ErrProcessed
	}
	m.processed = true
	m.err = err
	m.mu.Unlock()

	if m.queue.config.DeadLetter {
		m.queue.dlqMu.Lock()
		m.queue.dlq = append(m.queue.dlq, m)
		m.queue.dlqMu.Unlock()
	}
	return nil
}

// Queue is a bounded in-memory messaging.Queue. Publish never blocks: when
// the buffer is full it returns messaging.ErrQueueFull.
type Queue[T any] struct {
	messages chan *Message[T]
	dlq      []*Message[T]
	config   Config
	dlqMu    sync.Mutex
}

var _ messaging.Queue[any] = (*Queue[any])(nil)

// NewQueue creates a new in-memory queue.
func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	return &Queue[T]{
		messages: make(chan *Message[T], config.QueueBuffer),
		config:   config,
	}
}

func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := &Message[T]{
		id:        idgen.New(),
		payload:   *t,
		queue:     q,
		createdAt: clock.Now(),
	}
	select {
	case q.messages <- msg:
		return nil
	default:
		return messaging.ErrQueueFull
	}
}

func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns the number of unconsumed messages.
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

// DeadLetters returns the rejected messages, oldest first.
func (q *Queue[T]) DeadLetters() []*Message[T] {
	q.dlqMu.Lock()
	defer q.dlqMu.Unlock()
	return append([]*Message[T](nil), q.dlq...)
}
