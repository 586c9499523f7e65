// Package fs implements a durable messaging.Queue on any afs-supported
// storage. Each message is a JSON document that moves between the pending,
// inflight, done and dead directories.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
	"github.com/viant/sanction/internal/clock"
	"github.com/viant/sanction/internal/idgen"
	"github.com/viant/sanction/service/messaging"
)

const (
	pendingDir  = "pending"
	inflightDir = "inflight"
	doneDir     = "done"
	deadDir     = "dead"
)

// Config holds the filesystem queue settings.
type Config struct {
	// BaseURL is the queue root (local path or afs URL).
	BaseURL string
	// PollInterval is how often Consume re-lists an empty pending directory.
	PollInterval time.Duration
	// KeepDone retains acknowledged messages instead of deleting them.
	KeepDone bool
}

// DefaultConfig returns the default configuration rooted at baseURL.
func DefaultConfig(baseURL string) Config {
	return Config{BaseURL: baseURL, PollInterval: 100 * time.Millisecond}
}

type envelope[T any] struct {
	MessageID string    `json:"id"`
	Data      T         `json:"data"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Message implements messaging.Message for the filesystem queue.
type Message[T any] struct {
	envelope[T]
	name      string
	queue     *Queue[T]
	mu        sync.Mutex
	processed bool
}

func (m *Message[T]) ID() string { return m.MessageID }

func (m *Message[T]) T() *T { return &m.Data }

func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return messaging.ErrProcessed
	}
	m.processed = true
	return m.queue.settle(context.Background(), m, doneDir)
}

func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return messaging.ErrProcessed
	}
	m.processed = true
	if err != nil {
		m.Error = err.Error()
	}
	return m.queue.settle(context.Background(), m, deadDir)
}

// Queue is a filesystem-backed messaging.Queue. Consumers within one process
// are serialised; the queue does not coordinate across processes.
type Queue[T any] struct {
	fs     afs.Service
	config Config
	mu     sync.Mutex
	logger *slog.Logger
}

var _ messaging.Queue[any] = (*Queue[any])(nil)

// NewQueue creates the queue directories when missing.
func NewQueue[T any](ctx context.Context, config Config) (*Queue[T], error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultConfig("").PollInterval
	}
	config.BaseURL = url.Normalize(config.BaseURL, file.Scheme)
	q := &Queue[T]{
		fs:     afs.New(),
		config: config,
		logger: slog.Default().With("module", "fs_queue"),
	}
	for _, dir := range []string{pendingDir, inflightDir, doneDir, deadDir} {
		dirURL := q.dir(dir)
		exists, _ := q.fs.Exists(ctx, dirURL)
		if exists {
			continue
		}
		if err := q.fs.Create(ctx, dirURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create queue directory %s: %w", dir, err)
		}
	}
	return q, nil
}

func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	now := clock.Now()
	msg := envelope[T]{MessageID: idgen.New(), Data: *t, CreatedAt: now}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	// zero-padded nanoseconds keep lexical order equal to publish order
	name := fmt.Sprintf("%020d-%s.json", now.UnixNano(), msg.MessageID)
	if err = q.fs.Upload(ctx, url.Join(q.dir(pendingDir), name), file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	ticker := time.NewTicker(q.config.PollInterval)
	defer ticker.Stop()
	for {
		msg, err := q.next(ctx)
		if err != nil || msg != nil {
			return msg, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (q *Queue[T]) next(ctx context.Context) (*Message[T], error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	names, err := q.names(ctx, pendingDir)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		source := url.Join(q.dir(pendingDir), name)
		data, err := q.fs.DownloadWithURL(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("read message %s: %w", name, err)
		}
		msg := &Message[T]{name: name, queue: q}
		if err := json.Unmarshal(data, &msg.envelope); err != nil {
			q.logger.WarnContext(ctx, "moving malformed message to dead letters", "operation", "consume", "outcome", "malformed", "name", name, "error", err)
			if err := q.fs.Move(ctx, source, url.Join(q.dir(deadDir), name)); err != nil {
				return nil, fmt.Errorf("move malformed message %s: %w", name, err)
			}
			continue
		}
		if err := q.fs.Move(ctx, source, url.Join(q.dir(inflightDir), name)); err != nil {
			return nil, fmt.Errorf("claim message %s: %w", name, err)
		}
		return msg, nil
	}
	return nil, nil
}

func (q *Queue[T]) settle(ctx context.Context, m *Message[T], target string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	source := url.Join(q.dir(inflightDir), m.name)
	if target == doneDir && !q.config.KeepDone {
		return q.fs.Delete(ctx, source)
	}
	data, err := json.Marshal(m.envelope)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err = q.fs.Upload(ctx, url.Join(q.dir(target), m.name), file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return q.fs.Delete(ctx, source)
}

// Size returns the number of pending messages.
func (q *Queue[T]) Size(ctx context.Context) (int, error) {
	names, err := q.names(ctx, pendingDir)
	return len(names), err
}

// DeadLetters returns the ids of rejected messages, oldest first.
func (q *Queue[T]) DeadLetters(ctx context.Context) ([]string, error) {
	names, err := q.names(ctx, deadDir)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSuffix(name, ".json")
		if i := strings.IndexByte(name, '-'); i >= 0 {
			name = name[i+1:]
		}
		ids = append(ids, name)
	}
	return ids, nil
}

func (q *Queue[T]) names(ctx context.Context, dir string) ([]string, error) {
	objects, err := q.fs.List(ctx, q.dir(dir), option.NewRecursive(false))
	if err != nil {
		return nil, fmt.Errorf("list %s messages: %w", dir, err)
	}
	var names []string
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		names = append(names, object.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (q *Queue[T]) dir(name string) string {
	return url.Join(q.config.BaseURL, name)
}
