package approval

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/viant/sanction/internal/clock"
	"github.com/viant/sanction/internal/idgen"
	"github.com/viant/sanction/model/approval"
	"github.com/viant/sanction/model/command"
	"github.com/viant/sanction/model/fault"
	"github.com/viant/sanction/progress"
	"github.com/viant/sanction/service/auth"
	"github.com/viant/sanction/service/dao/request"
	"github.com/viant/sanction/service/executor"
	"github.com/viant/sanction/service/lock"
	"github.com/viant/sanction/service/messaging"
	"github.com/viant/sanction/tracing"
)

// Service manages approval requests.
type Service struct {
	store    request.Store
	executor executor.Service
	locker   lock.Locker
	events   messaging.Queue[approval.Event]
	progress *progress.Progress
	now      func() time.Time
	newID    func() string
	logger   *slog.Logger
}

// Create stores envelope as a pending request on behalf of requesterID and
// returns the new request id.
func (s *Service) Create(ctx context.Context, envelope command.Envelope, requesterID string) (id string, err error) {
	ctx, span := tracing.StartSpan(ctx, "approval.create", tracing.KindInternal)
	defer func() { tracing.EndSpan(span, err) }()

	if requesterID == "" {
		return "", fault.Validation("requester id is required")
	}
	if envelope, err = command.Canonical(envelope); err != nil {
		return "", fault.Validation("command is required")
	}
	if err = envelope.Validate(); err != nil {
		return "", err
	}
	payload, err := command.Encode(envelope)
	if err != nil {
		return "", err
	}
	r := &approval.Request{
		ID:             s.newID(),
		RequesterID:    requesterID,
		CommandName:    envelope.Name(),
		CommandPayload: payload,
		CreatedAt:      s.now(),
	}
	span.WithAttributes(map[string]string{"request.id": r.ID, "command.name": string(r.CommandName)})
	if err = s.store.Create(ctx, r); err != nil {
		return "", fault.Repository(err, "create request")
	}
	s.progress.Update(progress.Delta{Created: 1})
	s.logger.InfoContext(ctx, "request created", "operation", "create", "outcome", "success",
		"request_id", r.ID, "command", r.CommandName, "requester_id", requesterID)
	s.publish(ctx, approval.TopicRequestCreated, r, requesterID, nil)
	return r.ID, nil
}

// Get returns the request with id.
func (s *Service) Get(ctx context.Context, id string) (*approval.Request, error) {
	if id == "" {
		return nil, fault.Validation("request id is required")
	}
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fault.Repository(err, "get request")
	}
	return r, nil
}

// ListByName returns requests carrying the named command, oldest first.
func (s *Service) ListByName(ctx context.Context, name command.Name) ([]*approval.Request, error) {
	if !command.IsRegistered(name) {
		return nil, fault.Validation("unknown command %q", name)
	}
	requests, err := s.store.ListByName(ctx, name)
	if err != nil {
		return nil, fault.Repository(err, "list requests by name")
	}
	return requests, nil
}

// ListAll returns every request, oldest first.
func (s *Service) ListAll(ctx context.Context) ([]*approval.Request, error) {
	requests, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fault.Repository(err, "list requests")
	}
	return requests, nil
}

// Execute runs the command of a pending request and records approverID as
// its approver. A completed request fails with fault.ErrAlreadyCompleted and
// nothing is executed. When the command fails the request stays pending.
//
// The command runs before the request is marked completed; if the process
// dies in between, the command has taken effect while the request still
// reads as pending.
func (s *Service) Execute(ctx context.Context, id, approverID string) (err error) {
	ctx, span := tracing.StartSpan(ctx, "approval.execute", tracing.KindInternal)
	span.WithAttributes(map[string]string{"request.id": id, "approver.id": approverID})
	defer func() { tracing.EndSpan(span, err) }()

	if id == "" {
		return fault.Validation("request id is required")
	}
	if approverID == "" {
		return fault.Validation("approver id is required")
	}

	unlock, err := s.locker.Lock(ctx, id)
	if err != nil {
		return fault.Repository(err, "lock request")
	}
	defer unlock()

	r, err := s.store.Get(ctx, id)
	if err != nil {
		return fault.Repository(err, "get request")
	}
	if r.Completed {
		s.progress.Update(progress.Delta{AlreadyCompleted: 1})
		return fmt.Errorf("request %s: %w", id, fault.ErrAlreadyCompleted)
	}
	envelope, err := command.Decode(r.CommandPayload)
	if err != nil {
		return err
	}

	s.progress.Update(progress.Delta{Executing: 1})
	if err = s.executor.Execute(ctx, envelope); err != nil {
		s.progress.Update(progress.Delta{Executing: -1, Failed: 1})
		s.logger.WarnContext(ctx, "request execution failed", "operation", "execute", "outcome", "failure",
			"request_id", id, "command", r.CommandName, "approver_id", approverID, "error", err)
		s.publish(ctx, approval.TopicRequestFailed, r, approverID, err)
		return err
	}

	at := s.now()
	if err = s.store.MarkCompleted(ctx, id, approverID, at); err != nil {
		s.progress.Update(progress.Delta{Executing: -1, Failed: 1})
		s.logger.ErrorContext(ctx, "command executed but request not marked", "operation", "execute", "outcome", "unmarked",
			"request_id", id, "command", r.CommandName, "error", err)
		return fault.Repository(err, "mark request completed")
	}
	s.progress.Update(progress.Delta{Executing: -1, Completed: 1})

	completed := r.Clone()
	completed.Completed = true
	completed.ApproverID = &approverID
	completed.CompletedAt = &at
	s.logger.InfoContext(ctx, "request executed", "operation", "execute", "outcome", "success",
		"request_id", id, "command", r.CommandName, "approver_id", approverID)
	s.publish(ctx, approval.TopicRequestCompleted, completed, approverID, nil)
	return nil
}

// Delete removes the request regardless of its state. Deleting an unknown id
// succeeds. The acting principal, when ctx carries one, is recorded on the event.
func (s *Service) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracing.StartSpan(ctx, "approval.delete", tracing.KindInternal)
	span.WithAttributes(map[string]string{"request.id": id})
	defer func() { tracing.EndSpan(span, err) }()

	if id == "" {
		return fault.Validation("request id is required")
	}
	if err = s.store.Delete(ctx, id); err != nil {
		return fault.Repository(err, "delete request")
	}
	var actorID string
	if principal, ok := auth.PrincipalFromContext(ctx); ok {
		actorID = principal.ID
	}
	s.progress.Update(progress.Delta{Deleted: 1})
	s.logger.InfoContext(ctx, "request deleted", "operation", "delete", "outcome", "success", "request_id", id, "actor_id", actorID)
	s.publish(ctx, approval.TopicRequestDeleted, &approval.Request{ID: id}, actorID, nil)
	return nil
}

// Stats returns the activity counters.
func (s *Service) Stats() progress.Stats {
	return s.progress.Snapshot()
}

func (s *Service) publish(ctx context.Context, topic string, r *approval.Request, actorID string, cause error) {
	if s.events == nil {
		return
	}
	event := &approval.Event{
		Topic:     topic,
		RequestID: r.ID,
		Request:   r,
		ActorID:   actorID,
		At:        s.now(),
	}
	if cause != nil {
		event.Error = cause.Error()
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "event publish failed", "operation", "publish", "outcome", "failure",
			"topic", topic, "request_id", r.ID, "error", err)
	}
}

// New creates a Service over store and exec.
func New(store request.Store, exec executor.Service, options ...Option) *Service {
	ret := &Service{
		store:    store,
		executor: exec,
		now:      clock.Now,
		newID:    idgen.New,
		logger:   slog.Default().With("module", "approval"),
	}
	for _, option := range options {
		option(ret)
	}
	if ret.locker == nil {
		ret.locker = lock.NewMemory()
	}
	if ret.progress == nil {
		ret.progress = progress.New(ret.now())
	}
	return ret
}
