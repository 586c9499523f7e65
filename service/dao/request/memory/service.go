package memory

import (
	"context"
	"errors"
	"time"

	"github.com/viant/sanction/model/approval"
	"github.com/viant/sanction/model/command"
	"github.com/viant/sanction/model/fault"
	"github.com/viant/sanction/service/dao"
	"github.com/viant/sanction/service/dao/criteria"
	"github.com/viant/sanction/service/dao/request"
	"github.com/viant/sanction/service/dao/store"
)

// Service implements an in-memory, thread-safe request store. All methods
// work with copies so callers never share memory with stored records.
type Service struct {
	requests *store.MemoryStore[string, approval.Request]
}

var _ request.Store = (*Service)(nil)

func requestKey(r *approval.Request) string { return r.ID }

func requestFields(r *approval.Request) criteria.Field {
	return func(name string) (string, bool) {
		switch name {
		case "CommandName":
			return string(r.CommandName), true
		case "RequesterID":
			return r.RequesterID, true
		case "State":
			return string(r.State()), true
		}
		return "", false
	}
}

func (s *Service) Create(ctx context.Context, r *approval.Request) error {
	if r == nil {
		return dao.ErrNilEntity
	}
	if r.ID == "" {
		return dao.ErrInvalidID
	}
	inserted, err := s.requests.Insert(ctx, r.Clone())
	if err != nil {
		return err
	}
	if !inserted {
		return fault.Validation("request %q already exists", r.ID)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*approval.Request, error) {
	r, err := s.requests.Load(ctx, id)
	if err != nil {
		return nil, fault.NotFound("request", id)
	}
	return r.Clone(), nil
}

func (s *Service) ListByName(ctx context.Context, name command.Name) ([]*approval.Request, error) {
	return s.list(ctx, dao.NewParameter("CommandName", string(name)))
}

func (s *Service) ListAll(ctx context.Context) ([]*approval.Request, error) {
	return s.list(ctx)
}

func (s *Service) list(ctx context.Context, parameters ...*dao.Parameter) ([]*approval.Request, error) {
	records, err := s.requests.List(ctx, parameters...)
	if err != nil {
		return nil, err
	}
	for i, r := range records {
		records[i] = r.Clone()
	}
	return records, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.requests.Delete(ctx, id)
}

func (s *Service) MarkCompleted(ctx context.Context, id, approverID string, at time.Time) error {
	err := s.requests.Update(ctx, id, func(r *approval.Request) error {
		if r.Completed {
			return fault.ErrAlreadyCompleted
		}
		r.Completed = true
		r.ApproverID = &approverID
		r.CompletedAt = &at
		return nil
	})
	if errors.Is(err, dao.ErrNotFound) {
		return fault.NotFound("request", id)
	}
	return err
}

// New creates an empty in-memory request store.
func New() *Service {
	return &Service{
		requests: store.NewMemoryStore[string, approval.Request](requestKey,
			store.WithFields[string, approval.Request](requestFields)),
	}
}
