// Package training manages training sessions.
package training

import (
	"context"
	"strings"
	"time"

	"github.com/viant/sanction/internal/idgen"
	"github.com/viant/sanction/model/fault"
	"github.com/viant/sanction/model/training"
	"github.com/viant/sanction/service/dao"
)

// Service implements training operations over a keyed store.
type Service struct {
	dao dao.Service[string, training.Training]
}

// Create stores a new training session.
func (s *Service) Create(ctx context.Context, name string, minutes int, startsAt time.Time, createdBy string) (*training.Training, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fault.Validation("training name is required")
	}
	if minutes <= 0 {
		return nil, fault.Validation("training minutes must be positive")
	}
	ret := &training.Training{ID: idgen.New(), Name: strings.TrimSpace(name), Minutes: minutes, StartsAt: startsAt.UTC(), CreatedBy: createdBy}
	if err := s.dao.Save(ctx, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *Service) Get(ctx context.Context, id string) (*training.Training, error) {
	ret, err := s.dao.Load(ctx, id)
	if err != nil {
		if fault.IsKnown(err) {
			return nil, err
		}
		return nil, fault.NotFound("training", id)
	}
	return ret, nil
}

func (s *Service) List(ctx context.Context) ([]*training.Training, error) {
	return s.dao.List(ctx)
}

// Delete removes training id; a missing training is reported as not found.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.dao.Delete(ctx, id)
}

// New creates a training service.
func New(store dao.Service[string, training.Training]) *Service {
	return &Service{dao: store}
}
