// Package tournament manages tournaments.
package tournament

import (
	"context"
	"strings"
	"time"

	"github.com/viant/sanction/internal/idgen"
	"github.com/viant/sanction/model/fault"
	"github.com/viant/sanction/model/tournament"
	"github.com/viant/sanction/service/dao"
)

// Service implements tournament operations over a keyed store.
type Service struct {
	dao dao.Service[string, tournament.Tournament]
}

// Create stores a new tournament.
func (s *Service) Create(ctx context.Context, name string, startsAt time.Time, createdBy string) (*tournament.Tournament, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fault.Validation("tournament name is required")
	}
	ret := &tournament.Tournament{ID: idgen.New(), Name: strings.TrimSpace(name), StartsAt: startsAt.UTC(), CreatedBy: createdBy}
	if err := s.dao.Save(ctx, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *Service) Get(ctx context.Context, id string) (*tournament.Tournament, error) {
	ret, err := s.dao.Load(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	return ret, nil
}

func (s *Service) List(ctx context.Context) ([]*tournament.Tournament, error) {
	return s.dao.List(ctx)
}

// Delete removes tournament id; a missing tournament is reported as not found.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.dao.Delete(ctx, id)
}

func notFound(err error, id string) error {
	if fault.IsKnown(err) {
		return err
	}
	return fault.NotFound("tournament", id)
}

// New creates a tournament service.
func New(store dao.Service[string, tournament.Tournament]) *Service {
	return &Service{dao: store}
}
