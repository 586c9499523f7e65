package memory

import (
	"context"
	"strings"

	"github.com/viant/sanction/model/account"
	"github.com/viant/sanction/model/fault"
	"github.com/viant/sanction/service/dao"
	"github.com/viant/sanction/service/dao/criteria"
	"github.com/viant/sanction/service/dao/store"
	"github.com/viant/sanction/service/identity"
)

// Service is an in-memory account store and identifier directory.
type Service struct {
	*store.MemoryStore[string, account.Account]
}

var (
	_ dao.Service[string, account.Account] = (*Service)(nil)
	_ identity.Directory                   = (*Service)(nil)
)

func accountKey(a *account.Account) string { return a.ID }

func accountFields(a *account.Account) criteria.Field {
	return func(name string) (string, bool) {
		switch name {
		case "Email":
			return strings.ToLower(a.Email), true
		case "Phone":
			return a.Phone, true
		case "ID":
			return a.ID, true
		case "Role":
			return string(a.Role), true
		}
		return "", false
	}
}

// Save rejects an email or phone already owned by another account.
func (s *Service) Save(ctx context.Context, a *account.Account) error {
	if a == nil {
		return dao.ErrNilEntity
	}
	for field, value := range map[string]string{"Email": strings.ToLower(a.Email), "Phone": a.Phone} {
		if value == "" {
			continue
		}
		owner, ok, err := s.find(ctx, field, value)
		if err != nil {
			return err
		}
		if ok && owner != a.ID {
			return fault.Validation("%s already registered", strings.ToLower(field))
		}
	}
	return s.MemoryStore.Save(ctx, a)
}

func (s *Service) Load(ctx context.Context, id string) (*account.Account, error) {
	a, err := s.MemoryStore.Load(ctx, id)
	if err != nil {
		return nil, fault.NotFound("account", id)
	}
	return a, nil
}

func (s *Service) AccountIDByPhone(ctx context.Context, phone string) (string, bool, error) {
	return s.find(ctx, "Phone", phone)
}

func (s *Service) AccountIDByEmail(ctx context.Context, email string) (string, bool, error) {
	return s.find(ctx, "Email", strings.ToLower(email))
}

func (s *Service) AccountExists(ctx context.Context, id string) (bool, error) {
	_, ok, err := s.find(ctx, "ID", id)
	return ok, err
}

func (s *Service) find(ctx context.Context, field, value string) (string, bool, error) {
	matches, err := s.List(ctx, dao.NewParameter(field, value))
	if err != nil || len(matches) == 0 {
		return "", false, err
	}
	return matches[0].ID, true, nil
}

// New creates an empty in-memory account store.
func New() *Service {
	return &Service{
		MemoryStore: store.NewMemoryStore[string, account.Account](accountKey,
			store.WithFields[string, account.Account](accountFields)),
	}
}
