// Package account manages directory accounts: registration, profile and role
// updates, and password authentication through the identifier chain.
package account

import (
	"context"
	"log/slog"
	"strings"

	"github.com/viant/sanction/internal/clock"
	"github.com/viant/sanction/internal/idgen"
	"github.com/viant/sanction/model/account"
	"github.com/viant/sanction/model/fault"
	"github.com/viant/sanction/service/auth"
	"github.com/viant/sanction/service/dao"
	"github.com/viant/sanction/service/identity"
)

const minPasswordLength = 8

// Repository stores accounts and answers identifier lookups.
type Repository interface {
	dao.Service[string, account.Account]
	identity.Directory
}

// Service implements account operations.
type Service struct {
	repository Repository
	chain      *identity.Chain
	hasher     *auth.Hasher
	tokens     *auth.Provider
	logger     *slog.Logger
}

// Register creates an athlete account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, registration *account.Registration) (*account.Account, error) {
	return s.RegisterWithRole(ctx, registration, account.RoleAthlete)
}

// RegisterWithRole creates an account with role. It is reserved for operator
// tooling; public registration goes through Register.
func (s *Service) RegisterWithRole(ctx context.Context, registration *account.Registration, role account.Role) (*account.Account, error) {
	if registration == nil {
		return nil, fault.Validation("registration is empty")
	}
	email := strings.ToLower(strings.TrimSpace(registration.Email))
	if err := validateProfile(registration.Name, email, registration.Phone); err != nil {
		return nil, err
	}
	if len(registration.Password) < minPasswordLength {
		return nil, fault.Validation("password must have at least %d characters", minPasswordLength)
	}
	if !role.Valid() {
		return nil, fault.Validation("unknown role %q", role)
	}
	for strategy, token := range map[string]string{identity.EmailStrategy: email, identity.PhoneStrategy: registration.Phone} {
		if _, taken, err := s.chain.ResolveWith(ctx, strategy, token); err != nil {
			return nil, err
		} else if taken {
			return nil, fault.Validation("%s already registered", strategy)
		}
	}
	hash, err := s.hasher.Hash(registration.Password)
	if err != nil {
		return nil, err
	}
	ret := &account.Account{
		ID:                 idgen.New(),
		Name:               strings.TrimSpace(registration.Name),
		Email:              email,
		Phone:              registration.Phone,
		Identification:     registration.Identification,
		IdentificationType: registration.IdentificationType,
		Role:               role,
		PasswordHash:       hash,
		CreatedAt:          clock.Now().UTC(),
	}
	if err := s.repository.Save(ctx, ret); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "account registered", "operation", "register", "outcome", "success", "account_id", ret.ID)
	return ret, nil
}

// Get resolves identifier through the chain and loads the account.
func (s *Service) Get(ctx context.Context, identifier string) (*account.Account, error) {
	id, ok, err := s.chain.Resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fault.NotFound("account", identifier)
	}
	return s.repository.Load(ctx, id)
}

// Update replaces the mutable profile fields of account id.
func (s *Service) Update(ctx context.Context, id string, update account.Update) error {
	update.Email = strings.ToLower(strings.TrimSpace(update.Email))
	if err := validateProfile(update.Name, update.Email, update.Phone); err != nil {
		return err
	}
	current, err := s.repository.Load(ctx, id)
	if err != nil {
		return err
	}
	update.Apply(current)
	return s.repository.Save(ctx, current)
}

// UpdateRole changes the role of account id.
func (s *Service) UpdateRole(ctx context.Context, id string, role account.Role) error {
	if !role.Valid() {
		return fault.Validation("unknown role %q", role)
	}
	current, err := s.repository.Load(ctx, id)
	if err != nil {
		return err
	}
	current.Role = role
	return s.repository.Save(ctx, current)
}

// Authenticate verifies password for the account behind identifier and
// issues a token for it.
func (s *Service) Authenticate(ctx context.Context, identifier, password string) (string, error) {
	id, ok, err := s.chain.Resolve(ctx, identifier)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fault.Unauthorized(nil, "invalid credentials")
	}
	current, err := s.repository.Load(ctx, id)
	if err != nil {
		return "", err
	}
	matched, err := s.hasher.Compare(current.PasswordHash, password)
	if err != nil || !matched {
		return "", fault.Unauthorized(err, "invalid credentials")
	}
	return s.tokens.Issue(current.ID)
}

func validateProfile(name, email, phone string) error {
	if strings.TrimSpace(name) == "" {
		return fault.Validation("name is required")
	}
	if !identity.IsEmail(email) {
		return fault.Validation("invalid email %q", email)
	}
	if !identity.IsPhone(phone) {
		return fault.Validation("invalid phone %q", phone)
	}
	return nil
}

// New creates an account service.
func New(repository Repository, chain *identity.Chain, hasher *auth.Hasher, tokens *auth.Provider) *Service {
	return &Service{
		repository: repository,
		chain:      chain,
		hasher:     hasher,
		tokens:     tokens,
		logger:     slog.Default().With("module", "account"),
	}
}
