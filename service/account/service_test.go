package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/sanction/model/account"
	"github.com/viant/sanction/model/fault"
	"github.com/viant/sanction/service/auth"
	"github.com/viant/sanction/service/dao/account/memory"
	"github.com/viant/sanction/service/identity"
)

func newService(t *testing.T) (*Service, *auth.Provider) {
	t.Helper()
	repository := memory.New()
	tokens, err := auth.NewProvider([]byte("secret"))
	require.NoError(t, err)
	return New(repository, identity.New(repository), auth.NewHasher(4), tokens), tokens
}

func register(t *testing.T, s *Service) *account.Account {
	t.Helper()
	ret, err := s.Register(context.Background(), &account.Registration{
		Name:     "Ana",
		Email:    "Ana@Example.com",
		Phone:    "5551234",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return ret
}

func TestService_Register(t *testing.T) {
	s, _ := newService(t)
	ana := register(t, s)
	assert.Equal(t, "ana@example.com", ana.Email)
	assert.Equal(t, account.RoleAthlete, ana.Role)
	assert.NotEqual(t, "correct-horse", ana.PasswordHash)

	type testCase struct {
		name         string
		registration *account.Registration
	}
	tests := []testCase{
		{name: "nil"},
		{name: "no name", registration: &account.Registration{Email: "b@x.io", Phone: "1", Password: "12345678"}},
		{name: "bad email", registration: &account.Registration{Name: "B", Email: "bx.io", Phone: "1", Password: "12345678"}},
		{name: "bad phone", registration: &account.Registration{Name: "B", Email: "b@x.io", Phone: "+1", Password: "12345678"}},
		{name: "short password", registration: &account.Registration{Name: "B", Email: "b@x.io", Phone: "1", Password: "1"}},
		{name: "email taken", registration: &account.Registration{Name: "B", Email: "ana@example.com", Phone: "1", Password: "12345678"}},
		{name: "phone taken", registration: &account.Registration{Name: "B", Email: "b@x.io", Phone: "5551234", Password: "12345678"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tc.registration)
			assert.ErrorIs(t, err, fault.ErrValidation)
		})
	}
}

func TestService_RegisterWithRole(t *testing.T) {
	s, _ := newService(t)
	registration := &account.Registration{Name: "Admin", Email: "admin@x.io", Phone: "5550000", Password: "12345678"}
	created, err := s.RegisterWithRole(context.Background(), registration, account.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, account.RoleAdmin, created.Role)

	_, err = s.RegisterWithRole(context.Background(), &account.Registration{Name: "B", Email: "b@x.io", Phone: "1", Password: "12345678"}, "root")
	assert.ErrorIs(t, err, fault.ErrValidation)
	_, err = s.RegisterWithRole(context.Background(), &account.Registration{Name: "C", Email: "c@x.io", Phone: "2", Password: "12345678"}, "")
	assert.ErrorIs(t, err, fault.ErrValidation)
}

func TestService_GetByAnyIdentifier(t *testing.T) {
	s, _ := newService(t)
	ana := register(t, s)
	for _, identifier := range []string{"5551234", "ana@example.com", ana.ID} {
		t.Run(identifier, func(t *testing.T) {
			actual, err := s.Get(context.Background(), identifier)
			require.NoError(t, err)
			assert.Equal(t, ana.ID, actual.ID)
		})
	}
	_, err := s.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, fault.ErrNotFound)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t)
	ana := register(t, s)

	require.NoError(t, s.Update(ctx, ana.ID, account.Update{Name: "Ana Maria", Email: "anam@example.com", Phone: "5550000"}))
	actual, err := s.Get(ctx, "anam@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", actual.Name)
	assert.Equal(t, ana.PasswordHash, actual.PasswordHash)

	assert.ErrorIs(t, s.Update(ctx, "missing", account.Update{Name: "x", Email: "x@y.z", Phone: "1"}), fault.ErrNotFound)
	assert.ErrorIs(t, s.Update(ctx, ana.ID, account.Update{Name: "x", Email: "bad", Phone: "1"}), fault.ErrValidation)

	require.NoError(t, s.UpdateRole(ctx, ana.ID, account.RoleCoach))
	actual, _ = s.Get(ctx, ana.ID)
	assert.Equal(t, account.RoleCoach, actual.Role)
	assert.ErrorIs(t, s.UpdateRole(ctx, ana.ID, "root"), fault.ErrValidation)
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()
	s, tokens := newService(t)
	ana := register(t, s)

	token, err := s.Authenticate(ctx, "5551234", "correct-horse")
	require.NoError(t, err)
	principal, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, ana.ID, principal.ID)

	_, err = s.Authenticate(ctx, "ana@example.com", "wrong-password")
	assert.ErrorIs(t, err, fault.ErrUnauthorized)
	_, err = s.Authenticate(ctx, "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, fault.ErrUnauthorized)
}
