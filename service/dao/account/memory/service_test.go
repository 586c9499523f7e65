package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/sanction/model/account"
	"github.com/viant/sanction/model/fault"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Save(ctx, &account.Account{ID: "a1", Email: "Ana@Example.com", Phone: "5551234"}))
	require.NoError(t, s.Save(ctx, &account.Account{ID: "a2", Email: "bo@example.com", Phone: "5559999"}))

	id, ok, err := s.AccountIDByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a1", id)

	id, ok, err = s.AccountIDByPhone(ctx, "5559999")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a2", id)

	_, ok, err = s.AccountIDByPhone(ctx, "0")
	require.NoError(t, err)
	assert.False(t, ok)

	exists, err := s.AccountExists(ctx, "a2")
	require.NoError(t, err)
	assert.True(t, exists)

	err = s.Save(ctx, &account.Account{ID: "a3", Email: "ANA@example.com"})
	assert.ErrorIs(t, err, fault.ErrValidation)

	require.NoError(t, s.Save(ctx, &account.Account{ID: "a1", Email: "ana@example.com", Phone: "5551234", Name: "Ana"}))
	loaded, err := s.Load(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", loaded.Name)

	_, err = s.Load(ctx, "zz")
	assert.ErrorIs(t, err, fault.ErrNotFound)
}
