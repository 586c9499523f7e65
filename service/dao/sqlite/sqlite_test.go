package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/sanction/model/account"
	"github.com/viant/sanction/model/fault"
	"github.com/viant/sanction/model/tournament"
	"github.com/viant/sanction/model/training"
	"github.com/viant/sanction/service/dao"
	"github.com/viant/sanction/service/dao/request"
	"github.com/viant/sanction/service/dao/request/storetest"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "sanction.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRequests(t *testing.T) {
	storetest.Run(t, func(t *testing.T) request.Store { return NewRequests(openTestDB(t)) })
}

func TestOpenInMemory(t *testing.T) {
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer db.Close()
	requests, err := NewRequests(db).ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, requests)

	_, err = Open(context.Background(), " ")
	assert.Error(t, err)
}

func TestAccounts(t *testing.T) {
	ctx := context.Background()
	accounts := NewAccounts(openTestDB(t))
	created := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	ana := &account.Account{
		ID:           "4b0c6f0e-8d0a-4a51-9d59-1b1f7e2f5c11",
		Name:         "Ana",
		Email:        "ana@example.com",
		Phone:        "5551234",
		Role:         account.RoleAthlete,
		PasswordHash: "hash",
		CreatedAt:    created,
	}
	require.NoError(t, accounts.Save(ctx, ana))

	loaded, err := accounts.Load(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, ana, loaded)

	type testCase struct {
		name     string
		lookup   func() (string, bool, error)
		expectID string
		expectOK bool
	}
	tests := []testCase{
		{name: "by phone", lookup: func() (string, bool, error) { return accounts.AccountIDByPhone(ctx, "5551234") }, expectID: ana.ID, expectOK: true},
		{name: "by email", lookup: func() (string, bool, error) { return accounts.AccountIDByEmail(ctx, "ana@example.com") }, expectID: ana.ID, expectOK: true},
		{name: "unknown phone", lookup: func() (string, bool, error) { return accounts.AccountIDByPhone(ctx, "1") }},
		{name: "unknown email", lookup: func() (string, bool, error) { return accounts.AccountIDByEmail(ctx, "x@y.z") }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id, ok, err := tc.lookup()
			require.NoError(t, err)
			assert.Equal(t, tc.expectOK, ok)
			assert.Equal(t, tc.expectID, id)
		})
	}

	exists, err := accounts.AccountExists(ctx, ana.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	ana.Name = "Ana Maria"
	require.NoError(t, accounts.Save(ctx, ana))
	loaded, _ = accounts.Load(ctx, ana.ID)
	assert.Equal(t, "Ana Maria", loaded.Name)

	duplicate := &account.Account{ID: "other", Name: "Bo", Email: "ana@example.com", Phone: "1", Role: account.RoleCoach, CreatedAt: created}
	assert.ErrorIs(t, accounts.Save(ctx, duplicate), fault.ErrValidation)

	coaches, err := accounts.List(ctx, dao.NewParameter("Role", "coach"))
	require.NoError(t, err)
	assert.Empty(t, coaches)
	all, err := accounts.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = accounts.Load(ctx, "missing")
	assert.ErrorIs(t, err, fault.ErrNotFound)
}

func TestTournamentsAndTrainings(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	tournaments := NewTournaments(db)
	trainings := NewTrainings(db)
	at := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)

	require.NoError(t, tournaments.Save(ctx, &tournament.Tournament{ID: "t1", Name: "Open", StartsAt: at}))
	require.NoError(t, trainings.Save(ctx, &training.Training{ID: "s1", Name: "Sprints", Minutes: 45, StartsAt: at}))

	loadedTournament, err := tournaments.Load(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Open", loadedTournament.Name)
	assert.True(t, at.Equal(loadedTournament.StartsAt))

	listed, err := trainings.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, 45, listed[0].Minutes)

	require.NoError(t, tournaments.Delete(ctx, "t1"))
	assert.ErrorIs(t, tournaments.Delete(ctx, "t1"), fault.ErrNotFound)
	require.NoError(t, trainings.Delete(ctx, "s1"))
	_, err = trainings.Load(ctx, "s1")
	assert.ErrorIs(t, err, fault.ErrNotFound)
}
