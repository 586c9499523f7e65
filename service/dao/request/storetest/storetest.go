// Package storetest holds behavioural checks shared by every request.Store
// implementation.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/sanction/model/approval"
	"github.com/viant/sanction/model/command"
	"github.com/viant/sanction/model/fault"
	"github.com/viant/sanction/service/dao/request"
)

var base = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func newRequest(id string, name command.Name, offset time.Duration) *approval.Request {
	return &approval.Request{
		ID:             id,
		RequesterID:    "requester-" + id,
		CommandName:    name,
		CommandPayload: `{"name":"` + string(name) + `","payload":{"id":"` + id + `"}}`,
		CreatedAt:      base.Add(offset),
	}
}

// AssertSameRequest compares two requests field by field.
func AssertSameRequest(t *testing.T, expected, actual *approval.Request) {
	t.Helper()
	require.NotNil(t, actual)
	assert.Equal(t, expected.ID, actual.ID)
	assert.Equal(t, expected.RequesterID, actual.RequesterID)
	assert.Equal(t, expected.CommandName, actual.CommandName)
	assert.Equal(t, expected.CommandPayload, actual.CommandPayload)
	assert.Equal(t, expected.Completed, actual.Completed)
	assert.Equal(t, expected.ApproverID, actual.ApproverID)
	assert.True(t, expected.CreatedAt.Equal(actual.CreatedAt), "created at: %v != %v", expected.CreatedAt, actual.CreatedAt)
	if expected.CompletedAt == nil {
		assert.Nil(t, actual.CompletedAt)
	} else if assert.NotNil(t, actual.CompletedAt) {
		assert.True(t, expected.CompletedAt.Equal(*actual.CompletedAt))
	}
}

// Run exercises a fresh store returned by factory.
func Run(t *testing.T, factory func(t *testing.T) request.Store) {
	t.Run("create and get", func(t *testing.T) {
		ctx := context.Background()
		s := factory(t)
		r := newRequest("r1", command.DeleteTrainingName, 0)
		require.NoError(t, s.Create(ctx, r))

		actual, err := s.Get(ctx, "r1")
		require.NoError(t, err)
		AssertSameRequest(t, r, actual)
		assert.Equal(t, approval.StatePending, actual.State())

		_, err = s.Get(ctx, "missing")
		assert.ErrorIs(t, err, fault.ErrNotFound)
	})

	t.Run("list by name and all", func(t *testing.T) {
		ctx := context.Background()
		s := factory(t)
		require.NoError(t, s.Create(ctx, newRequest("a", command.DeleteTrainingName, 0)))
		require.NoError(t, s.Create(ctx, newRequest("b", command.DeleteTournamentName, time.Second)))
		require.NoError(t, s.Create(ctx, newRequest("c", command.DeleteTrainingName, 2*time.Second)))

		all, err := s.ListAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, ids(all))

		trainings, err := s.ListByName(ctx, command.DeleteTrainingName)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "c"}, ids(trainings))

		none, err := s.ListByName(ctx, command.UpdateAccountName)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("mark completed once", func(t *testing.T) {
		ctx := context.Background()
		s := factory(t)
		r := newRequest("r1", command.DeleteTournamentName, 0)
		require.NoError(t, s.Create(ctx, r))

		at := base.Add(time.Hour)
		require.NoError(t, s.MarkCompleted(ctx, "r1", "approver-1", at))
		err := s.MarkCompleted(ctx, "r1", "approver-2", at.Add(time.Minute))
		assert.ErrorIs(t, err, fault.ErrAlreadyCompleted)

		actual, err := s.Get(ctx, "r1")
		require.NoError(t, err)
		approver := "approver-1"
		expected := r.Clone()
		expected.Completed = true
		expected.ApproverID = &approver
		expected.CompletedAt = &at
		AssertSameRequest(t, expected, actual)

		assert.ErrorIs(t, s.MarkCompleted(ctx, "missing", "approver-1", at), fault.ErrNotFound)
	})

	t.Run("concurrent mark completed", func(t *testing.T) {
		ctx := context.Background()
		s := factory(t)
		require.NoError(t, s.Create(ctx, newRequest("r1", command.DeleteTournamentName, 0)))

		const callers = 8
		var wg sync.WaitGroup
		errs := make(chan error, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- s.MarkCompleted(ctx, "r1", "approver", base)
			}()
		}
		wg.Wait()
		close(errs)
		succeeded := 0
		for err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, fault.ErrAlreadyCompleted)
		}
		assert.Equal(t, 1, succeeded)
	})

	t.Run("delete", func(t *testing.T) {
		ctx := context.Background()
		s := factory(t)
		require.NoError(t, s.Create(ctx, newRequest("r1", command.DeleteTrainingName, 0)))
		require.NoError(t, s.Delete(ctx, "r1"))
		_, err := s.Get(ctx, "r1")
		assert.ErrorIs(t, err, fault.ErrNotFound)
		assert.NoError(t, s.Delete(ctx, "r1"))

		all, err := s.ListAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func ids(requests []*approval.Request) []string {
	ret := make([]string, 0, len(requests))
	for _, r := range requests {
		ret = append(ret, r.ID)
	}
	return ret
}
