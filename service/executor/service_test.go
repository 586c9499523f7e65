package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/sanction/model/account"
	"github.com/viant/sanction/model/command"
	"github.com/viant/sanction/model/fault"
)

type recorder struct {
	calls []string
	err   error
}

func (r *recorder) Update(_ context.Context, id string, update account.Update) error {
	r.calls = append(r.calls, "account.update:"+id+":"+update.Name)
	return r.err
}

func (r *recorder) UpdateRole(_ context.Context, id string, role account.Role) error {
	r.calls = append(r.calls, "account.role:"+id+":"+string(role))
	return r.err
}

type deleter struct {
	name string
	rec  *recorder
}

func (d deleter) Delete(_ context.Context, id string) error {
	d.rec.calls = append(d.rec.calls, d.name+".delete:"+id)
	return d.rec.err
}

func newExecutor(rec *recorder, opts ...Option) Service {
	opts = append([]Option{
		WithAccounts(rec),
		WithTournaments(deleter{name: "tournament", rec: rec}),
		WithTrainings(deleter{name: "training", rec: rec}),
		WithListener(nil),
	}, opts...)
	return New(opts...)
}

func TestService_Execute(t *testing.T) {
	type testCase struct {
		name     string
		envelope command.Envelope
		expected string
	}

	tests := []testCase{
		{
			name:     "update account",
			envelope: command.UpdateAccount{TargetID: "a1", Fields: account.Update{Name: "Ana"}},
			expected: "account.update:a1:Ana",
		},
		{
			name:     "update role",
			envelope: command.UpdateAccountRole{TargetID: "a1", Role: account.RoleCoach},
			expected: "account.role:a1:coach",
		},
		{
			name:     "delete tournament",
			envelope: command.DeleteTournament{ID: "t1"},
			expected: "tournament.delete:t1",
		},
		{
			name:     "delete training",
			envelope: command.DeleteTraining{ID: "s1"},
			expected: "training.delete:s1",
		},
		{
			name:     "update account pointer",
			envelope: &command.UpdateAccount{TargetID: "a1", Fields: account.Update{Name: "Ana"}},
			expected: "account.update:a1:Ana",
		},
		{
			name:     "update role pointer",
			envelope: &command.UpdateAccountRole{TargetID: "a1", Role: account.RoleCoach},
			expected: "account.role:a1:coach",
		},
		{
			name:     "delete tournament pointer",
			envelope: &command.DeleteTournament{ID: "t1"},
			expected: "tournament.delete:t1",
		},
		{
			name:     "delete training pointer",
			envelope: &command.DeleteTraining{ID: "s1"},
			expected: "training.delete:s1",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := &recorder{}
			require.NoError(t, newExecutor(rec).Execute(context.Background(), tc.envelope))
			assert.Equal(t, []string{tc.expected}, rec.calls)
		})
	}
}

func TestService_EveryRegisteredCommandDispatches(t *testing.T) {
	samples := map[command.Name]command.Envelope{
		command.UpdateAccountName:     command.UpdateAccount{TargetID: "a"},
		command.UpdateAccountRoleName: command.UpdateAccountRole{TargetID: "a", Role: account.RoleAdmin},
		command.DeleteTournamentName:  command.DeleteTournament{ID: "t"},
		command.DeleteTrainingName:    command.DeleteTraining{ID: "s"},
	}
	for _, name := range command.Names() {
		t.Run(string(name), func(t *testing.T) {
			envelope, ok := samples[name]
			require.True(t, ok, "missing sample for %s", name)
			encoded, err := command.Encode(envelope)
			require.NoError(t, err)
			decoded, err := command.Decode(encoded)
			require.NoError(t, err)
			rec := &recorder{}
			assert.NoError(t, newExecutor(rec).Execute(context.Background(), decoded))
			assert.Len(t, rec.calls, 1)
		})
	}
}

func TestService_ExecuteFailure(t *testing.T) {
	domainErr := errors.New("tournament has registrations")
	rec := &recorder{err: domainErr}
	var observed error
	svc := newExecutor(rec, WithListener(func(_ context.Context, _ command.Envelope, err error) { observed = err }))

	err := svc.Execute(context.Background(), command.DeleteTournament{ID: "t1"})
	assert.ErrorIs(t, err, fault.ErrCommandExecution)
	assert.ErrorIs(t, err, domainErr)
	assert.Equal(t, err, observed)
	assert.Len(t, rec.calls, 1)
}

func TestService_MissingService(t *testing.T) {
	svc := New(WithListener(nil))
	err := svc.Execute(context.Background(), command.DeleteTraining{ID: "s1"})
	assert.ErrorIs(t, err, ErrMissingService)
	assert.ErrorIs(t, err, fault.ErrCommandExecution)

	err = svc.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrUnsupportedCommand)
	var empty *command.DeleteTournament
	err = svc.Execute(context.Background(), empty)
	assert.ErrorIs(t, err, ErrUnsupportedCommand)
}
