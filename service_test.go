package sanction_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/sanction"
	"github.com/viant/sanction/model/account"
	modelapproval "github.com/viant/sanction/model/approval"
	"github.com/viant/sanction/model/command"
	"github.com/viant/sanction/model/fault"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newConfig(t *testing.T, mutate func(c *sanction.Config)) *sanction.Config {
	t.Helper()
	cfg := sanction.DefaultConfig()
	cfg.Auth.Secret = "test-secret"
	cfg.Auth.BcryptCost = 4
	if mutate != nil {
		mutate(cfg)
	}
	return cfg
}

func runWorkflow(t *testing.T, srv *sanction.Service) {
	t.Helper()
	ctx := context.Background()

	registered, err := srv.Accounts().Register(ctx, &account.Registration{
		Name: "Ana", Email: "ana@example.com", Phone: "5551234", Password: "correct horse",
	})
	require.NoError(t, err)
	token, err := srv.Accounts().Authenticate(ctx, "ana@example.com", "correct horse")
	require.NoError(t, err)
	principal, err := srv.Tokens().Authenticate("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, principal.ID)

	id, err := srv.Approvals().Create(ctx, command.UpdateAccountRole{TargetID: registered.ID, Role: account.RoleCoach}, "requester")
	require.NoError(t, err)
	require.NoError(t, srv.Approvals().Execute(ctx, id, principal.ID))
	assert.ErrorIs(t, srv.Approvals().Execute(ctx, id, principal.ID), fault.ErrAlreadyCompleted)

	updated, err := srv.Accounts().Get(ctx, "5551234")
	require.NoError(t, err)
	assert.Equal(t, account.RoleCoach, updated.Role)

	tournament, err := srv.Tournaments().Create(ctx, "Open", time.Now(), registered.ID)
	require.NoError(t, err)
	id, err = srv.Approvals().Create(ctx, command.DeleteTournament{ID: tournament.ID}, "requester")
	require.NoError(t, err)
	require.NoError(t, srv.Approvals().Execute(ctx, id, principal.ID))
	_, err = srv.Tournaments().Get(ctx, tournament.ID)
	assert.ErrorIs(t, err, fault.ErrNotFound)

	requests, err := srv.Approvals().ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, requests, 2)
	for _, r := range requests {
		assert.True(t, r.Completed)
	}
}

func TestNew_Drivers(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(t *testing.T, c *sanction.Config)
	}{
		{name: "memory"},
		{name: "sqlite", mutate: func(t *testing.T, c *sanction.Config) {
			c.Storage.Driver = sanction.DriverSQLite
			c.Storage.Path = filepath.Join(t.TempDir(), "sanction.db")
		}},
		{name: "fs requests and events", mutate: func(t *testing.T, c *sanction.Config) {
			c.Storage.Driver = sanction.DriverFS
			c.Storage.Path = filepath.Join(t.TempDir(), "requests")
			c.Events.Driver = sanction.DriverFS
			c.Events.Path = filepath.Join(t.TempDir(), "events")
		}},
		{name: "redis lock", mutate: func(t *testing.T, c *sanction.Config) {
			c.Lock.Driver = sanction.DriverRedis
			c.Lock.RedisURL = miniredis.RunT(t).Addr()
		}},
		{name: "fail closed", mutate: func(t *testing.T, c *sanction.Config) {
			c.Identity.FailurePolicy = "closed"
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := newConfig(t, func(c *sanction.Config) {
				if tc.mutate != nil {
					tc.mutate(t, c)
				}
			})
			srv, err := sanction.New(context.Background(), sanction.WithConfig(cfg))
			require.NoError(t, err)
			defer func() { assert.NoError(t, srv.Close(context.Background())) }()
			runWorkflow(t, srv)
		})
	}
}

func TestNew_Errors(t *testing.T) {
	_, err := sanction.New(context.Background())
	assert.ErrorContains(t, err, "auth.secret")

	cfg := newConfig(t, func(c *sanction.Config) { c.Storage.Driver = "mongo" })
	_, err = sanction.New(context.Background(), sanction.WithConfig(cfg))
	assert.ErrorContains(t, err, "storage.driver")

	cfg = newConfig(t, func(c *sanction.Config) {
		c.Lock.Driver = sanction.DriverRedis
		c.Lock.RedisURL = "127.0.0.1:1"
	})
	_, err = sanction.New(context.Background(), sanction.WithConfig(cfg))
	assert.Error(t, err)
}

func TestService_WithSecretAndTracing(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	srv, err := sanction.New(context.Background(),
		sanction.WithSecret([]byte("option-secret")),
		sanction.WithTracingExporter(exporter),
	)
	require.NoError(t, err)
	defer func() { _ = srv.Close(context.Background()) }()

	_, err = srv.Approvals().Create(context.Background(), command.DeleteTraining{ID: "tr1"}, "alice")
	require.NoError(t, err)

	var names []string
	for _, span := range exporter.GetSpans() {
		names = append(names, span.Name)
	}
	assert.Contains(t, names, "approval.create")

	message, err := srv.Events().Consume(context.Background())
	require.NoError(t, err)
	assert.Equal(t, modelapproval.TopicRequestCreated, message.T().Topic)
}

func TestService_Handler(t *testing.T) {
	srv, err := sanction.New(context.Background(), sanction.WithConfig(newConfig(t, nil)))
	require.NoError(t, err)
	defer func() { _ = srv.Close(context.Background()) }()

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	ctx, cancel := context.WithCancel(context.Background())
	srv.Config().HTTP.Addr = "127.0.0.1:0"
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal(errors.New("server did not stop"))
	}
}
