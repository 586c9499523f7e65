package sanction

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/sanction/service/identity"
)

func TestLoadConfig(t *testing.T) {
	location := filepath.Join(t.TempDir(), "sanction.yaml")
	document := `
auth:
  secret: from-file
  ttl: 30m
storage:
  driver: sqlite
  path: /var/lib/sanction/sanction.db
lock:
  driver: redis
  redisURL: redis://localhost:6379
identity:
  failurePolicy: closed
`
	require.NoError(t, os.WriteFile(location, []byte(document), 0o644))
	t.Setenv("SANCTION_AUTH_SECRET", "from-env")
	t.Setenv("SANCTION_HTTP_ADDR", ":9090")
	t.Setenv("SANCTION_LOCK_TTL", "5s")

	cfg, err := LoadConfig(context.Background(), location)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.Secret)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TTL)
	assert.Equal(t, time.Minute, cfg.Auth.Leeway)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/var/lib/sanction/sanction.db", cfg.Storage.Path)
	assert.Equal(t, DriverRedis, cfg.Lock.Driver)
	assert.Equal(t, 5*time.Second, cfg.Lock.TTL)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, identity.FailClosed, cfg.Identity.FailurePolicy)
	assert.Equal(t, DriverMemory, cfg.Events.Driver)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	location := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(location, []byte("storage: [unterminated"), 0o644))
	_, err = LoadConfig(context.Background(), location)
	assert.Error(t, err)

	t.Setenv("SANCTION_STORAGE_DRIVER", "mongo")
	_, err = LoadConfig(context.Background(), "")
	assert.ErrorContains(t, err, "storage.driver")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Auth.Secret = "s"
		return cfg
	}
	testCases := []struct {
		name      string
		mutate    func(c *Config)
		expectErr string
	}{
		{name: "defaults with secret", mutate: func(c *Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.Auth.Secret = "" }, expectErr: "auth.secret"},
		{name: "secret url", mutate: func(c *Config) { c.Auth.Secret = ""; c.Auth.SecretURL = "mem://localhost/secret" }},
		{name: "zero ttl", mutate: func(c *Config) { c.Auth.TTL = 0 }, expectErr: "auth.ttl"},
		{name: "fs without path", mutate: func(c *Config) { c.Storage.Driver = DriverFS }, expectErr: "storage.path"},
		{name: "postgres without url", mutate: func(c *Config) { c.Storage.Driver = DriverPostgres }, expectErr: "storage.url"},
		{name: "redis without url", mutate: func(c *Config) { c.Lock.Driver = DriverRedis }, expectErr: "lock.redisURL"},
		{name: "unknown lock", mutate: func(c *Config) { c.Lock.Driver = "zookeeper" }, expectErr: "lock.driver"},
		{name: "fs events without path", mutate: func(c *Config) { c.Events.Driver = DriverFS }, expectErr: "events.path"},
		{name: "unknown policy", mutate: func(c *Config) { c.Identity.FailurePolicy = "maybe" }, expectErr: "identity.failurePolicy"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.expectErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.expectErr)
		})
	}
}
