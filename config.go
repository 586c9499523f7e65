package sanction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/sanction/service/identity"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SANCTION_"

// Storage, lock and event drivers.
const (
	DriverMemory   = "memory"
	DriverFS       = "fs"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config is a serialisable representation of the service configuration. It
// is resolved from defaults, then a YAML file, then SANCTION_* environment
// variables.
type Config struct {
	Auth     AuthConfig     `json:"auth" yaml:"auth" envPrefix:"AUTH_"`
	Storage  StorageConfig  `json:"storage" yaml:"storage" envPrefix:"STORAGE_"`
	Lock     LockConfig     `json:"lock" yaml:"lock" envPrefix:"LOCK_"`
	Events   EventsConfig   `json:"events" yaml:"events" envPrefix:"EVENTS_"`
	HTTP     HTTPConfig     `json:"http" yaml:"http" envPrefix:"HTTP_"`
	Identity IdentityConfig `json:"identity" yaml:"identity" envPrefix:"IDENTITY_"`
	Tracing  TracingConfig  `json:"tracing" yaml:"tracing" envPrefix:"TRACING_"`
}

// AuthConfig configures token signing. Secret takes precedence over
// SecretURL, which names an encrypted secret readable with SecretKey.
type AuthConfig struct {
	Secret     string        `json:"secret,omitempty" yaml:"secret,omitempty" env:"SECRET"`
	SecretURL  string        `json:"secretURL,omitempty" yaml:"secretURL,omitempty" env:"SECRET_URL"`
	SecretKey  string        `json:"secretKey,omitempty" yaml:"secretKey,omitempty" env:"SECRET_KEY"`
	TTL        time.Duration `json:"ttl" yaml:"ttl" env:"TTL"`
	Leeway     time.Duration `json:"leeway" yaml:"leeway" env:"LEEWAY"`
	Issuer     string        `json:"issuer,omitempty" yaml:"issuer,omitempty" env:"ISSUER"`
	BcryptCost int           `json:"bcryptCost" yaml:"bcryptCost" env:"BCRYPT_COST"`
}

// StorageConfig selects where requests and accounts live. Path is the fs
// base URL or the sqlite file; URL is the postgres DSN.
type StorageConfig struct {
	Driver   string `json:"driver" yaml:"driver" env:"DRIVER"`
	Path     string `json:"path,omitempty" yaml:"path,omitempty" env:"PATH"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty" env:"URL"`
	MaxConns int    `json:"maxConns" yaml:"maxConns" env:"MAX_CONNS"`
}

type LockConfig struct {
	Driver   string        `json:"driver" yaml:"driver" env:"DRIVER"`
	RedisURL string        `json:"redisURL,omitempty" yaml:"redisURL,omitempty" env:"REDIS_URL"`
	TTL      time.Duration `json:"ttl" yaml:"ttl" env:"TTL"`
}

type EventsConfig struct {
	Driver string `json:"driver" yaml:"driver" env:"DRIVER"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty" env:"PATH"`
	Buffer int    `json:"buffer" yaml:"buffer" env:"BUFFER"`
}

type HTTPConfig struct {
	Addr string `json:"addr" yaml:"addr" env:"ADDR"`
}

type IdentityConfig struct {
	FailurePolicy identity.FailurePolicy `json:"failurePolicy" yaml:"failurePolicy" env:"FAILURE_POLICY"`
}

type TracingConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled" env:"ENABLED"`
	Output  string `json:"output,omitempty" yaml:"output,omitempty" env:"OUTPUT"`
}

// DefaultConfig returns an in-memory configuration listening on :8080.
func DefaultConfig() *Config {
	return &Config{
		Auth: AuthConfig{
			TTL:        time.Hour,
			Leeway:     time.Minute,
			BcryptCost: 10,
		},
		Storage:  StorageConfig{Driver: DriverMemory, MaxConns: 10},
		Lock:     LockConfig{Driver: DriverMemory, TTL: 30 * time.Second},
		Events:   EventsConfig{Driver: DriverMemory, Buffer: 256},
		HTTP:     HTTPConfig{Addr: ":8080"},
		Identity: IdentityConfig{FailurePolicy: identity.FailOpen},
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	return c.validate(true)
}

func (c *Config) validate(requireSecret bool) error {
	if c == nil {
		return nil
	}
	var errs []error
	if requireSecret && c.Auth.Secret == "" && c.Auth.SecretURL == "" {
		errs = append(errs, errors.New("auth.secret or auth.secretURL is required"))
	}
	if c.Auth.TTL <= 0 {
		errs = append(errs, errors.New("auth.ttl must be > 0"))
	}
	if c.Auth.Leeway < 0 {
		errs = append(errs, errors.New("auth.leeway must be >= 0"))
	}
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverFS, DriverSQLite:
		if c.Storage.Path == "" {
			errs = append(errs, fmt.Errorf("storage.path is required for %s", c.Storage.Driver))
		}
	case DriverPostgres:
		if c.Storage.URL == "" {
			errs = append(errs, errors.New("storage.url is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported storage.driver %q", c.Storage.Driver))
	}
	switch c.Lock.Driver {
	case DriverMemory:
	case DriverRedis:
		if c.Lock.RedisURL == "" {
			errs = append(errs, errors.New("lock.redisURL is required for redis"))
		}
		if c.Lock.TTL <= 0 {
			errs = append(errs, errors.New("lock.ttl must be > 0"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported lock.driver %q", c.Lock.Driver))
	}
	switch c.Events.Driver {
	case DriverMemory:
	case DriverFS:
		if c.Events.Path == "" {
			errs = append(errs, errors.New("events.path is required for fs"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported events.driver %q", c.Events.Driver))
	}
	switch c.Identity.FailurePolicy {
	case identity.FailOpen, identity.FailClosed:
	default:
		errs = append(errs, fmt.Errorf("unsupported identity.failurePolicy %q", c.Identity.FailurePolicy))
	}
	return errors.Join(errs...)
}

// LoadConfig resolves defaults, then the YAML document at location (a local
// path or any afs URL; skipped when empty), then environment overrides.
func LoadConfig(ctx context.Context, location string) (*Config, error) {
	cfg := DefaultConfig()
	if location != "" {
		data, err := afs.New().DownloadWithURL(ctx, url.Normalize(location, file.Scheme))
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", location, err)
		}
		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", location, err)
		}
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	// the secret may still arrive through WithSecret
	if err := cfg.validate(false); err != nil {
		return nil, err
	}
	return cfg, nil
}
