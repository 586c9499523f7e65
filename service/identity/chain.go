package identity

import (
	"context"
	"log/slog"

	"github.com/viant/sanction/model/fault"
)

// FailurePolicy controls how a directory error affects resolution.
type FailurePolicy string

const (
	// FailOpen logs the error and lets the next strategy try.
	FailOpen FailurePolicy = "open"
	// FailClosed aborts resolution with a repository error.
	FailClosed FailurePolicy = "closed"
)

// Chain resolves identifiers through an ordered list of strategies.
type Chain struct {
	directory  Directory
	strategies []Strategy
	policy     FailurePolicy
	logger     *slog.Logger
}

// Option customises a Chain.
type Option func(*Chain)

// WithStrategies replaces the default strategy order.
func WithStrategies(strategies ...Strategy) Option {
	return func(c *Chain) { c.strategies = strategies }
}

// WithFailurePolicy sets the directory failure policy.
func WithFailurePolicy(policy FailurePolicy) Option {
	return func(c *Chain) {
		if policy != "" {
			c.policy = policy
		}
	}
}

// WithLogger sets the logger used for fail-open reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chain) { c.logger = logger }
}

// Resolve returns the canonical account id for token. ok is false when no
// strategy resolves it. err is non-nil only under FailClosed.
func (c *Chain) Resolve(ctx context.Context, token string) (id string, ok bool, err error) {
	for _, strategy := range c.strategies {
		if id, ok, err = c.try(ctx, strategy, token); ok || err != nil {
			return id, ok, err
		}
	}
	return "", false, nil
}

// ResolveWith runs only the named strategy.
func (c *Chain) ResolveWith(ctx context.Context, name, token string) (string, bool, error) {
	for _, strategy := range c.strategies {
		if strategy.Name == name {
			return c.try(ctx, strategy, token)
		}
	}
	return "", false, fault.Validation("unknown identifier strategy %q", name)
}

// Strategies returns the strategy names in evaluation order.
func (c *Chain) Strategies() []string {
	ret := make([]string, 0, len(c.strategies))
	for _, strategy := range c.strategies {
		ret = append(ret, strategy.Name)
	}
	return ret
}

// Policy returns the configured failure policy.
func (c *Chain) Policy() FailurePolicy { return c.policy }

func (c *Chain) try(ctx context.Context, strategy Strategy, token string) (string, bool, error) {
	if !strategy.Recognize(token) {
		return "", false, nil
	}
	id, ok, err := strategy.Lookup(ctx, c.directory, token)
	if err == nil {
		return id, ok, nil
	}
	if c.policy == FailClosed {
		return "", false, fault.Repository(err, "resolve "+strategy.Name)
	}
	c.logger.WarnContext(ctx, "identifier lookup failed",
		"operation", "resolve",
		"outcome", "skipped",
		"strategy", strategy.Name,
		"error", err,
	)
	return "", false, nil
}

// New creates a chain over directory with the default strategies and the
// fail-open policy unless overridden.
func New(directory Directory, options ...Option) *Chain {
	ret := &Chain{
		directory:  directory,
		strategies: DefaultStrategies(),
		policy:     FailOpen,
		logger:     slog.Default().With("module", "identity"),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}
