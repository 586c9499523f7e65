package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/viant/sanction/internal/clock"
	"github.com/viant/sanction/model/fault"
)

const (
	// DefaultTTL is the lifetime of issued tokens.
	DefaultTTL = time.Hour
	// DefaultLeeway is the clock skew tolerated when checking expiry.
	DefaultLeeway = 60 * time.Second
)

// Principal is the verified identity behind a request.
type Principal struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Provider issues and verifies tokens.
type Provider struct {
	secret []byte
	ttl    time.Duration
	leeway time.Duration
	issuer string
	now    func() time.Time
}

// Option customises a Provider.
type Option func(*Provider)

// WithTTL sets the token lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(p *Provider) {
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

// WithLeeway sets the tolerated clock skew.
func WithLeeway(leeway time.Duration) Option {
	return func(p *Provider) {
		if leeway >= 0 {
			p.leeway = leeway
		}
	}
}

// WithIssuer sets the iss claim on issued tokens.
func WithIssuer(issuer string) Option {
	return func(p *Provider) { p.issuer = issuer }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		if now != nil {
			p.now = now
		}
	}
}

// Issue returns a signed token for subject.
func (p *Provider) Issue(subject string) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", fault.Validation("token subject is empty")
	}
	now := p.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    p.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry and returns the principal.
func (p *Provider) Verify(raw string) (*Principal, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fault.Unauthorized(nil, "missing token")
	}
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(*jwt.Token) (interface{}, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(p.leeway),
		jwt.WithTimeFunc(p.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fault.Unauthorized(err, "token expired")
		}
		return nil, fault.Unauthorized(err, "invalid token")
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return nil, fault.Unauthorized(nil, "invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, fault.Unauthorized(nil, "token has no subject")
	}
	return &Principal{ID: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Authenticate extracts a bearer token from an Authorization header value
// and verifies it.
func (p *Provider) Authenticate(header string) (*Principal, error) {
	token, err := BearerToken(header)
	if err != nil {
		return nil, err
	}
	return p.Verify(token)
}

// BearerToken returns the token carried by a "Bearer <token>" header value.
func BearerToken(header string) (string, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", fault.Unauthorized(nil, "missing bearer token")
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", fault.Unauthorized(nil, "missing bearer token")
	}
	return token, nil
}

// NewProvider creates a provider signing with secret.
func NewProvider(secret []byte, options ...Option) (*Provider, error) {
	if len(secret) == 0 {
		return nil, fault.Validation("token secret is empty")
	}
	ret := &Provider{
		secret: secret,
		ttl:    DefaultTTL,
		leeway: DefaultLeeway,
		now:    clock.Now,
	}
	for _, option := range options {
		option(ret)
	}
	return ret, nil
}
