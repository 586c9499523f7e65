package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/sanction/model/fault"
)

var (
	secret = []byte("test-secret")
	issued = time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
)

func fixedClock(at time.Time) func() time.Time { return func() time.Time { return at } }

func TestProvider_IssueVerify(t *testing.T) {
	issuer, err := NewProvider(secret, WithClock(fixedClock(issued)))
	require.NoError(t, err)
	token, err := issuer.Issue("u-1")
	require.NoError(t, err)

	type testCase struct {
		name      string
		verifyAt  time.Time
		expectErr bool
	}

	tests := []testCase{
		{name: "fresh", verifyAt: issued},
		{name: "just before expiry", verifyAt: issued.Add(DefaultTTL - time.Second)},
		{name: "expired within leeway", verifyAt: issued.Add(DefaultTTL + 30*time.Second)},
		{name: "expired beyond leeway", verifyAt: issued.Add(DefaultTTL + 2*time.Minute), expectErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			verifier, err := NewProvider(secret, WithClock(fixedClock(tc.verifyAt)))
			require.NoError(t, err)
			principal, err := verifier.Verify(token)
			if tc.expectErr {
				assert.ErrorIs(t, err, fault.ErrUnauthorized)
				assert.Nil(t, principal)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "u-1", principal.ID)
			assert.True(t, issued.Add(DefaultTTL).Equal(principal.ExpiresAt))
		})
	}
}

func TestProvider_RejectsForgedTokens(t *testing.T) {
	provider, err := NewProvider(secret, WithClock(fixedClock(issued)))
	require.NoError(t, err)
	claims := jwt.RegisteredClaims{
		Subject:   "u-1",
		ExpiresAt: jwt.NewNumericDate(issued.Add(time.Hour)),
	}

	otherSecret, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other"))
	require.NoError(t, err)
	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(secret)
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "u-1"}).SignedString(secret)
	require.NoError(t, err)
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ExpiresAt: claims.ExpiresAt}).SignedString(secret)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"other secret": otherSecret,
		"hs512":        wrongAlg,
		"alg none":     none,
		"no expiry":    noExpiry,
		"no subject":   noSubject,
		"garbage":      "not.a.jwt",
		"empty":        "",
	} {
		t.Run(name, func(t *testing.T) {
			principal, err := provider.Verify(token)
			assert.ErrorIs(t, err, fault.ErrUnauthorized)
			assert.Nil(t, principal)
		})
	}
}

func TestProvider_Authenticate(t *testing.T) {
	provider, err := NewProvider(secret, WithClock(fixedClock(issued)))
	require.NoError(t, err)
	token, err := provider.Issue("u-7")
	require.NoError(t, err)

	type testCase struct {
		name     string
		header   string
		expectID string
	}

	tests := []testCase{
		{name: "bearer", header: "Bearer " + token, expectID: "u-7"},
		{name: "missing header"},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "lower case scheme", header: "bearer " + token},
		{name: "bearer without token", header: "Bearer   "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			principal, err := provider.Authenticate(tc.header)
			if tc.expectID == "" {
				assert.ErrorIs(t, err, fault.ErrUnauthorized)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectID, principal.ID)
		})
	}
}

func TestNewProviderValidation(t *testing.T) {
	_, err := NewProvider(nil)
	assert.ErrorIs(t, err, fault.ErrValidation)

	provider, err := NewProvider(secret)
	require.NoError(t, err)
	_, err = provider.Issue(" ")
	assert.ErrorIs(t, err, fault.ErrValidation)
}

func TestPrincipalContext(t *testing.T) {
	_, ok := PrincipalFromContext(context.Background())
	assert.False(t, ok)
	ctx := WithPrincipal(context.Background(), &Principal{ID: "u-1"})
	p, ok := PrincipalFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u-1", p.ID)
}

func TestHasher(t *testing.T) {
	hasher := NewHasher(4)
	hash, err := hasher.Hash("s3cret")
	require.NoError(t, err)
	ok, err := hasher.Compare(hash, "s3cret")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = hasher.Compare(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = hasher.Compare("not-a-hash", "s3cret")
	assert.Error(t, err)
}
