package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/sanction/model/fault"
)

const accountID = "4b0c6f0e-8d0a-4a51-9d59-1b1f7e2f5c11"

type fakeDirectory struct {
	phones   map[string]string
	emails   map[string]string
	ids      map[string]bool
	phoneErr error
	emailErr error
	idErr    error
	calls    []string
}

func (f *fakeDirectory) AccountIDByPhone(_ context.Context, phone string) (string, bool, error) {
	f.calls = append(f.calls, "phone:"+phone)
	if f.phoneErr != nil {
		return "", false, f.phoneErr
	}
	id, ok := f.phones[phone]
	return id, ok, nil
}

func (f *fakeDirectory) AccountIDByEmail(_ context.Context, email string) (string, bool, error) {
	f.calls = append(f.calls, "email:"+email)
	if f.emailErr != nil {
		return "", false, f.emailErr
	}
	id, ok := f.emails[email]
	return id, ok, nil
}

func (f *fakeDirectory) AccountExists(_ context.Context, id string) (bool, error) {
	f.calls = append(f.calls, "id:"+id)
	if f.idErr != nil {
		return false, f.idErr
	}
	return f.ids[id], nil
}

func newDirectory() *fakeDirectory {
	return &fakeDirectory{
		phones: map[string]string{"5551234": accountID},
		emails: map[string]string{"ana@example.com": accountID},
		ids:    map[string]bool{accountID: true},
	}
}

func TestRecognizers(t *testing.T) {
	type testCase struct {
		token string
		phone bool
		email bool
		id    bool
	}

	tests := []testCase{
		{token: ""},
		{token: "5551234", phone: true},
		{token: "555-1234"},
		{token: "ana@example.com", email: true},
		{token: "ana@example"},
		{token: "ana.example.com"},
		{token: accountID, id: true},
		{token: "not-a-uuid"},
	}

	for _, tc := range tests {
		t.Run(tc.token, func(t *testing.T) {
			assert.Equal(t, tc.phone, IsPhone(tc.token))
			assert.Equal(t, tc.email, IsEmail(tc.token))
			assert.Equal(t, tc.id, IsAccountID(tc.token))
		})
	}
}

func TestChain_Resolve(t *testing.T) {
	type testCase struct {
		name          string
		token         string
		directory     func() *fakeDirectory
		options       []Option
		expectID      string
		expectOK      bool
		expectErr     error
		expectedCalls []string
	}

	tests := []testCase{
		{
			name:          "phone",
			token:         "5551234",
			directory:     newDirectory,
			expectID:      accountID,
			expectOK:      true,
			expectedCalls: []string{"phone:5551234"},
		},
		{
			name:          "email",
			token:         "ana@example.com",
			directory:     newDirectory,
			expectID:      accountID,
			expectOK:      true,
			expectedCalls: []string{"email:ana@example.com"},
		},
		{
			name:          "raw id canonicalised",
			token:         "4B0C6F0E-8D0A-4A51-9D59-1B1F7E2F5C11",
			directory:     newDirectory,
			expectID:      accountID,
			expectOK:      true,
			expectedCalls: []string{"id:" + accountID},
		},
		{
			name:          "unknown phone falls through",
			token:         "999",
			directory:     newDirectory,
			expectedCalls: []string{"phone:999"},
		},
		{
			name:          "unknown id",
			token:         "00000000-0000-0000-0000-000000000000",
			directory:     newDirectory,
			expectedCalls: []string{"id:00000000-0000-0000-0000-000000000000"},
		},
		{
			name:      "empty token matches nothing",
			token:     "",
			directory: newDirectory,
		},
		{
			name:      "unrecognised shape",
			token:     "ana",
			directory: newDirectory,
		},
		{
			name:  "fail open skips erroring strategy",
			token: "ana@example.com",
			directory: func() *fakeDirectory {
				d := newDirectory()
				d.emailErr = errors.New("db down")
				return d
			},
			expectedCalls: []string{"email:ana@example.com"},
		},
		{
			name:  "fail closed aborts",
			token: "ana@example.com",
			directory: func() *fakeDirectory {
				d := newDirectory()
				d.emailErr = errors.New("db down")
				return d
			},
			options:       []Option{WithFailurePolicy(FailClosed)},
			expectErr:     fault.ErrRepository,
			expectedCalls: []string{"email:ana@example.com"},
		},
		{
			name:  "custom order",
			token: "5551234",
			directory: func() *fakeDirectory {
				d := newDirectory()
				d.phones = map[string]string{}
				return d
			},
			options:       []Option{WithStrategies(Email(), Phone())},
			expectedCalls: []string{"phone:5551234"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			directory := tc.directory()
			chain := New(directory, tc.options...)
			id, ok, err := chain.Resolve(context.Background(), tc.token)
			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.expectOK, ok)
			assert.Equal(t, tc.expectID, id)
			assert.Equal(t, tc.expectedCalls, directory.calls)
		})
	}
}

func TestChain_ResolveWith(t *testing.T) {
	chain := New(newDirectory())
	ctx := context.Background()

	id, ok, err := chain.ResolveWith(ctx, EmailStrategy, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, accountID, id)

	_, ok, err = chain.ResolveWith(ctx, PhoneStrategy, "ana@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = chain.ResolveWith(ctx, "fingerprint", "x")
	assert.ErrorIs(t, err, fault.ErrValidation)

	assert.Equal(t, []string{PhoneStrategy, EmailStrategy, IDStrategy}, chain.Strategies())
	assert.Equal(t, FailOpen, chain.Policy())
}
