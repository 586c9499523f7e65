package identity

import (
	"context"
	"strings"

	"github.com/viant/sanction/internal/idgen"
)

// Strategy names.
const (
	PhoneStrategy = "phone"
	EmailStrategy = "email"
	IDStrategy    = "id"
)

// Recognizer reports whether token has the shape a strategy handles.
type Recognizer func(token string) bool

// Lookup resolves a recognized token through the directory.
type Lookup func(ctx context.Context, directory Directory, token string) (string, bool, error)

// Strategy pairs a recognizer with its directory lookup.
type Strategy struct {
	Name      string
	Recognize Recognizer
	Lookup    Lookup
}

// IsPhone accepts a non-empty token made only of decimal digits.
func IsPhone(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsEmail accepts a token containing both '@' and '.'.
func IsEmail(token string) bool {
	return strings.ContainsRune(token, '@') && strings.ContainsRune(token, '.')
}

// IsAccountID accepts a token that parses as a UUID.
func IsAccountID(token string) bool {
	_, ok := idgen.Canonical(token)
	return ok
}

// Phone resolves all-digit tokens by phone number.
func Phone() Strategy {
	return Strategy{
		Name:      PhoneStrategy,
		Recognize: IsPhone,
		Lookup: func(ctx context.Context, directory Directory, token string) (string, bool, error) {
			return directory.AccountIDByPhone(ctx, token)
		},
	}
}

// Email resolves tokens shaped like an email address. Addresses are looked
// up in lower case.
func Email() Strategy {
	return Strategy{
		Name:      EmailStrategy,
		Recognize: IsEmail,
		Lookup: func(ctx context.Context, directory Directory, token string) (string, bool, error) {
			return directory.AccountIDByEmail(ctx, strings.ToLower(strings.TrimSpace(token)))
		},
	}
}

// AccountID resolves raw account ids, returning the canonical form.
func AccountID() Strategy {
	return Strategy{
		Name:      IDStrategy,
		Recognize: IsAccountID,
		Lookup: func(ctx context.Context, directory Directory, token string) (string, bool, error) {
			id, _ := idgen.Canonical(token)
			exists, err := directory.AccountExists(ctx, id)
			if err != nil || !exists {
				return "", false, err
			}
			return id, true, nil
		},
	}
}

// DefaultStrategies returns the standard phone, email, id order.
func DefaultStrategies() []Strategy {
	return []Strategy{Phone(), Email(), AccountID()}
}
