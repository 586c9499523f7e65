package identity

import "context"

// Directory answers identifier lookups against the account store.
type Directory interface {
	// AccountIDByPhone returns the id of the account owning phone.
	AccountIDByPhone(ctx context.Context, phone string) (string, bool, error)

	// AccountIDByEmail returns the id of the account owning email.
	AccountIDByEmail(ctx context.Context, email string) (string, bool, error)

	// AccountExists reports whether an account with id exists.
	AccountExists(ctx context.Context, id string) (bool, error)
}
