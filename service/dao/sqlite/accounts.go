package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/viant/sanction/model/account"
	"github.com/viant/sanction/model/fault"
	"github.com/viant/sanction/service/dao"
	"github.com/viant/sanction/service/identity"
)

const accountColumns = `account_id, name, email, phone, identification, identification_type, role, password_hash, created_at`

// Accounts stores accounts and answers directory lookups.
type Accounts struct {
	db *sql.DB
}

var (
	_ dao.Service[string, account.Account] = (*Accounts)(nil)
	_ identity.Directory                   = (*Accounts)(nil)
)

// NewAccounts returns an account store over db.
func NewAccounts(db *sql.DB) *Accounts { return &Accounts{db: db} }

// Save inserts or replaces an account.
func (s *Accounts) Save(ctx context.Context, a *account.Account) error {
	if a == nil {
		return dao.ErrNilEntity
	}
	if a.ID == "" {
		return dao.ErrInvalidID
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO account (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(account_id) DO UPDATE SET
    name = excluded.name,
    email = excluded.email,
    phone = excluded.phone,
    identification = excluded.identification,
    identification_type = excluded.identification_type,
    role = excluded.role,
    password_hash = excluded.password_hash`,
		a.ID, a.Name, a.Email, a.Phone, a.Identification, a.IdentificationType, string(a.Role), a.PasswordHash, toUnix(a.CreatedAt))
	if isUniqueViolation(err) {
		return fault.Validation("email or phone already registered")
	}
	return fault.Repository(err, "save account")
}

func (s *Accounts) Load(ctx context.Context, id string) (*account.Account, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM account WHERE account_id = ?`, id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.NotFound("account", id)
	}
	if err != nil {
		return nil, fault.Repository(err, "load account")
	}
	return a, nil
}

func (s *Accounts) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM account WHERE account_id = ?`, id)
	return fault.Repository(err, "delete account")
}

// List returns accounts ordered by creation; a "Role" parameter narrows the result.
func (s *Accounts) List(ctx context.Context, parameters ...*dao.Parameter) ([]*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM account`
	var args []interface{}
	for _, p := range parameters {
		if p == nil || p.Name != "Role" {
			continue
		}
		if role, ok := p.Value.(string); ok {
			query += ` WHERE role = ?`
			args = append(args, role)
		}
		break
	}
	rows, err := s.db.QueryContext(ctx, query+` ORDER BY created_at, account_id`, args...)
	if err != nil {
		return nil, fault.Repository(err, "list accounts")
	}
	defer rows.Close()
	var ret []*account.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fault.Repository(err, "scan account")
		}
		ret = append(ret, a)
	}
	return ret, fault.Repository(rows.Err(), "list accounts")
}

func (s *Accounts) AccountIDByPhone(ctx context.Context, phone string) (string, bool, error) {
	return s.lookup(ctx, `SELECT account_id FROM account WHERE phone = ?`, phone)
}

func (s *Accounts) AccountIDByEmail(ctx context.Context, email string) (string, bool, error) {
	return s.lookup(ctx, `SELECT account_id FROM account WHERE email = ?`, email)
}

func (s *Accounts) AccountExists(ctx context.Context, id string) (bool, error) {
	_, ok, err := s.lookup(ctx, `SELECT account_id FROM account WHERE account_id = ?`, id)
	return ok, err
}

func (s *Accounts) lookup(ctx context.Context, query, value string) (string, bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx, query, value).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

func scanAccount(row scanner) (*account.Account, error) {
	var (
		a         account.Account
		role      string
		createdAt int64
	)
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Identification, &a.IdentificationType, &role, &a.PasswordHash, &createdAt); err != nil {
		return nil, err
	}
	a.Role = account.Role(role)
	a.CreatedAt = fromUnix(createdAt)
	return &a, nil
}
