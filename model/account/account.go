// Package account defines the account records managed by the directory and
// the mutation payloads carried by account commands.
package account

import "time"

// Role is the account role.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCoach   Role = "coach"
	RoleAthlete Role = "athlete"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCoach, RoleAthlete:
		return true
	}
	return false
}

// Account represents a directory entry.
type Account struct {
	ID                 string    `json:"id" yaml:"id"`
	Name               string    `json:"name" yaml:"name"`
	Email              string    `json:"email" yaml:"email"`
	Phone              string    `json:"phone" yaml:"phone"`
	Identification     string    `json:"identification,omitempty" yaml:"identification,omitempty"`
	IdentificationType string    `json:"identificationType,omitempty" yaml:"identificationType,omitempty"`
	Role               Role      `json:"role" yaml:"role"`
	PasswordHash       string    `json:"-" yaml:"-"`
	CreatedAt          time.Time `json:"createdAt" yaml:"createdAt"`
}

// Update carries the mutable account fields.
type Update struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Identification     string `json:"identification"`
	IdentificationType string `json:"identificationType"`
}

// Apply copies the update onto a.
func (u *Update) Apply(a *Account) {
	a.Name = u.Name
	a.Email = u.Email
	a.Phone = u.Phone
	a.Identification = u.Identification
	a.IdentificationType = u.IdentificationType
}

// Registration is the input for creating an account. It carries no role:
// self-registered accounts are athletes and role changes go through approval.
type Registration struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Identification     string `json:"identification,omitempty"`
	IdentificationType string `json:"identificationType,omitempty"`
	Password           string `json:"password"`
}
