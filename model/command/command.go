package command

import (
	"strings"

	"github.com/viant/sanction/model/account"
	"github.com/viant/sanction/model/fault"
)

// Name identifies an envelope variant.
type Name string

const (
	UpdateAccountName     Name = "UpdateAccount"
	UpdateAccountRoleName Name = "UpdateAccountRole"
	DeleteTournamentName  Name = "DeleteTournament"
	DeleteTrainingName    Name = "DeleteTraining"
)

// Envelope is a request to perform one domain mutation. The set of
// implementations is closed: only types in this package satisfy it.
type Envelope interface {
	Name() Name
	// Validate checks the variant's fields before the envelope is stored.
	Validate() error
	sealed()
}

// UpdateAccount replaces the mutable fields of account TargetID.
type UpdateAccount struct {
	TargetID string         `json:"targetId"`
	Fields   account.Update `json:"fields"`
}

func (UpdateAccount) Name() Name { return UpdateAccountName }

func (c UpdateAccount) Validate() error {
	if strings.TrimSpace(c.TargetID) == "" {
		return fault.Validation("%s: target id is empty", c.Name())
	}
	return nil
}

func (UpdateAccount) sealed() {}

// UpdateAccountRole changes the role of account TargetID.
type UpdateAccountRole struct {
	TargetID string       `json:"targetId"`
	Role     account.Role `json:"role"`
}

func (UpdateAccountRole) Name() Name { return UpdateAccountRoleName }

func (c UpdateAccountRole) Validate() error {
	if strings.TrimSpace(c.TargetID) == "" {
		return fault.Validation("%s: target id is empty", c.Name())
	}
	if !c.Role.Valid() {
		return fault.Validation("%s: unknown role %q", c.Name(), c.Role)
	}
	return nil
}

func (UpdateAccountRole) sealed() {}

// DeleteTournament removes tournament ID.
type DeleteTournament struct {
	ID string `json:"id"`
}

func (DeleteTournament) Name() Name { return DeleteTournamentName }

func (c DeleteTournament) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fault.Validation("%s: id is empty", c.Name())
	}
	return nil
}

func (DeleteTournament) sealed() {}

// DeleteTraining removes training ID.
type DeleteTraining struct {
	ID string `json:"id"`
}

func (DeleteTraining) Name() Name { return DeleteTrainingName }

func (c DeleteTraining) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fault.Validation("%s: id is empty", c.Name())
	}
	return nil
}

func (DeleteTraining) sealed() {}

// Canonical returns the value form of envelope. Pointer variants are
// dereferenced so that every consumer sees exactly one type per name; nil
// envelopes are rejected.
func Canonical(envelope Envelope) (Envelope, error) {
	switch actual := envelope.(type) {
	case nil:
		return nil, fault.Validation("envelope is empty")
	case *UpdateAccount:
		if actual != nil {
			return *actual, nil
		}
	case *UpdateAccountRole:
		if actual != nil {
			return *actual, nil
		}
	case *DeleteTournament:
		if actual != nil {
			return *actual, nil
		}
	case *DeleteTraining:
		if actual != nil {
			return *actual, nil
		}
	default:
		return envelope, nil
	}
	return nil, fault.Validation("envelope is empty")
}
