// Package request defines the persistence contract for approval requests.
// Implementations live in the sub-packages (memory, fs, postgres) and in
// service/dao/sqlite.
package request

import (
	"context"
	"time"

	"github.com/viant/sanction/model/approval"
	"github.com/viant/sanction/model/command"
)

// Store persists approval requests.
//
// List results are ordered by creation time, oldest first. MarkCompleted is
// conditional: it succeeds only for a pending request and returns
// fault.ErrAlreadyCompleted otherwise, so approver and completion state are
// written at most once.
type Store interface {
	Create(ctx context.Context, r *approval.Request) error

	Get(ctx context.Context, id string) (*approval.Request, error)

	ListByName(ctx context.Context, name command.Name) ([]*approval.Request, error)

	ListAll(ctx context.Context) ([]*approval.Request, error)

	// Delete removes the request; deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	MarkCompleted(ctx context.Context, id, approverID string, at time.Time) error
}
