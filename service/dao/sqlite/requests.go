package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/viant/sanction/model/approval"
	"github.com/viant/sanction/model/command"
	"github.com/viant/sanction/model/fault"
	"github.com/viant/sanction/service/dao"
	"github.com/viant/sanction/service/dao/request"
)

const requestColumns = `request_id, requester_id, command_name, command_payload, approver_id, completed, created_at, completed_at`

// Requests implements request.Store.
type Requests struct {
	db *sql.DB
}

var _ request.Store = (*Requests)(nil)

// NewRequests returns a request store over db.
func NewRequests(db *sql.DB) *Requests { return &Requests{db: db} }

func (s *Requests) Create(ctx context.Context, r *approval.Request) error {
	if r == nil {
		return dao.ErrNilEntity
	}
	if r.ID == "" {
		return dao.ErrInvalidID
	}
	var completedAt sql.NullInt64
	if r.CompletedAt != nil {
		completedAt = sql.NullInt64{Int64: toUnix(*r.CompletedAt), Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO approval_request (`+requestColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.RequesterID, string(r.CommandName), r.CommandPayload, r.ApproverID, r.Completed, toUnix(r.CreatedAt), completedAt)
	if isUniqueViolation(err) {
		return fault.Validation("request %q already exists", r.ID)
	}
	return fault.Repository(err, "insert request")
}

func (s *Requests) Get(ctx context.Context, id string) (*approval.Request, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM approval_request WHERE request_id = ?`, id)
	r, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.NotFound("request", id)
	}
	if err != nil {
		return nil, fault.Repository(err, "load request")
	}
	return r, nil
}

func (s *Requests) ListByName(ctx context.Context, name command.Name) ([]*approval.Request, error) {
	return s.query(ctx, `SELECT `+requestColumns+` FROM approval_request WHERE command_name = ? ORDER BY created_at, request_id`, string(name))
}

func (s *Requests) ListAll(ctx context.Context) ([]*approval.Request, error) {
	return s.query(ctx, `SELECT `+requestColumns+` FROM approval_request ORDER BY created_at, request_id`)
}

func (s *Requests) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM approval_request WHERE request_id = ?`, id)
	return fault.Repository(err, "delete request")
}

// MarkCompleted updates the row only while completed = 0.
func (s *Requests) MarkCompleted(ctx context.Context, id, approverID string, at time.Time) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE approval_request SET completed = 1, approver_id = ?, completed_at = ? WHERE request_id = ? AND completed = 0`,
		approverID, toUnix(at), id)
	if err != nil {
		return fault.Repository(err, "mark request completed")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fault.Repository(err, "mark request completed")
	}
	if affected == 1 {
		return nil
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return fault.ErrAlreadyCompleted
}

func (s *Requests) query(ctx context.Context, query string, args ...interface{}) ([]*approval.Request, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fault.Repository(err, "list requests")
	}
	defer rows.Close()

	var ret []*approval.Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fault.Repository(err, "scan request")
		}
		ret = append(ret, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fault.Repository(err, "list requests")
	}
	return ret, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row scanner) (*approval.Request, error) {
	var (
		r           approval.Request
		name        string
		approverID  sql.NullString
		createdAt   int64
		completedAt sql.NullInt64
	)
	if err := row.Scan(&r.ID, &r.RequesterID, &name, &r.CommandPayload, &approverID, &r.Completed, &createdAt, &completedAt); err != nil {
		return nil, err
	}
	r.CommandName = command.Name(name)
	r.ApproverID = nullString(approverID)
	r.CreatedAt = fromUnix(createdAt)
	r.CompletedAt = nullUnix(completedAt)
	return &r, nil
}
