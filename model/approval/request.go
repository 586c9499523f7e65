// Package approval defines the approval record and the events emitted over
// its lifecycle.
package approval

import (
	"time"

	"github.com/viant/sanction/model/command"
)

// State is the derived lifecycle state of a request.
type State string

const (
	StatePending   State = "pending"
	StateCompleted State = "completed"
)

// Request represents a command awaiting (or having received) approval.
type Request struct {
	ID             string       `json:"id" gorm:"column:request_id;primaryKey"`
	RequesterID    string       `json:"requesterId" gorm:"column:requester_id"`
	CommandName    command.Name `json:"commandName" gorm:"column:command_name;index"`
	CommandPayload string       `json:"commandPayload" gorm:"column:command_payload"`
	ApproverID     *string      `json:"approverId,omitempty" gorm:"column:approver_id"`
	Completed      bool         `json:"completed" gorm:"column:completed"`
	CreatedAt      time.Time    `json:"createdAt" gorm:"column:created_at"`
	CompletedAt    *time.Time   `json:"completedAt,omitempty" gorm:"column:completed_at"`
}

// TableName keeps gorm on the shared table name.
func (Request) TableName() string { return "approval_request" }

// State returns the lifecycle state.
func (r *Request) State() State {
	if r.Completed {
		return StateCompleted
	}
	return StatePending
}

// Clone returns a copy that shares no pointers with r.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	ret := *r
	if r.ApproverID != nil {
		approver := *r.ApproverID
		ret.ApproverID = &approver
	}
	if r.CompletedAt != nil {
		at := *r.CompletedAt
		ret.CompletedAt = &at
	}
	return &ret
}
