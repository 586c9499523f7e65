package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/viant/sanction/model/approval"
	"github.com/viant/sanction/model/command"
	"github.com/viant/sanction/model/fault"
	"github.com/viant/sanction/service/dao"
	"github.com/viant/sanction/service/dao/request"
	"gorm.io/gorm"
)

// Service stores requests in the approval_request table.
type Service struct {
	db *gorm.DB
}

var _ request.Store = (*Service)(nil)

func (s *Service) Create(ctx context.Context, r *approval.Request) error {
	if r == nil {
		return dao.ErrNilEntity
	}
	if r.ID == "" {
		return dao.ErrInvalidID
	}
	err := s.db.WithContext(ctx).Create(r).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fault.Validation("request %q already exists", r.ID)
	}
	return fault.Repository(err, "insert request")
}

func (s *Service) Get(ctx context.Context, id string) (*approval.Request, error) {
	var r approval.Request
	err := s.db.WithContext(ctx).Where("request_id = ?", id).Take(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fault.NotFound("request", id)
	}
	if err != nil {
		return nil, fault.Repository(err, "load request")
	}
	return &r, nil
}

func (s *Service) ListByName(ctx context.Context, name command.Name) ([]*approval.Request, error) {
	var rows []*approval.Request
	err := s.db.WithContext(ctx).
		Where("command_name = ?", string(name)).
		Order("created_at, request_id").
		Find(&rows).Error
	if err != nil {
		return nil, fault.Repository(err, "list requests by name")
	}
	return rows, nil
}

func (s *Service) ListAll(ctx context.Context) ([]*approval.Request, error) {
	var rows []*approval.Request
	if err := s.db.WithContext(ctx).Order("created_at, request_id").Find(&rows).Error; err != nil {
		return nil, fault.Repository(err, "list requests")
	}
	return rows, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Where("request_id = ?", id).Delete(&approval.Request{}).Error
	return fault.Repository(err, "delete request")
}

// MarkCompleted issues a conditional update guarded by completed = false.
func (s *Service) MarkCompleted(ctx context.Context, id, approverID string, at time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&approval.Request{}).
		Where("request_id = ? AND completed = ?", id, false).
		Updates(map[string]any{
			"completed":    true,
			"approver_id":  approverID,
			"completed_at": at,
		})
	if result.Error != nil {
		return fault.Repository(result.Error, "mark request completed")
	}
	if result.RowsAffected == 1 {
		return nil
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return fault.ErrAlreadyCompleted
}

// New wraps an open gorm connection.
func New(db *gorm.DB) *Service {
	return &Service{db: db}
}
