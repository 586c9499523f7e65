package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
	"github.com/viant/sanction/model/approval"
	"github.com/viant/sanction/model/command"
	"github.com/viant/sanction/model/fault"
	"github.com/viant/sanction/service/dao"
	"github.com/viant/sanction/service/dao/criteria"
	"github.com/viant/sanction/service/dao/request"
)

// Service implements a filesystem-based request store; every request is a
// JSON document named <id>.json under the base URL. Conditional updates are
// serialised within the process only.
type Service struct {
	baseURL string
	fs      afs.Service
	mu      sync.RWMutex
	logger  *slog.Logger
}

var _ request.Store = (*Service)(nil)

// Create persists a new request, failing when the id is taken.
func (s *Service) Create(ctx context.Context, r *approval.Request) error {
	if r == nil {
		return dao.ErrNilEntity
	}
	if r.ID == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := s.requestPath(r.ID)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return fault.Repository(err, "check request")
	}
	if exists {
		return fault.Validation("request %q already exists", r.ID)
	}
	return s.write(ctx, r)
}

// Get loads a request by id.
func (s *Service) Get(ctx context.Context, id string) (*approval.Request, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(ctx, id)
}

func (s *Service) ListByName(ctx context.Context, name command.Name) ([]*approval.Request, error) {
	return s.list(ctx, dao.NewParameter("CommandName", string(name)))
}

func (s *Service) ListAll(ctx context.Context) ([]*approval.Request, error) {
	return s.list(ctx)
}

// Delete removes the request file if present.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := s.requestPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return fault.Repository(err, "check request")
	}
	if !exists {
		return nil
	}
	if err := s.fs.Delete(ctx, filePath); err != nil {
		return fault.Repository(err, "delete request file")
	}
	return nil
}

// MarkCompleted records the approval when the request is still pending.
func (s *Service) MarkCompleted(ctx context.Context, id, approverID string, at time.Time) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.read(ctx, id)
	if err != nil {
		return err
	}
	if r.Completed {
		return fault.ErrAlreadyCompleted
	}
	r.Completed = true
	r.ApproverID = &approverID
	r.CompletedAt = &at
	return s.write(ctx, r)
}

func (s *Service) list(ctx context.Context, parameters ...*dao.Parameter) ([]*approval.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, err := s.fs.List(ctx, s.baseURL, option.NewRecursive(false))
	if err != nil {
		return nil, fault.Repository(err, "list request files")
	}

	var requests []*approval.Request
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping unreadable request file", "url", object.URL(), "error", err)
			continue
		}
		var r approval.Request
		if err := json.Unmarshal(data, &r); err != nil {
			s.logger.WarnContext(ctx, "skipping malformed request file", "url", object.URL(), "error", err)
			continue
		}
		if !criteria.Match(fields(&r), parameters) {
			continue
		}
		requests = append(requests, &r)
	}
	sort.SliceStable(requests, func(i, j int) bool {
		if requests[i].CreatedAt.Equal(requests[j].CreatedAt) {
			return requests[i].ID < requests[j].ID
		}
		return requests[i].CreatedAt.Before(requests[j].CreatedAt)
	})
	return requests, nil
}

func fields(r *approval.Request) criteria.Field {
	return func(name string) (string, bool) {
		switch name {
		case "CommandName":
			return string(r.CommandName), true
		case "State":
			return string(r.State()), true
		}
		return "", false
	}
}

func (s *Service) read(ctx context.Context, id string) (*approval.Request, error) {
	filePath := s.requestPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return nil, fault.Repository(err, "check request")
	}
	if !exists {
		return nil, fault.NotFound("request", id)
	}
	data, err := s.fs.DownloadWithURL(ctx, filePath)
	if err != nil {
		return nil, fault.Repository(err, "read request file")
	}
	var r approval.Request
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fault.Repository(err, "unmarshal request")
	}
	return &r, nil
}

func (s *Service) write(ctx context.Context, r *approval.Request) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fault.Repository(err, "marshal request")
	}
	filePath := s.requestPath(r.ID)
	if err = s.fs.Upload(ctx, filePath, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fault.Repository(err, fmt.Sprintf("write request file %s", filePath))
	}
	return nil
}

func (s *Service) requestPath(id string) string {
	return url.Join(s.baseURL, id+".json")
}

// New creates a filesystem request store rooted at baseURL (a local path or
// any afs-supported URL).
func New(ctx context.Context, baseURL string) (*Service, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}

	fs := afs.New()
	baseURL = url.Normalize(baseURL, file.Scheme)
	exists, _ := fs.Exists(ctx, baseURL)
	if !exists {
		if err := fs.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}

	return &Service{
		baseURL: baseURL,
		fs:      fs,
		logger:  slog.Default().With("module", "request_fs_store"),
	}, nil
}
