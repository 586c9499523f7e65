package sanction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	goredis "github.com/redis/go-redis/v9"
	httpadapter "github.com/viant/sanction/adapter/http"
	"github.com/viant/sanction/internal/clock"
	"github.com/viant/sanction/model/approval"
	"github.com/viant/sanction/model/tournament"
	"github.com/viant/sanction/model/training"
	"github.com/viant/sanction/progress"
	accountsvc "github.com/viant/sanction/service/account"
	approvalsvc "github.com/viant/sanction/service/approval"
	"github.com/viant/sanction/service/auth"
	"github.com/viant/sanction/service/dao"
	accountmem "github.com/viant/sanction/service/dao/account/memory"
	"github.com/viant/sanction/service/dao/request"
	requestfs "github.com/viant/sanction/service/dao/request/fs"
	requestmem "github.com/viant/sanction/service/dao/request/memory"
	"github.com/viant/sanction/service/dao/request/postgres"
	"github.com/viant/sanction/service/dao/sqlite"
	"github.com/viant/sanction/service/dao/store"
	"github.com/viant/sanction/service/executor"
	"github.com/viant/sanction/service/identity"
	"github.com/viant/sanction/service/lock"
	redislock "github.com/viant/sanction/service/lock/redis"
	"github.com/viant/sanction/service/messaging"
	qfs "github.com/viant/sanction/service/messaging/fs"
	qmem "github.com/viant/sanction/service/messaging/memory"
	tournamentsvc "github.com/viant/sanction/service/tournament"
	trainingsvc "github.com/viant/sanction/service/training"
	"github.com/viant/sanction/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"gorm.io/gorm"
)

const (
	serviceName    = "sanction"
	serviceVersion = "0.1.0"
)

// Service wires the approval workflow and its collaborators.
type Service struct {
	config *Config
	secret []byte

	requests          request.Store
	accountRepository accountsvc.Repository
	tournamentStore   dao.Service[string, tournament.Tournament]
	trainingStore     dao.Service[string, training.Training]
	locker            lock.Locker
	events            messaging.Queue[approval.Event]
	executorOptions   []executor.Option
	spanExporter      sdktrace.SpanExporter

	tokens      *auth.Provider
	chain       *identity.Chain
	accounts    *accountsvc.Service
	tournaments *tournamentsvc.Service
	trainings   *trainingsvc.Service
	executor    executor.Service
	approvals   *approvalsvc.Service
	progress    *progress.Progress

	closers []func(ctx context.Context) error
	logger  *slog.Logger
}

// Approvals returns the approval workflow.
func (s *Service) Approvals() *approvalsvc.Service { return s.approvals }

// Accounts returns the account service.
func (s *Service) Accounts() *accountsvc.Service { return s.accounts }

// Tournaments returns the tournament service.
func (s *Service) Tournaments() *tournamentsvc.Service { return s.tournaments }

// Trainings returns the training service.
func (s *Service) Trainings() *trainingsvc.Service { return s.trainings }

// Identities returns the identifier resolver chain.
func (s *Service) Identities() *identity.Chain { return s.chain }

// Tokens returns the token provider.
func (s *Service) Tokens() *auth.Provider { return s.tokens }

// Events returns the approval event queue.
func (s *Service) Events() messaging.Queue[approval.Event] { return s.events }

// Config returns the effective configuration.
func (s *Service) Config() *Config { return s.config }

// Handler returns the HTTP router.
func (s *Service) Handler() http.Handler {
	return httpadapter.NewRouter(httpadapter.NewHandler(s.approvals, s.tokens, s.accounts, s.chain))
}

// Serve runs the HTTP boundary on the configured address until ctx is done.
func (s *Service) Serve(ctx context.Context) error {
	return httpadapter.Serve(ctx, s.config.HTTP.Addr, s.Handler())
}

// Close releases connections in reverse order of acquisition.
func (s *Service) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

func (s *Service) init(ctx context.Context) error {
	if err := s.ensureBaseSetup(ctx); err != nil {
		return err
	}
	hasher := auth.NewHasher(s.config.Auth.BcryptCost)
	s.chain = identity.New(s.accountRepository, identity.WithFailurePolicy(s.config.Identity.FailurePolicy))
	s.accounts = accountsvc.New(s.accountRepository, s.chain, hasher, s.tokens)
	s.tournaments = tournamentsvc.New(s.tournamentStore)
	s.trainings = trainingsvc.New(s.trainingStore)

	executorOptions := append([]executor.Option{
		executor.WithAccounts(s.accounts),
		executor.WithTournaments(s.tournaments),
		executor.WithTrainings(s.trainings),
	}, s.executorOptions...)
	s.executor = executor.New(executorOptions...)
	s.progress = progress.New(clock.Now())
	s.approvals = approvalsvc.New(s.requests, s.executor,
		approvalsvc.WithLocker(s.locker),
		approvalsvc.WithQueue(s.events),
		approvalsvc.WithProgress(s.progress),
	)
	return nil
}

func (s *Service) ensureBaseSetup(ctx context.Context) error {
	if err := s.ensureTracing(); err != nil {
		return err
	}
	if err := s.ensureTokens(ctx); err != nil {
		return err
	}
	if err := s.ensureStorage(ctx); err != nil {
		return err
	}
	if err := s.ensureLocker(ctx); err != nil {
		return err
	}
	return s.ensureEvents(ctx)
}

func (s *Service) ensureTracing() error {
	var shutdown tracing.Shutdown
	var err error
	switch {
	case s.spanExporter != nil:
		shutdown, err = tracing.InitWithExporter(serviceName, serviceVersion, s.spanExporter)
	case s.config.Tracing.Enabled:
		shutdown, err = tracing.Init(serviceName, serviceVersion, s.config.Tracing.Output)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	s.closers = append(s.closers, shutdown)
	return nil
}

func (s *Service) ensureTokens(ctx context.Context) error {
	if len(s.secret) == 0 {
		secret, err := s.config.Auth.secret(ctx)
		if err != nil {
			return err
		}
		s.secret = secret
	}
	options := []auth.Option{auth.WithTTL(s.config.Auth.TTL), auth.WithLeeway(s.config.Auth.Leeway)}
	if s.config.Auth.Issuer != "" {
		options = append(options, auth.WithIssuer(s.config.Auth.Issuer))
	}
	tokens, err := auth.NewProvider(s.secret, options...)
	if err != nil {
		return err
	}
	s.tokens = tokens
	return nil
}

func (s *Service) ensureStorage(ctx context.Context) error {
	cfg := s.config.Storage
	switch cfg.Driver {
	case DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return err
		}
		s.closers = append(s.closers, func(context.Context) error { return db.Close() })
		s.useSQLite(db)
	case DriverPostgres:
		if s.requests == nil {
			db, err := postgres.Connect(ctx, cfg.URL, cfg.MaxConns)
			if err != nil {
				return err
			}
			s.closers = append(s.closers, closeGorm(db))
			if err = postgres.RunMigrations(ctx, db); err != nil {
				return err
			}
			s.requests = postgres.New(db)
		}
	case DriverFS:
		if s.requests == nil {
			requests, err := requestfs.New(ctx, cfg.Path)
			if err != nil {
				return err
			}
			s.requests = requests
		}
	}
	s.useMemory()
	s.logger.InfoContext(ctx, "storage ready", "operation", "init", "outcome", "success", "driver", cfg.Driver)
	return nil
}

func (s *Service) useSQLite(db *sql.DB) {
	if s.requests == nil {
		s.requests = sqlite.NewRequests(db)
	}
	if s.accountRepository == nil {
		s.accountRepository = sqlite.NewAccounts(db)
	}
	if s.tournamentStore == nil {
		s.tournamentStore = sqlite.NewTournaments(db)
	}
	if s.trainingStore == nil {
		s.trainingStore = sqlite.NewTrainings(db)
	}
}

func (s *Service) useMemory() {
	if s.requests == nil {
		s.requests = requestmem.New()
	}
	if s.accountRepository == nil {
		s.accountRepository = accountmem.New()
	}
	if s.tournamentStore == nil {
		s.tournamentStore = store.NewMemoryStore[string, tournament.Tournament](func(t *tournament.Tournament) string { return t.ID })
	}
	if s.trainingStore == nil {
		s.trainingStore = store.NewMemoryStore[string, training.Training](func(t *training.Training) string { return t.ID })
	}
}

func (s *Service) ensureLocker(ctx context.Context) error {
	if s.locker != nil {
		return nil
	}
	if s.config.Lock.Driver != DriverRedis {
		s.locker = lock.NewMemory()
		return nil
	}
	client, err := redislock.Connect(ctx, s.config.Lock.RedisURL)
	if err != nil {
		return err
	}
	s.closers = append(s.closers, closeRedis(client))
	locker, err := redislock.New(client, redislock.WithTTL(s.config.Lock.TTL))
	if err != nil {
		return err
	}
	s.locker = locker
	return nil
}

func (s *Service) ensureEvents(ctx context.Context) error {
	if s.events != nil {
		return nil
	}
	if s.config.Events.Driver != DriverFS {
		s.events = qmem.NewQueue[approval.Event](qmem.Config{QueueBuffer: s.config.Events.Buffer, DeadLetter: true})
		return nil
	}
	queue, err := qfs.NewQueue[approval.Event](ctx, qfs.DefaultConfig(s.config.Events.Path))
	if err != nil {
		return err
	}
	s.events = queue
	return nil
}

func closeGorm(db *gorm.DB) func(context.Context) error {
	return func(context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
}

func closeRedis(client *goredis.Client) func(context.Context) error {
	return func(context.Context) error { return client.Close() }
}

// New creates the service. Collaborators not supplied through options are
// built from the configuration.
func New(ctx context.Context, options ...Option) (*Service, error) {
	ret := &Service{logger: slog.Default().With("module", "sanction")}
	for _, option := range options {
		option(ret)
	}
	if ret.config == nil {
		ret.config = DefaultConfig()
	}
	if err := ret.config.validate(len(ret.secret) == 0); err != nil {
		return nil, err
	}
	if err := ret.init(ctx); err != nil {
		_ = ret.Close(ctx)
		return nil, err
	}
	return ret, nil
}
