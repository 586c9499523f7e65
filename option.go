package sanction

import (
	"github.com/viant/sanction/model/approval"
	"github.com/viant/sanction/model/tournament"
	"github.com/viant/sanction/model/training"
	accountsvc "github.com/viant/sanction/service/account"
	"github.com/viant/sanction/service/dao"
	"github.com/viant/sanction/service/dao/request"
	"github.com/viant/sanction/service/executor"
	"github.com/viant/sanction/service/lock"
	"github.com/viant/sanction/service/messaging"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises the Service.
type Option func(s *Service)

// WithConfig sets the configuration; the default is DefaultConfig.
func WithConfig(cfg *Config) Option {
	return func(s *Service) { s.config = cfg }
}

// WithSecret sets the token signing secret, overriding the configured one.
func WithSecret(secret []byte) Option {
	return func(s *Service) { s.secret = secret }
}

// WithRequestStore sets the approval request store.
func WithRequestStore(store request.Store) Option {
	return func(s *Service) { s.requests = store }
}

// WithAccountRepository sets the account repository and directory.
func WithAccountRepository(repository accountsvc.Repository) Option {
	return func(s *Service) { s.accountRepository = repository }
}

// WithTournamentStore sets the tournament store.
func WithTournamentStore(store dao.Service[string, tournament.Tournament]) Option {
	return func(s *Service) { s.tournamentStore = store }
}

// WithTrainingStore sets the training store.
func WithTrainingStore(store dao.Service[string, training.Training]) Option {
	return func(s *Service) { s.trainingStore = store }
}

// WithLocker sets the per-request locker.
func WithLocker(locker lock.Locker) Option {
	return func(s *Service) { s.locker = locker }
}

// WithQueue sets the approval event queue.
func WithQueue(queue messaging.Queue[approval.Event]) Option {
	return func(s *Service) { s.events = queue }
}

// WithExecutorOptions passes additional options to the command executor.
func WithExecutorOptions(opts ...executor.Option) Option {
	return func(s *Service) {
		s.executorOptions = append(s.executorOptions, opts...)
	}
}

// WithTracingExporter exports spans through exporter regardless of the
// tracing configuration.
func WithTracingExporter(exporter sdktrace.SpanExporter) Option {
	return func(s *Service) { s.spanExporter = exporter }
}
