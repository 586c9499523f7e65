package executor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/viant/sanction/model/account"
	"github.com/viant/sanction/model/command"
	"github.com/viant/sanction/model/fault"
)

// Accounts is the account service surface used by account commands.
type Accounts interface {
	Update(ctx context.Context, id string, update account.Update) error
	UpdateRole(ctx context.Context, id string, role account.Role) error
}

// Tournaments is the tournament service surface used by tournament commands.
type Tournaments interface {
	Delete(ctx context.Context, id string) error
}

// Trainings is the training service surface used by training commands.
type Trainings interface {
	Delete(ctx context.Context, id string) error
}

// Listener is invoked once an envelope has been dispatched, regardless of the
// outcome.
type Listener func(ctx context.Context, envelope command.Envelope, err error)

// LogListener logs every dispatched envelope with its outcome.
func LogListener(logger *slog.Logger) Listener {
	return func(ctx context.Context, envelope command.Envelope, err error) {
		if err != nil {
			logger.WarnContext(ctx, "command failed",
				"operation", "execute_command",
				"outcome", "failure",
				"command", envelope.Name(),
				"error", err,
			)
			return
		}
		logger.InfoContext(ctx, "command executed",
			"operation", "execute_command",
			"outcome", "success",
			"command", envelope.Name(),
		)
	}
}

// Option is used to customise the executor instance.
type Option func(*service)

// WithListener overrides the listener invoked after every dispatched
// envelope. Passing nil disables the callback entirely.
func WithListener(l Listener) Option {
	return func(s *service) { s.listener = l }
}

// WithAccounts sets the account service.
func WithAccounts(accounts Accounts) Option {
	return func(s *service) { s.accounts = accounts }
}

// WithTournaments sets the tournament service.
func WithTournaments(tournaments Tournaments) Option {
	return func(s *service) { s.tournaments = tournaments }
}

// WithTrainings sets the training service.
func WithTrainings(trainings Trainings) Option {
	return func(s *service) { s.trainings = trainings }
}

// Service executes command envelopes.
type Service interface {
	Execute(ctx context.Context, envelope command.Envelope) error
}

type service struct {
	accounts    Accounts
	tournaments Tournaments
	trainings   Trainings
	listener    Listener
}

// Execute runs the single domain operation named by envelope. No retry is
// attempted; domain errors are wrapped as fault.ErrCommandExecution.
func (s *service) Execute(ctx context.Context, envelope command.Envelope) error {
	envelope, err := command.Canonical(envelope)
	if err != nil {
		return fault.CommandExecution(ErrUnsupportedCommand, "nil")
	}
	err = s.dispatch(ctx, envelope)
	if err != nil {
		err = fault.CommandExecution(err, string(envelope.Name()))
	}
	if s.listener != nil {
		s.listener(ctx, envelope, err)
	}
	return err
}

func (s *service) dispatch(ctx context.Context, envelope command.Envelope) error {
	switch actual := envelope.(type) {
	case command.UpdateAccount:
		if s.accounts == nil {
			return fmt.Errorf("accounts: %w", ErrMissingService)
		}
		return s.accounts.Update(ctx, actual.TargetID, actual.Fields)
	case command.UpdateAccountRole:
		if s.accounts == nil {
			return fmt.Errorf("accounts: %w", ErrMissingService)
		}
		return s.accounts.UpdateRole(ctx, actual.TargetID, actual.Role)
	case command.DeleteTournament:
		if s.tournaments == nil {
			return fmt.Errorf("tournaments: %w", ErrMissingService)
		}
		return s.tournaments.Delete(ctx, actual.ID)
	case command.DeleteTraining:
		if s.trainings == nil {
			return fmt.Errorf("trainings: %w", ErrMissingService)
		}
		return s.trainings.Delete(ctx, actual.ID)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedCommand, envelope.Name())
	}
}

// New creates a new executor service instance.
func New(opts ...Option) Service {
	s := &service{
		listener: LogListener(slog.Default().With("module", "executor")),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}
