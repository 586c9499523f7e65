package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/viant/sanction/service/approval"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Run the HTTP service",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, rootOpts, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides configuration")
	return cmd
}

func runServe(ctx context.Context, opts *RootOptions, addr string) error {
	srv, err := opts.newService(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = srv.Close(context.Background()) }()
	if addr != "" {
		srv.Config().HTTP.Addr = addr
	}

	logger := slog.Default().With("module", "events")
	go func() {
		if err := approval.Watch(ctx, srv.Events(), approval.LogHandler(logger)); err != nil {
			logger.Error("event watch stopped", "operation", "watch", "outcome", "failure", "error", err)
		}
	}()
	return srv.Serve(ctx)
}
