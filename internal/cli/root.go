// Package cli implements the sanction command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/viant/sanction"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigURL string
	Secret    string
	LogLevel  string
	LogFormat string // "json" | "text"
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sanction",
		Short: "Approval workflow for privileged commands",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), opts.LogLevel, opts.LogFormat)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigURL, "config", "c", "", "config file (path or URL)")
	cmd.PersistentFlags().StringVar(&opts.Secret, "secret", "", "token secret, overrides configuration")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "text", "log format (json|text)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))
	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewSecretCommand(opts))
	return cmd
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	handlerOptions := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOptions)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, handlerOptions)), nil
	}
	return nil, fmt.Errorf("invalid log format %q: must be json or text", format)
}

func (o *RootOptions) newService(ctx context.Context, extra ...sanction.Option) (*sanction.Service, error) {
	cfg, err := sanction.LoadConfig(ctx, o.ConfigURL)
	if err != nil {
		return nil, err
	}
	options := []sanction.Option{sanction.WithConfig(cfg)}
	if o.Secret != "" {
		options = append(options, sanction.WithSecret([]byte(o.Secret)))
	}
	return sanction.New(ctx, append(options, extra...)...)
}
