package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/ghrelease/pkg/cli/config"
	"github.com/m-mizutani/ghrelease/pkg/domain/types"
)

// Option is a functional option for Run
type Option func(*environment)

// WithStdout sets the writer for command output
func WithStdout(w io.Writer) Option {
	return func(e *environment) {
		e.stdout = w
	}
}

// WithStderr sets the writer for warnings, errors and logs
func WithStderr(w io.Writer) Option {
	return func(e *environment) {
		e.stderr = w
	}
}

// Run runs the CLI application
func Run(ctx context.Context, args []string, opts ...Option) error {
	env := &environment{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(env)
	}

	var loggerCfg config.Logger
	var logger *slog.Logger

	app := &cli.Command{
		Name:      "ghrelease",
		Usage:     "Create GitHub releases, upload and download release assets",
		Version:   types.Version,
		Flags:     loggerCfg.Flags(),
		Writer:    env.stdout,
		ErrWriter: env.stderr,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.ConfigureWriter(env.stderr)
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdCreate(env),
			cmdUpload(env),
			cmdDownload(env),
		},
	}

	if err := app.Run(ctx, dispatchByName(args)); err != nil {
		// Errors raised outside command actions, e.g. by Before, are not
		// printed yet
		env.report(err)
		if logger != nil {
			logger.Debug("CLI execution failed", slog.Any("error", err))
		}
		return err
	}

	return nil
}

// dispatchByName lets the binary be installed under a command alias, e.g. a
// release-create symlink behaves as "ghrelease release-create".
func dispatchByName(args []string) []string {
	if len(args) == 0 {
		return args
	}

	switch name := filepath.Base(args[0]); name {
	case "release-create", "release-upload", "release-download":
		return append([]string{"ghrelease", name}, args[1:]...)
	default:
		return args
	}
}
