// Package shell runs command lines on the local machine.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	sh "github.com/codeskyblue/go-sh"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/webship/pkg/domain/model"
)

// Runner executes commands with /bin/sh through go-sh sessions
type Runner struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	env    map[string]string
}

// Option configures a Runner
type Option func(*Runner)

// WithStdin sets the reader connected to the command's stdin
func WithStdin(r io.Reader) Option {
	return func(x *Runner) {
		x.stdin = r
	}
}

// WithStdout sets the writer receiving the command's stdout
func WithStdout(w io.Writer) Option {
	return func(x *Runner) {
		x.stdout = w
	}
}

// WithStderr sets the writer receiving the command's stderr
func WithStderr(w io.Writer) Option {
	return func(x *Runner) {
		x.stderr = w
	}
}

// WithEnv adds an environment variable to every command
func WithEnv(key, value string) Option {
	return func(x *Runner) {
		x.env[key] = value
	}
}

// New creates a Runner wired to the process's standard streams
func New(opts ...Option) *Runner {
	r := &Runner{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		env:    map[string]string{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes cmd.Line in cmd.Dir and waits for it. Cancelling ctx kills the shell.
func (x *Runner) Run(ctx context.Context, cmd model.Command) error {
	logger := ctxlog.From(ctx)
	logger.Info("Running command", "command", cmd.Line, "dir", cmd.Dir)

	s := sh.NewSession()
	s.ShowCMD = false
	s.Stdin = x.stdin
	s.Stdout = x.stdout
	s.Stderr = x.stderr
	for k, v := range x.env {
		s.SetEnv(k, v)
	}
	if cmd.Dir != "" {
		s.SetDir(cmd.Dir)
	}
	s.Command("/bin/sh", "-c", cmd.Line)

	started := time.Now()
	if err := execute(ctx, s); err != nil {
		return goerr.Wrap(err, "command failed",
			goerr.V("command", cmd.Line),
			goerr.V("dir", cmd.Dir),
			goerr.V("exit_code", exitCode(err)),
		)
	}

	logger.Debug("Command finished", "command", cmd.Line, "duration", time.Since(started))
	return nil
}

// killGrace bounds how long a killed command may keep its output open
const killGrace = 5 * time.Second

// execute waits for s. On cancellation it kills the shell and waits for the
// output pipes to close. go-sh does not expose the process, so the kill only
// reaches /bin/sh; sh and bash exec a single simple command in place, which
// covers every line webship builds, but children of a compound line survive
// and are reported.
func execute(ctx context.Context, s *sh.Session) error {
	if err := s.Start(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- s.Wait()
	}()

	select {
	case <-ctx.Done():
		s.Kill(syscall.SIGKILL)
		select {
		case <-done:
		case <-time.After(killGrace):
			ctxlog.From(ctx).Warn("Command was killed but its children still hold the output open")
		}
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
