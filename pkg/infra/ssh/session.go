package ssh

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/webship/pkg/domain/shellcmd"
	"golang.org/x/crypto/ssh"
)

type session struct {
	host      string
	client    *ssh.Client
	agentConn net.Conn
	stdout    io.Writer
	stderr    io.Writer
}

// Run executes line on the host and waits for its exit status
func (x *session) Run(ctx context.Context, line string) error {
	ctxlog.From(ctx).Info("Running remote command", "host", x.host, "command", line)
	return x.exec(ctx, line, nil)
}

// Upload streams src into dst on the host
func (x *session) Upload(ctx context.Context, src io.Reader, dst string) error {
	ctxlog.From(ctx).Info("Uploading", "host", x.host, "dst", dst)
	return x.exec(ctx, shellcmd.ReceiveFile(dst), src)
}

func (x *session) exec(ctx context.Context, line string, stdin io.Reader) error {
	s, err := x.client.NewSession()
	if err != nil {
		return goerr.Wrap(err, "failed to open SSH session", goerr.V("host", x.host))
	}
	defer s.Close()

	s.Stdin = stdin
	s.Stdout = x.stdout
	s.Stderr = x.stderr

	done := make(chan error, 1)
	go func() {
		done <- s.Run(line)
	}()

	select {
	case <-ctx.Done():
		_ = s.Signal(ssh.SIGKILL)
		_ = s.Close()
		return goerr.Wrap(ctx.Err(), "remote command cancelled",
			goerr.V("host", x.host),
			goerr.V("command", line),
		)
	case err := <-done:
		if err != nil {
			return goerr.Wrap(err, "remote command failed",
				goerr.V("host", x.host),
				goerr.V("command", line),
				goerr.V("exit_code", exitStatus(err)),
			)
		}
		return nil
	}
}

func exitStatus(err error) int {
	var exitErr *ssh.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitStatus()
	}
	return -1
}

// Close disconnects from the host
func (x *session) Close() error {
	err := x.client.Close()
	if x.agentConn != nil {
		_ = x.agentConn.Close()
	}
	if err != nil && !errors.Is(err, net.ErrClosed) {
		return goerr.Wrap(err, "failed to close SSH connection", goerr.V("host", x.host))
	}
	return nil
}
