package interfaces

import (
	"context"
	"io"

	"github.com/m-mizutani/webship/pkg/domain/model"
)

// Shell runs command lines on the local machine
type Shell interface {
	// Run executes cmd.Line with /bin/sh in cmd.Dir and waits for it
	Run(ctx context.Context, cmd model.Command) error
}

// RemoteDialer opens sessions to deploy hosts
type RemoteDialer interface {
	Dial(ctx context.Context, host model.Host, opt model.SSHOptions) (RemoteSession, error)
}

// RemoteSession runs commands on one connected host
type RemoteSession interface {
	// Run executes line with the remote user's shell
	Run(ctx context.Context, line string) error

	// Upload streams src into the remote file dst
	Upload(ctx context.Context, src io.Reader, dst string) error

	Close() error
}
