package ssh

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/m-mizutani/webship/pkg/domain/interfaces"
	"github.com/m-mizutani/webship/pkg/domain/model"
)

// DryRun prints remote commands instead of connecting
type DryRun struct {
	w      io.Writer
	prefix *color.Color
}

// NewDryRun creates a DryRun writing to w
func NewDryRun(w io.Writer) *DryRun {
	return &DryRun{w: w, prefix: color.New(color.FgMagenta, color.Bold)}
}

// Dial returns a session that prints what it would do on host
func (x *DryRun) Dial(ctx context.Context, host model.Host, opt model.SSHOptions) (interfaces.RemoteSession, error) {
	return &dryRunSession{DryRun: x, host: host.String()}, nil
}

type dryRunSession struct {
	*DryRun
	host string
}

func (x *dryRunSession) Run(ctx context.Context, line string) error {
	if _, err := x.prefix.Fprintf(x.w, "[%s] $ ", x.host); err != nil {
		return err
	}
	_, err := io.WriteString(x.w, line+"\n")
	return err
}

// Upload drains src so callers hashing the stream see the real content
func (x *dryRunSession) Upload(ctx context.Context, src io.Reader, dst string) error {
	n, err := io.Copy(io.Discard, src)
	if err != nil {
		return err
	}
	if _, err := x.prefix.Fprintf(x.w, "[%s] ", x.host); err != nil {
		return err
	}
	_, err = fmt.Fprintf(x.w, "upload %d bytes -> %s\n", n, dst)
	return err
}

func (x *dryRunSession) Close() error { return nil }
