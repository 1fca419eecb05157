package shell

import (
	"context"
	"io"

	"github.com/fatih/color"
	"github.com/m-mizutani/webship/pkg/domain/model"
)

// DryRun prints commands instead of executing them
type DryRun struct {
	w      io.Writer
	prefix *color.Color
}

// NewDryRun creates a DryRun writing to w
func NewDryRun(w io.Writer) *DryRun {
	return &DryRun{
		w:      w,
		prefix: color.New(color.FgCyan, color.Bold),
	}
}

// Run prints "[dir] $ line"
func (x *DryRun) Run(ctx context.Context, cmd model.Command) error {
	dir := cmd.Dir
	if dir == "" {
		dir = "."
	}
	_, err := x.prefix.Fprintf(x.w, "[%s] $ ", dir)
	if err != nil {
		return err
	}
	_, err = io.WriteString(x.w, cmd.Line+"\n")
	return err
}
