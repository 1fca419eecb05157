// Package prompt asks the operator yes/no questions on the terminal.
package prompt

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Terminal reads answers from in and writes questions to out
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal creates a Terminal prompter
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Confirm prints question and returns true for "y" or "yes". Anything else,
// including an empty answer, is a no.
func (x *Terminal) Confirm(ctx context.Context, question string) (bool, error) {
	if _, err := color.New(color.FgYellow, color.Bold).Fprintf(x.out, "%s [y/N]: ", question); err != nil {
		return false, goerr.Wrap(err, "failed to write prompt")
	}

	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := x.in.ReadString('\n')
		ch <- result{line: line, err: err}
	}()

	var answer string
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case r := <-ch:
		if r.err != nil && r.err != io.EOF {
			return false, goerr.Wrap(r.err, "failed to read answer")
		}
		answer = strings.ToLower(strings.TrimSpace(r.line))
	}

	ok := answer == "y" || answer == "yes"
	ctxlog.From(ctx).Debug("Confirmation answered", "question", question, "answer", answer, "accepted", ok)
	return ok, nil
}

// AlwaysYes accepts every question without asking
type AlwaysYes struct{}

// Confirm returns true
func (AlwaysYes) Confirm(ctx context.Context, question string) (bool, error) {
	ctxlog.From(ctx).Info("Confirmation skipped", "question", question)
	return true, nil
}
