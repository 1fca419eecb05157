package cli

import (
	"context"
	"io"
	"os"

	"github.com/m-mizutani/webship/pkg/cli/config"
	"github.com/m-mizutani/webship/pkg/domain/interfaces"
	"github.com/m-mizutani/webship/pkg/domain/model"
	"github.com/m-mizutani/webship/pkg/infra/git"
	"github.com/m-mizutani/webship/pkg/infra/prompt"
	"github.com/m-mizutani/webship/pkg/infra/shell"
	"github.com/m-mizutani/webship/pkg/infra/slack"
	"github.com/m-mizutani/webship/pkg/infra/ssh"
	"github.com/m-mizutani/webship/pkg/usecase"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
)

// runtime carries what every task needs once flags are parsed
type runtime struct {
	workspace config.Workspace
	notify    config.Notify

	settings model.Settings
	home     string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newRuntime() *runtime {
	return &runtime{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// load reads the configuration file. Global flags may follow the task name,
// so this runs inside the task action rather than in the root Before hook.
func (x *runtime) load(ctx context.Context, c *cli.Command) error {
	s, err := x.workspace.LoadSettings(ctx, c.IsSet("config"))
	if err != nil {
		return err
	}
	x.settings = s

	if home, err := os.UserHomeDir(); err == nil {
		x.home = home
	}
	return nil
}

// useCases wires infra for the current flags. confirmed skips prompts.
func (x *runtime) useCases(confirmed bool) *usecase.UseCases {
	var sh interfaces.Shell = shell.New(
		shell.WithStdin(x.stdin),
		shell.WithStdout(x.stdout),
		shell.WithStderr(x.stderr),
	)
	var dialer interfaces.RemoteDialer = ssh.New(ssh.WithOutput(x.stdout, x.stderr))
	var prompter interfaces.Prompter = prompt.NewTerminal(x.stdin, x.stderr)
	notifier := x.notify.Notifier(x.settings)

	if x.workspace.DryRun {
		sh = shell.NewDryRun(x.stdout)
		dialer = ssh.NewDryRun(x.stdout)
		notifier = slack.Nop{}
	}
	if confirmed || x.workspace.Yes || x.workspace.DryRun {
		prompter = prompt.AlwaysYes{}
	}

	return usecase.New(sh, dialer,
		usecase.WithBuildDir(x.workspace.BuildDir),
		usecase.WithPrompter(prompter),
		usecase.WithNotifier(notifier),
		usecase.WithRevisionReader(git.NewRevisionReader()),
		usecase.WithDryRun(x.workspace.DryRun),
	)
}

// interactive reports whether containers can be given a TTY
func (x *runtime) interactive() bool {
	f, ok := x.stdin.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (x *runtime) release(c *cli.Command) (model.Release, error) {
	return model.NewRelease(c.Args().Get(0), c.Args().Get(1), x.settings)
}
