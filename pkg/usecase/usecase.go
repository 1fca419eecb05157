package usecase

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/webship/pkg/domain/interfaces"
	"github.com/m-mizutani/webship/pkg/domain/model"
)

// UseCases runs the fetch, build, run, deploy and sync tasks
type UseCases struct {
	shell    interfaces.Shell
	dialer   interfaces.RemoteDialer
	prompter interfaces.Prompter
	notifier interfaces.Notifier
	revision interfaces.RevisionReader

	buildDir string
	dryRun   bool
	newID    func() string
}

// Option configures UseCases
type Option func(*UseCases)

// WithBuildDir sets the local working directory for clones and archives
func WithBuildDir(dir string) Option {
	return func(x *UseCases) {
		x.buildDir = dir
	}
}

// WithPrompter sets who confirms remote deployments
func WithPrompter(p interfaces.Prompter) Option {
	return func(x *UseCases) {
		x.prompter = p
	}
}

// WithNotifier sets where deployment summaries go
func WithNotifier(n interfaces.Notifier) Option {
	return func(x *UseCases) {
		x.notifier = n
	}
}

// WithRevisionReader enables REVISION files and revision logging
func WithRevisionReader(r interfaces.RevisionReader) Option {
	return func(x *UseCases) {
		x.revision = r
	}
}

// WithDryRun tolerates missing artifacts, since a dry run never creates them
func WithDryRun(dryRun bool) Option {
	return func(x *UseCases) {
		x.dryRun = dryRun
	}
}

// WithIDGenerator replaces the staging directory id source
func WithIDGenerator(f func() string) Option {
	return func(x *UseCases) {
		x.newID = f
	}
}

// New creates UseCases. Without WithPrompter every deployment is confirmed
// automatically and without WithNotifier nothing is reported.
func New(shell interfaces.Shell, dialer interfaces.RemoteDialer, opts ...Option) *UseCases {
	x := &UseCases{
		shell:    shell,
		dialer:   dialer,
		prompter: autoConfirm{},
		notifier: nopNotifier{},
		buildDir: model.DefaultBuildDir,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

func (x *UseCases) absBuildDir() (string, error) {
	dir, err := filepath.Abs(x.buildDir)
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve build directory", goerr.V("build_dir", x.buildDir))
	}
	return dir, nil
}

func (x *UseCases) run(ctx context.Context, dir, line string) error {
	return x.shell.Run(ctx, model.Command{Line: line, Dir: dir})
}

type autoConfirm struct{}

func (autoConfirm) Confirm(ctx context.Context, question string) (bool, error) {
	return true, nil
}

type nopNotifier struct{}

func (nopNotifier) Notify(ctx context.Context, n *model.Notification) error {
	return nil
}
