package usecase

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/webship/pkg/domain/model"
	"github.com/m-mizutani/webship/pkg/domain/shellcmd"
)

// Fetch clones in.Repo into <build_dir>/<in.Project>
func (x *UseCases) Fetch(ctx context.Context, in model.FetchInput) error {
	logger := ctxlog.From(ctx)

	buildDir, err := x.absBuildDir()
	if err != nil {
		return err
	}
	if err := x.run(ctx, "", shellcmd.MakeDir(buildDir)); err != nil {
		return goerr.Wrap(err, "failed to create build directory")
	}

	dest := filepath.Join(buildDir, in.Project)
	if _, err := os.Stat(dest); err == nil {
		if !in.Force {
			return goerr.Wrap(model.ErrAlreadyFetched, "destination already exists, use --force to replace it", goerr.V("dir", dest))
		}
		logger.Info("Removing previous clone", "dir", dest)
		if err := x.run(ctx, buildDir, shellcmd.RemoveAll(in.Project)); err != nil {
			return goerr.Wrap(err, "failed to remove previous clone")
		}
	}

	if err := x.run(ctx, buildDir, shellcmd.GitClone(in)); err != nil {
		return goerr.Wrap(err, "failed to clone repository", goerr.V("repo", in.Repo))
	}

	if x.revision != nil && !x.dryRun {
		rev, err := x.revision.Head(ctx, dest)
		if err != nil {
			logger.Warn("Cannot read fetched revision", "dir", dest, "error", err)
			return nil
		}
		logger.Info("Fetched",
			"repo", in.Repo,
			"hash", rev.ShortHash(),
			"branch", rev.Branch,
			"author", rev.Author,
			"subject", rev.Subject,
		)
	}

	return nil
}
