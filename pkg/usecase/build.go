package usecase

import (
	"context"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/webship/pkg/domain/model"
	"github.com/m-mizutani/webship/pkg/domain/shellcmd"
)

// Build runs the build command in a container and packages the project.
// It returns the path of the archive.
func (x *UseCases) Build(ctx context.Context, in model.BuildInput) (string, error) {
	logger := ctxlog.From(ctx)
	r := in.Release

	buildDir, err := x.absBuildDir()
	if err != nil {
		return "", err
	}
	projectDir := filepath.Join(buildDir, r.Project)

	if x.revision != nil {
		if rev, err := x.revision.Head(ctx, projectDir); err != nil {
			logger.Warn("Skipping REVISION file", "dir", projectDir, "error", err)
		} else if err := x.run(ctx, projectDir, shellcmd.WriteRevision(rev.Hash)); err != nil {
			return "", goerr.Wrap(err, "failed to write REVISION file")
		}
	}

	if err := x.run(ctx, projectDir, shellcmd.ContainerBuild(in, projectDir)); err != nil {
		return "", goerr.Wrap(err, "build failed", goerr.V("release", r.Name()))
	}

	if err := x.run(ctx, buildDir, shellcmd.Tar(r, in.Excludes)); err != nil {
		return "", goerr.Wrap(err, "packaging failed", goerr.V("release", r.Name()))
	}

	artifact := filepath.Join(buildDir, r.Tarball())
	logger.Info("Built", "release", r.Name(), "artifact", artifact)
	return artifact, nil
}
