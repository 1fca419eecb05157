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

// Run unpacks a built archive in a fresh container and runs in.Cmd there
func (x *UseCases) Run(ctx context.Context, in model.RunInput) error {
	buildDir, err := x.absBuildDir()
	if err != nil {
		return err
	}

	if err := x.checkArtifact(ctx, filepath.Join(buildDir, in.Release.Tarball())); err != nil {
		return err
	}

	if err := x.run(ctx, buildDir, shellcmd.ContainerRun(in, buildDir)); err != nil {
		return goerr.Wrap(err, "run failed", goerr.V("release", in.Release.Name()))
	}
	return nil
}

func (x *UseCases) checkArtifact(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		if x.dryRun {
			ctxlog.From(ctx).Warn("Artifact does not exist yet", "artifact", path)
			return nil
		}
		return goerr.Wrap(model.ErrArtifactNotFound, "build the release first", goerr.V("artifact", path))
	}
	return nil
}
