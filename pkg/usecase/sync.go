package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/webship/pkg/domain/model"
)

// Sync runs fetch, build and deploy for one release. The first failing
// stage stops the pipeline.
func (x *UseCases) Sync(ctx context.Context, in model.SyncInput) error {
	logger := ctxlog.From(ctx).With("release", in.Build.Release.Name())
	ctx = ctxlog.With(ctx, logger)

	in.Fetch.Force = true
	logger.Info("Sync started", "repo", in.Fetch.Repo, "ref", in.Fetch.Ref)

	if err := x.Fetch(ctx, in.Fetch); err != nil {
		return goerr.Wrap(err, "sync: fetch stage failed")
	}
	if _, err := x.Build(ctx, in.Build); err != nil {
		return goerr.Wrap(err, "sync: build stage failed")
	}
	if err := x.Deploy(ctx, in.Deploy); err != nil {
		return goerr.Wrap(err, "sync: deploy stage failed")
	}

	logger.Info("Sync finished")
	return nil
}
