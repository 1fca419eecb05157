package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/webship/pkg/cli/config"
	"github.com/m-mizutani/webship/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	var (
		loggerCfg config.Logger
		sentryCfg config.Sentry
		logger    *slog.Logger
		flush     = func() {}
	)
	rt := newRuntime()

	flags := append(loggerCfg.Flags(), sentryCfg.Flags()...)
	flags = append(flags, rt.workspace.Flags()...)
	flags = append(flags, rt.notify.Flags()...)

	app := &cli.Command{
		Name:    "webship",
		Usage:   "Fetch, build, package and ship a project to remote hosts",
		Version: types.Version,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)

			if flush, err = sentryCfg.Configure(); err != nil {
				return nil, err
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdFetch(rt),
			cmdBuild(rt),
			cmdRun(rt),
			cmdDeploy(rt),
			cmdSync(rt),
			cmdServe(rt),
			cmdConfig(rt),
		},
	}

	err := app.Run(ctx, args)
	if err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		sentryCfg.Capture(err)
	}
	flush()

	return err
}
