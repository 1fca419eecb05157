package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/webship/pkg/cli/config"
	controller "github.com/m-mizutani/webship/pkg/controller/http"
	"github.com/m-mizutani/webship/pkg/usecase"
	"github.com/m-mizutani/webship/pkg/utils/async"
	"github.com/urfave/cli/v3"
)

func cmdServe(rt *runtime) *cli.Command {
	var (
		serverCfg config.Server
		githubCfg config.GitHub
	)

	flags := append(serverCfg.Flags(), githubCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server that syncs every published GitHub release",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if err := rt.load(ctx, c); err != nil {
				return err
			}
			secret, err := githubCfg.ResolveSecret(rt.settings)
			if err != nil {
				return err
			}
			addr := serverCfg.ResolveAddr(rt.settings)

			logger.Info("Starting webship server",
				slog.String("addr", addr),
				slog.Bool("dry_run", rt.workspace.DryRun),
			)

			// nobody is around to answer prompts
			syncUC := rt.useCases(true)
			queue := async.NewQueue(async.DefaultQueueSize)
			webhookUC := usecase.NewWebhook(syncUC, rt.settings,
				usecase.WithHome(rt.home),
				usecase.WithDispatcher(queue),
			)

			server, err := controller.NewServer(
				ctx,
				webhookUC,
				controller.WithAddr(addr),
				controller.WithWebhookSecret(secret),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			case err := <-errCh:
				return goerr.Wrap(err, "HTTP server stopped", goerr.V("addr", addr))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Waiting for running syncs", slog.Duration("timeout", serverCfg.ShutdownTimeout))
			if err := queue.Close(shutdownCtx); err != nil {
				return goerr.Wrap(err, "syncs did not finish before shutdown")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
