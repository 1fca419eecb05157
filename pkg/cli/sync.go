package cli

import (
	"context"

	"github.com/m-mizutani/webship/pkg/cli/config"
	"github.com/m-mizutani/webship/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func cmdSync(rt *runtime) *cli.Command {
	var (
		fetchCfg  config.Fetch
		buildCfg  config.Build
		deployCfg config.Deploy
	)

	flags := append(fetchCfg.SourceFlags(), buildCfg.Flags()...)
	flags = append(flags, deployCfg.Flags()...)

	return &cli.Command{
		Name:      "sync",
		Usage:     "Fetch, build and deploy a release in one go",
		ArgsUsage: "<project> <version>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := rt.load(ctx, c); err != nil {
				return err
			}

			r, err := rt.release(c)
			if err != nil {
				return err
			}

			in, err := model.SyncInput{
				Fetch:  fetchCfg.Input(""),
				Build:  buildCfg.Input(r, rt.interactive()),
				Deploy: deployCfg.Input(r),
			}.Complete(rt.settings, rt.home)
			if err != nil {
				return err
			}

			return rt.useCases(false).Sync(ctx, in)
		},
	}
}
