package cli

import (
	"context"

	"github.com/m-mizutani/webship/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

func cmdDeploy(rt *runtime) *cli.Command {
	var deployCfg config.Deploy

	return &cli.Command{
		Name:      "deploy",
		Usage:     "Upload and unpack the release archive on every deploy host",
		ArgsUsage: "<project> <version>",
		Flags:     deployCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := rt.load(ctx, c); err != nil {
				return err
			}

			r, err := rt.release(c)
			if err != nil {
				return err
			}

			in, err := deployCfg.Input(r).Complete(rt.settings, rt.home)
			if err != nil {
				return err
			}
			return rt.useCases(false).Deploy(ctx, in)
		},
	}
}
