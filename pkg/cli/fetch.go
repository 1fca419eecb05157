package cli

import (
	"context"

	"github.com/m-mizutani/webship/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

func cmdFetch(rt *runtime) *cli.Command {
	var fetchCfg config.Fetch

	return &cli.Command{
		Name:      "fetch",
		Usage:     "Clone the project repository into the build directory",
		ArgsUsage: "[repo]",
		Flags:     fetchCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := rt.load(ctx, c); err != nil {
				return err
			}

			in, err := fetchCfg.Input(c.Args().First()).Complete(rt.settings)
			if err != nil {
				return err
			}
			return rt.useCases(false).Fetch(ctx, in)
		},
	}
}
