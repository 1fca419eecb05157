package cli

import (
	"context"

	"github.com/m-mizutani/webship/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

func cmdBuild(rt *runtime) *cli.Command {
	var buildCfg config.Build

	return &cli.Command{
		Name:      "build",
		Usage:     "Build the fetched project in a container and package it",
		ArgsUsage: "<project> <version>",
		Flags:     buildCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := rt.load(ctx, c); err != nil {
				return err
			}

			r, err := rt.release(c)
			if err != nil {
				return err
			}

			in := buildCfg.Input(r, rt.interactive()).Complete(rt.settings)
			_, err = rt.useCases(false).Build(ctx, in)
			return err
		},
	}
}
