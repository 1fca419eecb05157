package cli

import (
	"context"
	"strings"

	"github.com/m-mizutani/webship/pkg/cli/config"
	"github.com/m-mizutani/webship/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func cmdRun(rt *runtime) *cli.Command {
	var containerCfg config.Container

	return &cli.Command{
		Name:      "run",
		Usage:     "Run a command inside the packaged release for local verification",
		ArgsUsage: "<project> <version> [--] <cmd...>",
		Flags:     containerCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := rt.load(ctx, c); err != nil {
				return err
			}

			r, err := rt.release(c)
			if err != nil {
				return err
			}

			var cmd string
			if args := c.Args().Slice(); len(args) > 2 {
				rest := args[2:]
				if rest[0] == "--" {
					rest = rest[1:]
				}
				cmd = strings.Join(rest, " ")
			}

			in, err := model.RunInput{
				Release: r,
				Image:   containerCfg.Image,
				Runtime: containerCfg.Runtime,
				EnvFile: containerCfg.EnvFile,
				Cmd:     cmd,
				TTY:     rt.interactive(),
			}.Complete(rt.settings)
			if err != nil {
				return err
			}

			return rt.useCases(false).Run(ctx, in)
		},
	}
}
