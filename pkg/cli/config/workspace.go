package config

import (
	"context"
	"errors"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/webship/pkg/domain/model"
	"github.com/m-mizutani/webship/pkg/infra/settings"
	"github.com/urfave/cli/v3"
)

// DefaultConfigPath is read when --config is not given
const DefaultConfigPath = "webship.ini"

// Workspace holds the options shared by every task
type Workspace struct {
	ConfigPath string
	BuildDir   string
	DryRun     bool
	Yes        bool
}

// Flags returns CLI flags for workspace configuration
func (c *Workspace) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Configuration file (.ini, .cfg, .conf, .toml, .yaml, .yml)",
			Value:       DefaultConfigPath,
			Destination: &c.ConfigPath,
			Sources:     cli.EnvVars("WEBSHIP_CONFIG"),
		},
		&cli.StringFlag{
			Name:        "build-dir",
			Usage:       "Local directory for clones and archives",
			Value:       model.DefaultBuildDir,
			Destination: &c.BuildDir,
			Sources:     cli.EnvVars("WEBSHIP_BUILD_DIR"),
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Print commands instead of running them",
			Destination: &c.DryRun,
			Sources:     cli.EnvVars("WEBSHIP_DRY_RUN"),
		},
		&cli.BoolFlag{
			Name:        "yes",
			Aliases:     []string{"y"},
			Usage:       "Do not ask for confirmation before deploying",
			Destination: &c.Yes,
			Sources:     cli.EnvVars("WEBSHIP_YES"),
		},
	}
}

// LoadSettings reads the configuration file. A missing file is only an
// error when it was named explicitly.
func (c *Workspace) LoadSettings(ctx context.Context, explicit bool) (model.Settings, error) {
	s, err := settings.Load(c.ConfigPath)
	if err != nil {
		if !explicit && errors.Is(err, model.ErrConfigNotFound) {
			ctxlog.From(ctx).Info("No configuration file, using defaults", "path", c.ConfigPath)
			return model.Settings{}, nil
		}
		return nil, err
	}

	ctxlog.From(ctx).Debug("Configuration loaded", "path", c.ConfigPath, "sections", s.Sections())
	return s, nil
}
