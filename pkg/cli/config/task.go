package config

import (
	"github.com/m-mizutani/webship/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// Fetch holds the fetch task flags
type Fetch struct {
	Repo      string
	CloneArgs string
	Ref       string
	Project   string
	Force     bool
}

// Flags returns CLI flags for the fetch task
func (c *Fetch) Flags() []cli.Flag {
	return append(c.SourceFlags(),
		&cli.StringFlag{
			Name:        "project",
			Usage:       "Clone directory name (default [project] name, then the repository name)",
			Destination: &c.Project,
		},
		&cli.BoolFlag{
			Name:        "force",
			Aliases:     []string{"f"},
			Usage:       "Replace an existing clone",
			Destination: &c.Force,
		},
	)
}

// SourceFlags returns the flags choosing what to clone
func (c *Fetch) SourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repo",
			Usage:       "Repository to clone (default [fetch] repo)",
			Destination: &c.Repo,
		},
		&cli.StringFlag{
			Name:        "clone-args",
			Usage:       `Extra git clone options, e.g. "depth=1" (default [fetch] clone_args)`,
			Destination: &c.CloneArgs,
		},
		&cli.StringFlag{
			Name:        "ref",
			Usage:       "Branch or tag to check out (default [fetch] ref)",
			Destination: &c.Ref,
		},
	}
}

// Input converts flags into a fetch input; repo is the positional argument if any
func (c *Fetch) Input(repo string) model.FetchInput {
	in := model.FetchInput{
		Repo:      c.Repo,
		CloneArgs: c.CloneArgs,
		Ref:       c.Ref,
		Project:   c.Project,
		Force:     c.Force,
	}
	if repo != "" {
		in.Repo = repo
	}
	return in
}

// Container holds the flags selecting image, runtime and env file
type Container struct {
	Image   string
	Runtime string
	EnvFile string
}

// Flags returns CLI flags for container configuration
func (c *Container) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "docker-image",
			Usage:       "Container image (default [build] docker_image, then " + model.DefaultDockerImage + ")",
			Destination: &c.Image,
		},
		&cli.StringFlag{
			Name:        "runtime",
			Usage:       "Container runtime binary (default [build] runtime, then " + model.DefaultRuntime + ")",
			Destination: &c.Runtime,
		},
		&cli.StringFlag{
			Name:        "env-file",
			Usage:       "Environment file passed to the container",
			Destination: &c.EnvFile,
		},
	}
}

// Build holds the build task flags
type Build struct {
	Container
	Command string
}

// Flags returns CLI flags for the build task
func (c *Build) Flags() []cli.Flag {
	return append(c.Container.Flags(),
		&cli.StringFlag{
			Name:        "command",
			Usage:       "Build command run in the release directory (default [build] command)",
			Destination: &c.Command,
		},
	)
}

// Input converts flags into a build input
func (c *Build) Input(r model.Release, tty bool) model.BuildInput {
	return model.BuildInput{
		Release: r,
		Image:   c.Image,
		Runtime: c.Runtime,
		Command: c.Command,
		EnvFile: c.EnvFile,
		TTY:     tty,
	}
}

// Deploy holds the deploy task flags
type Deploy struct {
	Hosts        string
	IdentityFile string
	PostDeploy   string
}

// Flags returns CLI flags for the deploy task
func (c *Deploy) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "hosts",
			Usage:       "Comma separated [user@]host[:port] list (default [deploy] hosts)",
			Destination: &c.Hosts,
			Sources:     cli.EnvVars("WEBSHIP_HOSTS"),
		},
		&cli.StringFlag{
			Name:        "identity-file",
			Aliases:     []string{"i"},
			Usage:       "SSH private key (default [deploy] identity_file)",
			Destination: &c.IdentityFile,
		},
		&cli.StringFlag{
			Name:        "post-deploy",
			Usage:       "Command run in the release directory after unpacking (default [deploy] post_deploy)",
			Destination: &c.PostDeploy,
		},
	}
}

// Input converts flags into a deploy input
func (c *Deploy) Input(r model.Release) model.DeployInput {
	return model.DeployInput{
		Release:    r,
		HostList:   c.Hosts,
		PostDeploy: c.PostDeploy,
		SSH:        model.SSHOptions{IdentityFile: c.IdentityFile},
	}
}
