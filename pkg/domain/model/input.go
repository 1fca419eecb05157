package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Built-in defaults, matching what the tool did before it was configurable
const (
	DefaultBuildDir      = "build"
	DefaultDockerImage   = "python:3.8"
	DefaultRuntime       = "podman"
	DefaultBuildCommand  = "rm -rf .venv && poetry install"
	DefaultExclude       = ".git"
	DefaultReleasesPath  = "/app/releases"
	DefaultKnownHostsRel = ".ssh/known_hosts"
)

// FetchInput is the resolved input of the fetch task
type FetchInput struct {
	Repo      string
	CloneArgs string
	Ref       string
	Project   string
	Force     bool
}

// Complete fills empty fields from settings and checks required ones
func (x FetchInput) Complete(s Settings) (FetchInput, error) {
	x.Repo = firstNonEmpty(x.Repo, s.Get(SectionFetch, "repo"))
	if x.Repo == "" {
		return x, goerr.Wrap(ErrMissingArgument, "repository is required", goerr.V("key", "fetch.repo"))
	}
	x.CloneArgs = firstNonEmpty(x.CloneArgs, s.Get(SectionFetch, "clone_args"))
	x.Ref = firstNonEmpty(x.Ref, s.Get(SectionFetch, "ref"))
	x.Project = firstNonEmpty(x.Project, s.Get(SectionProject, "name"), ProjectFromRepo(x.Repo))
	if err := ValidateName(x.Project); err != nil {
		return x, goerr.Wrap(err, "cannot derive clone destination", goerr.V("repo", x.Repo))
	}
	return x, nil
}

// BuildInput is the resolved input of the build task
type BuildInput struct {
	Release  Release
	Image    string
	Runtime  string
	Command  string
	EnvFile  string
	Excludes []string
	TTY      bool
}

// Complete fills empty fields from the [build] section and defaults
func (x BuildInput) Complete(s Settings) BuildInput {
	x.Image = firstNonEmpty(x.Image, s.Get(SectionBuild, "docker_image"), DefaultDockerImage)
	x.Runtime = firstNonEmpty(x.Runtime, s.Get(SectionBuild, "runtime"), DefaultRuntime)
	x.Command = firstNonEmpty(x.Command, s.Get(SectionBuild, "command"), DefaultBuildCommand)
	x.EnvFile = firstNonEmpty(x.EnvFile, s.Get(SectionBuild, "env_file"))
	if len(x.Excludes) == 0 {
		x.Excludes = s.List(SectionBuild, "excludes")
	}
	if len(x.Excludes) == 0 {
		x.Excludes = []string{DefaultExclude}
	}
	return x
}

// RunInput is the resolved input of the run task
type RunInput struct {
	Release Release
	Image   string
	Runtime string
	EnvFile string
	Cmd     string
	TTY     bool
}

// Complete fills empty fields from [run], then [build], then defaults
func (x RunInput) Complete(s Settings) (RunInput, error) {
	x.Image = firstNonEmpty(x.Image, s.Get(SectionRun, "docker_image"), s.Get(SectionBuild, "docker_image"), DefaultDockerImage)
	x.Runtime = firstNonEmpty(x.Runtime, s.Get(SectionRun, "runtime"), s.Get(SectionBuild, "runtime"), DefaultRuntime)
	x.EnvFile = firstNonEmpty(x.EnvFile, s.Get(SectionRun, "env_file"))
	x.Cmd = firstNonEmpty(x.Cmd, s.Get(SectionRun, "cmd"))
	if x.Cmd == "" {
		return x, goerr.Wrap(ErrMissingArgument, "command to run is required", goerr.V("key", "run.cmd"))
	}
	return x, nil
}

// DeployInput is the resolved input of the deploy task
type DeployInput struct {
	Release  Release
	HostList string
	Hosts    []Host
	Path     string

	SSH SSHOptions

	CurrentLink bool
	PostDeploy  string
}

// Complete parses the host list and fills the rest from the [deploy] section.
// home is used to locate the default known_hosts file.
func (x DeployInput) Complete(s Settings, home string) (DeployInput, error) {
	x.HostList = firstNonEmpty(x.HostList, s.Get(SectionDeploy, "hosts"))

	port := DefaultSSHPort
	if p := s.Get(SectionDeploy, "port"); p != "" {
		h, err := ParseHost("localhost:"+p, "", DefaultSSHPort)
		if err != nil {
			return x, goerr.Wrap(ErrInvalidSetting, "bad deploy port", goerr.V("port", p))
		}
		port = h.Port
	}

	hosts, err := ParseHosts(x.HostList, s.Get(SectionDeploy, "user"), port)
	if err != nil {
		return x, err
	}
	if len(hosts) == 0 {
		return x, goerr.Wrap(ErrNoHosts, "set [deploy] hosts or pass --hosts")
	}
	x.Hosts = hosts

	x.Path = strings.TrimRight(firstNonEmpty(x.Path, s.Get(SectionDeploy, "path"), DefaultReleasesPath), "/")
	if x.Path == "" {
		return x, goerr.Wrap(ErrInvalidSetting, "deploy path must not be the root directory")
	}

	x.SSH.IdentityFile = firstNonEmpty(x.SSH.IdentityFile, s.Get(SectionDeploy, "identity_file"))
	x.SSH.IdentityPassphrase = firstNonEmpty(x.SSH.IdentityPassphrase, s.Get(SectionDeploy, "identity_passphrase"))
	x.SSH.KnownHosts = firstNonEmpty(x.SSH.KnownHosts, s.Get(SectionDeploy, "known_hosts"))
	if x.SSH.KnownHosts == "" && home != "" {
		x.SSH.KnownHosts = strings.TrimRight(home, "/") + "/" + DefaultKnownHostsRel
	}

	if !x.SSH.InsecureIgnoreHostKey {
		if x.SSH.InsecureIgnoreHostKey, err = s.Bool(SectionDeploy, "insecure_ignore_host_key", false); err != nil {
			return x, err
		}
	}
	if x.CurrentLink, err = s.Bool(SectionDeploy, "current_link", true); err != nil {
		return x, err
	}
	x.PostDeploy = firstNonEmpty(x.PostDeploy, s.Get(SectionDeploy, "post_deploy"))

	return x, nil
}

// SyncInput is the input of the full fetch, build and deploy pipeline
type SyncInput struct {
	Fetch  FetchInput
	Build  BuildInput
	Deploy DeployInput
}

// Complete resolves every stage for the release in x.Build.Release. The clone
// is always forced, and its ref defaults to the version when
// [sync] use_version_as_ref is set.
func (x SyncInput) Complete(s Settings, home string) (SyncInput, error) {
	r := x.Build.Release
	if err := r.Validate(); err != nil {
		return x, err
	}

	x.Fetch.Project = firstNonEmpty(x.Fetch.Project, r.Project)
	x.Fetch.Force = true
	if x.Fetch.Ref == "" {
		useVersion, err := s.Bool(SectionSync, "use_version_as_ref", false)
		if err != nil {
			return x, err
		}
		if useVersion {
			x.Fetch.Ref = r.Version
		}
	}

	var err error
	if x.Fetch, err = x.Fetch.Complete(s); err != nil {
		return x, err
	}
	x.Build = x.Build.Complete(s)

	x.Deploy.Release = r
	if x.Deploy, err = x.Deploy.Complete(s, home); err != nil {
		return x, err
	}
	return x, nil
}
