// Package shellcmd builds the command lines webship hands to the local shell
// and to remote hosts. Every function is pure; values that come from
// configuration as paths or names are quoted, values that are shell snippets
// by nature (build command, run command, post deploy hook) are inserted as is.
package shellcmd

import (
	"path"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/m-mizutani/webship/pkg/domain/model"
)

const (
	// ContainerReleasesPath is where releases live inside build and run containers
	ContainerReleasesPath = "/app/releases"
	// ContainerBuildMount is where run mounts the local build directory
	ContainerBuildMount = "/build"
	// RevisionFile is written into the project before packaging
	RevisionFile = "REVISION"
	// CurrentSuffix names the symlink pointing at the active release
	CurrentSuffix = "-current"
)

func quote(s string) string {
	return shellescape.Quote(s)
}

func and(parts ...string) string {
	return strings.Join(parts, " && ")
}

// MakeDir returns `mkdir -p <dir>`
func MakeDir(dir string) string {
	return "mkdir -p " + quote(dir)
}

// RemoveAll returns `rm -rf <paths...>`
func RemoveAll(paths ...string) string {
	quoted := make([]string, len(paths))
	for i, p := range paths {
		quoted[i] = quote(p)
	}
	return "rm -rf " + strings.Join(quoted, " ")
}

// CloneArgs turns the configured clone_args value into git options.
// "depth=1 single-branch" becomes "--depth=1 --single-branch".
func CloneArgs(raw string) []string {
	var args []string
	for _, token := range strings.Fields(raw) {
		if !strings.HasPrefix(token, "-") {
			token = "--" + token
		}
		args = append(args, token)
	}
	return args
}

// GitClone returns the clone command for the fetch task
func GitClone(in model.FetchInput) string {
	parts := []string{"git", "clone"}
	for _, arg := range CloneArgs(in.CloneArgs) {
		parts = append(parts, quote(arg))
	}
	if in.Ref != "" {
		parts = append(parts, "--branch", quote(in.Ref))
	}
	parts = append(parts, quote(in.Repo), quote(in.Project))
	return strings.Join(parts, " ")
}

// WriteRevision records a commit hash in the REVISION file of the working directory
func WriteRevision(hash string) string {
	return "printf '%s\\n' " + quote(hash) + " > " + RevisionFile
}

// ContainerReleasePath is the release directory inside a container
func ContainerReleasePath(r model.Release) string {
	return path.Join(ContainerReleasesPath, r.Name())
}

func containerRun(runtime string, tty bool, envFile string) []string {
	parts := []string{quote(runtime), "run", "--rm", "-i"}
	if tty {
		parts = append(parts, "-t")
	}
	if envFile != "" {
		parts = append(parts, quote("--env-file="+envFile))
	}
	return parts
}

// ContainerBuild returns the command that builds the project in a container.
// projectDir is the absolute path of the fetched project on the host.
func ContainerBuild(in model.BuildInput, projectDir string) string {
	releasePath := ContainerReleasePath(in.Release)
	parts := containerRun(in.Runtime, in.TTY, in.EnvFile)
	parts = append(parts,
		"-v", quote(projectDir+":"+releasePath),
		quote(in.Image),
		"/bin/bash", "-c", quote(and("cd "+quote(releasePath), in.Command)),
	)
	return strings.Join(parts, " ")
}

// Tar returns the packaging command, run in the build directory
func Tar(r model.Release, excludes []string) string {
	parts := []string{"tar", "czf", quote(r.Tarball())}
	for _, e := range excludes {
		parts = append(parts, quote("--exclude="+e))
	}
	parts = append(parts, quote(r.Project))
	return strings.Join(parts, " ")
}

// ReleaseCommand resolves cmd against the release directory: "manage.py check"
// runs <releasePath>/manage.py. Absolute commands are left alone.
func ReleaseCommand(releasePath, cmd string) string {
	cmd = strings.TrimSpace(cmd)
	if strings.HasPrefix(cmd, "/") {
		return cmd
	}
	return quote(releasePath) + "/" + strings.TrimPrefix(cmd, "./")
}

// ContainerRun returns the command that unpacks a built archive in a fresh
// container and runs in.Cmd, a path inside the release, from the release
// directory. buildDir is the
// absolute path of the local build directory; it is mounted read only.
func ContainerRun(in model.RunInput, buildDir string) string {
	r := in.Release
	releasePath := ContainerReleasePath(r)
	script := and(
		"mkdir -p "+ContainerReleasesPath,
		"tar xzf "+quote(path.Join(ContainerBuildMount, r.Tarball()))+" -C /tmp",
		"mv "+quote(path.Join("/tmp", r.Project))+" "+quote(releasePath),
		"cd "+quote(releasePath),
		ReleaseCommand(releasePath, in.Cmd),
	)

	parts := []string{quote(in.Runtime), "run", "--rm", "-i"}
	if in.TTY {
		parts = append(parts, "-t")
	}
	parts = append(parts,
		"-v", quote(buildDir+":"+ContainerBuildMount+":ro"),
		"-e", quote("tarball_name="+r.Tarball()),
		"-e", quote("deploy_path="+ContainerReleasesPath),
	)
	if in.EnvFile != "" {
		parts = append(parts, quote("--env-file="+in.EnvFile))
	}
	parts = append(parts,
		"-e", quote("project_name="+r.Project),
		"-e", quote("version="+r.Version),
		quote(in.Image),
		"/bin/bash", "-c", quote(script),
	)
	return strings.Join(parts, " ")
}
