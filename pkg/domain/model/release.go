package model

import (
	"strings"
	"unicode"

	"github.com/m-mizutani/goerr/v2"
)

// Release identifies one build of a project
type Release struct {
	Project string
	Version string
}

// NewRelease builds a release from task arguments, falling back to the [project] section
func NewRelease(project, version string, s Settings) (Release, error) {
	r := Release{
		Project: firstNonEmpty(project, s.Get(SectionProject, "name")),
		Version: firstNonEmpty(version, s.Get(SectionProject, "version")),
	}
	if r.Project == "" {
		return r, goerr.Wrap(ErrMissingArgument, "project name is required")
	}
	if r.Version == "" {
		return r, goerr.Wrap(ErrMissingArgument, "version is required", goerr.V("project", r.Project))
	}
	if err := r.Validate(); err != nil {
		return r, err
	}
	return r, nil
}

// Validate checks that both names are usable as single path elements
func (r Release) Validate() error {
	if err := ValidateName(r.Project); err != nil {
		return goerr.Wrap(err, "bad project name", goerr.V("project", r.Project))
	}
	if err := ValidateName(r.Version); err != nil {
		return goerr.Wrap(err, "bad version", goerr.V("version", r.Version))
	}
	return nil
}

// Name returns "<project>-<version>", the release directory name
func (r Release) Name() string {
	return r.Project + "-" + r.Version
}

// Tarball returns the archive file name of the release
func (r Release) Tarball() string {
	return r.Name() + ".tar.gz"
}

// ValidateName rejects names that are empty, hidden, or not a single path element
func ValidateName(name string) error {
	if name == "" {
		return goerr.Wrap(ErrInvalidRelease, "empty name")
	}
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "-") {
		return goerr.Wrap(ErrInvalidRelease, "name must not start with '.' or '-'", goerr.V("name", name))
	}
	for _, c := range name {
		if c == '/' || c == '\\' || unicode.IsSpace(c) || !unicode.IsPrint(c) {
			return goerr.Wrap(ErrInvalidRelease, "name contains a forbidden character", goerr.V("name", name))
		}
	}
	return nil
}

// ProjectFromRepo derives a directory name from a repository URL or path,
// the same name `git clone` would pick.
func ProjectFromRepo(repo string) string {
	repo = strings.TrimRight(strings.TrimSpace(repo), "/")
	repo = strings.TrimSuffix(repo, ".git")
	if i := strings.LastIndexAny(repo, "/:"); i >= 0 {
		repo = repo[i+1:]
	}
	return repo
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
