package model

import "errors"

var (
	// ErrMissingArgument is returned when a required task argument is neither given nor configured.
	ErrMissingArgument = errors.New("missing argument")
	// ErrInvalidRelease is returned for project or version names that cannot be used as path elements.
	ErrInvalidRelease = errors.New("invalid release")
	// ErrInvalidHost is returned when a deploy host entry cannot be parsed.
	ErrInvalidHost = errors.New("invalid host")
	// ErrNoHosts is returned when deploy has nowhere to go.
	ErrNoHosts = errors.New("no deploy hosts")
	// ErrArtifactNotFound is returned when the release archive has not been built yet.
	ErrArtifactNotFound = errors.New("artifact not found")
	// ErrAlreadyFetched is returned when the clone destination exists and fetch is not forced.
	ErrAlreadyFetched = errors.New("repository already fetched")
	// ErrInvalidSetting is returned for configuration values of the wrong shape.
	ErrInvalidSetting = errors.New("invalid setting")
	// ErrConfigNotFound is returned when an explicitly requested config file does not exist.
	ErrConfigNotFound = errors.New("config file not found")
	// ErrUnsupportedConfigFormat is returned for config files with an unknown extension.
	ErrUnsupportedConfigFormat = errors.New("unsupported config format")
)
