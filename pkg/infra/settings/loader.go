// Package settings reads the configuration file into model.Settings.
// The format is chosen by extension: INI (.ini, .cfg, .conf), TOML (.toml)
// and YAML (.yaml, .yml).
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/webship/pkg/domain/model"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// Format of a configuration file
type Format string

const (
	FormatINI  Format = "ini"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// DetectFormat maps a file name to its format
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".cfg", ".conf":
		return FormatINI, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", goerr.Wrap(model.ErrUnsupportedConfigFormat, "unknown config file extension", goerr.V("path", path))
}

// Load reads and parses the file at path. A missing file yields an error
// wrapping model.ErrConfigNotFound.
func Load(path string) (model.Settings, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(model.ErrConfigNotFound, "config file does not exist", goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	s, err := Parse(format, data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.V("path", path))
	}
	return s, nil
}

// Parse decodes data in the given format. Keys of the DEFAULT section (or
// top level scalars for TOML and YAML) are inherited by every other section.
func Parse(format Format, data []byte) (model.Settings, error) {
	var (
		s   model.Settings
		err error
	)

	switch format {
	case FormatINI:
		s, err = parseINI(data)
	case FormatTOML:
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, goerr.Wrap(err, "invalid TOML")
		}
		s, err = fromTree(raw)
	case FormatYAML:
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, goerr.Wrap(err, "invalid YAML")
		}
		s, err = fromTree(raw)
	default:
		return nil, goerr.Wrap(model.ErrUnsupportedConfigFormat, "unknown format", goerr.V("format", format))
	}
	if err != nil {
		return nil, err
	}

	inheritDefaults(s)
	return s, nil
}

func parseINI(data []byte) (model.Settings, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		AllowPythonMultilineValues: true,
		// values are shell commands; only whole-line comments exist
		IgnoreInlineComment: true,
	}, data)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid INI")
	}

	s := model.Settings{}
	for _, sec := range f.Sections() {
		keys := sec.Keys()
		if len(keys) == 0 && sec.Name() == ini.DefaultSection {
			continue
		}
		if _, ok := s[sec.Name()]; !ok {
			s[sec.Name()] = map[string]string{}
		}
		for _, k := range keys {
			// String() expands %(name)s references
			s.Set(sec.Name(), k.Name(), k.String())
		}
	}
	return s, nil
}

func fromTree(raw map[string]any) (model.Settings, error) {
	s := model.Settings{}
	for name, v := range raw {
		table, ok := v.(map[string]any)
		if !ok {
			value, err := stringify(v)
			if err != nil {
				return nil, goerr.Wrap(err, "bad top level value", goerr.V("key", name))
			}
			s.Set(model.SectionDefault, name, value)
			continue
		}

		if _, ok := s[name]; !ok {
			s[name] = map[string]string{}
		}
		if err := flatten(s, name, "", table); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// flatten stores nested tables as dotted keys: [deploy.ssh] port → deploy."ssh.port"
func flatten(s model.Settings, section, prefix string, table map[string]any) error {
	for k, v := range table {
		key := prefix + k
		if sub, ok := v.(map[string]any); ok {
			if err := flatten(s, section, key+".", sub); err != nil {
				return err
			}
			continue
		}
		value, err := stringify(v)
		if err != nil {
			return goerr.Wrap(err, "bad value", goerr.V("section", section), goerr.V("key", key))
		}
		s.Set(section, key, value)
	}
	return nil
}

func stringify(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case []any:
		items := make([]string, 0, len(x))
		for _, item := range x {
			if _, nested := item.([]any); nested {
				return "", goerr.Wrap(model.ErrInvalidSetting, "nested lists are not supported")
			}
			if _, nested := item.(map[string]any); nested {
				return "", goerr.Wrap(model.ErrInvalidSetting, "lists of tables are not supported")
			}
			s, err := stringify(item)
			if err != nil {
				return "", err
			}
			items = append(items, s)
		}
		return strings.Join(items, ","), nil
	case map[string]any:
		return "", goerr.Wrap(model.ErrInvalidSetting, "table is not allowed here")
	default:
		return fmt.Sprint(x), nil
	}
}

func inheritDefaults(s model.Settings) {
	defaults, ok := s[model.SectionDefault]
	if !ok {
		return
	}

	for section, values := range s {
		if section == model.SectionDefault {
			continue
		}
		for k, v := range defaults {
			if _, set := values[k]; !set {
				values[k] = v
			}
		}
	}
}
