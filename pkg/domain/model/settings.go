package model

import (
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Configuration sections
const (
	SectionDefault = "DEFAULT"
	SectionProject = "project"
	SectionFetch   = "fetch"
	SectionBuild   = "build"
	SectionRun     = "run"
	SectionDeploy  = "deploy"
	SectionSync    = "sync"
	SectionNotify  = "notify"
	SectionServe   = "serve"
)

// Settings holds configuration as section -> key -> value. Keys are lower case.
type Settings map[string]map[string]string

// Lookup returns the value of section.key and whether it is present
func (s Settings) Lookup(section, key string) (string, bool) {
	sec, ok := s[section]
	if !ok {
		return "", false
	}
	v, ok := sec[strings.ToLower(key)]
	return v, ok
}

// Get returns the value of section.key, or an empty string
func (s Settings) Get(section, key string) string {
	v, _ := s.Lookup(section, key)
	return v
}

// GetOr returns the value of section.key unless it is missing or empty
func (s Settings) GetOr(section, key, fallback string) string {
	if v := strings.TrimSpace(s.Get(section, key)); v != "" {
		return v
	}
	return fallback
}

// List splits section.key on commas and whitespace
func (s Settings) List(section, key string) []string {
	return SplitList(s.Get(section, key))
}

// Bool parses section.key the way configparser's getboolean does.
func (s Settings) Bool(section, key string, fallback bool) (bool, error) {
	v, ok := s.Lookup(section, key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback, nil
	}

	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "yes", "true", "on":
		return true, nil
	case "0", "no", "false", "off":
		return false, nil
	}

	return fallback, goerr.Wrap(ErrInvalidSetting, "not a boolean",
		goerr.V("section", section),
		goerr.V("key", key),
		goerr.V("value", v),
	)
}

// Set stores a value, creating the section if needed
func (s Settings) Set(section, key, value string) {
	if _, ok := s[section]; !ok {
		s[section] = map[string]string{}
	}
	s[section][strings.ToLower(key)] = value
}

// Sections returns section names in sorted order
func (s Settings) Sections() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Keys returns the keys of a section in sorted order
func (s Settings) Keys(section string) []string {
	keys := make([]string, 0, len(s[section]))
	for k := range s[section] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SplitList splits a configuration value on commas and whitespace, dropping empty items
func SplitList(v string) []string {
	return strings.FieldsFunc(v, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}
