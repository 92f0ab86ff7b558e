package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/firefly-engineering/bountybridge/internal/plugin"
)

// Document is the on-disk shape of a configuration.
type Document struct {
	Trackers map[string]map[string]any `yaml:"trackers,omitempty" toml:"trackers,omitempty"`
	Accounts map[string]AccountDocument `yaml:"accounts,omitempty" toml:"accounts,omitempty"`
	Plugins  []plugin.Spec              `yaml:"plugins,omitempty" toml:"plugins,omitempty"`
}

// AccountDocument is the document form of an Account.
type AccountDocument struct {
	Login      string            `yaml:"login" toml:"login"`
	APIURL     string            `yaml:"api_url,omitempty" toml:"api_url,omitempty"`
	MFAEnabled bool              `yaml:"mfa_enabled,omitempty" toml:"mfa_enabled,omitempty"`
	Password   string            `yaml:"password,omitempty" toml:"password,omitempty"`
	MFASecret  string            `yaml:"mfa_secret,omitempty" toml:"mfa_secret,omitempty"`
	Programs   []ProgramDocument `yaml:"programs,omitempty" toml:"programs,omitempty"`
}

// ProgramDocument is the document form of a Program.
type ProgramDocument struct {
	Slug     string   `yaml:"slug" toml:"slug"`
	Trackers []string `yaml:"trackers" toml:"trackers"`
}

// Format is a document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf returns the encoding of the document at path: TOML for a .toml
// extension, YAML otherwise.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Decode parses a document. ${VAR} references are kept as written: trackers
// and accounts expand them when built, and re-emit them on save.
func Decode(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, fmt.Errorf("failed to parse TOML document: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML document: %w", err)
		}
	}
	return &doc, nil
}

// Encode serializes a document.
func Encode(doc *Document, format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to encode TOML document: %w", err)
		}
	default:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to encode YAML document: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode YAML document: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// ExpandedPlugins returns the plugin entries with ${VAR} references in
// search paths and module command lines expanded.
func (d *Document) ExpandedPlugins() []plugin.Spec {
	specs := make([]plugin.Spec, len(d.Plugins))
	for i, spec := range d.Plugins {
		spec.SearchPath = expandEnv(spec.SearchPath)
		spec.Modules = slices.Clone(spec.Modules)
		for j, module := range spec.Modules {
			spec.Modules[j] = expandEnv(module)
		}
		specs[i] = spec
	}
	return specs
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv substitutes ${VAR} references to set environment variables.
// Bare $x and unset variables are left untouched so template variables
// survive.
func expandEnv(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		if v, ok := os.LookupEnv(ref[2 : len(ref)-1]); ok {
			return v
		}
		return ref
	})
}
