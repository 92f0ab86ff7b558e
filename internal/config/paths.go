package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

const (
	DefaultConfigFile = "bountybridge.yaml"
	DefaultStateDir   = ".bountybridge"
	ConfigEnvVar      = "BOUNTYBRIDGE_CONFIG"
	LedgerFileName    = "imports.jsonl"
)

// nameRegex validates tracker and account names.
// Names must start with a letter or digit, followed by letters, digits,
// dots, underscores, or hyphens. Maximum length is 63 characters.
var nameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,62}$`)

// ValidateName checks if a tracker or account name is valid.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	if !nameRegex.MatchString(name) {
		return fmt.Errorf("invalid name %q: must start with a letter or digit, contain only letters, digits, dots, underscores, or hyphens, and be at most 63 characters", name)
	}

	return nil
}

// Paths holds the configured paths
type Paths struct {
	ConfigFile string
	StateDir   string
	LedgerFile string
}

// DefaultPaths returns the default path configuration. The config file can
// be overridden with BOUNTYBRIDGE_CONFIG.
func DefaultPaths() *Paths {
	configFile := DefaultConfigFile
	if env := os.Getenv(ConfigEnvVar); env != "" {
		configFile = env
	}
	return NewPaths(configFile, DefaultStateDir)
}

// NewPaths derives the paths for a config file and a state directory.
func NewPaths(configFile, stateDir string) *Paths {
	return &Paths{
		ConfigFile: configFile,
		StateDir:   stateDir,
		LedgerFile: filepath.Join(stateDir, LedgerFileName),
	}
}
