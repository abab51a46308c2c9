// Package config implements the editor's layered configuration (§6):
// system defaults → user → project → session, addressed by dotted paths,
// plus the persisted-state store (recent files, search history, window
// layout) that is written with atomic renames.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	homedir "github.com/mitchellh/go-homedir"
)

// Paths resolves the directories the editor reads and writes, honoring
// XDG_CONFIG_HOME / XDG_DATA_HOME and falling back through go-homedir when
// HOME itself needs resolving (e.g. inside a container with no passwd
// entry for the current uid) — the same fallback chain the teacher's
// dependency set (adrg/xdg + mitchellh/go-homedir) is built for, applied
// here instead of to a GraphQL schema cache.
type Paths struct {
	ConfigHome string // e.g. $XDG_CONFIG_HOME/fresh
	DataHome   string // e.g. $XDG_DATA_HOME/fresh
}

const appName = "fresh"

// DefaultPaths resolves the standard config/state locations.
func DefaultPaths() (Paths, error) {
	configHome := xdg.ConfigHome
	dataHome := xdg.DataHome

	if configHome == "" || dataHome == "" {
		home, err := homedir.Dir()
		if err != nil {
			return Paths{}, err
		}
		if configHome == "" {
			configHome = filepath.Join(home, ".config")
		}
		if dataHome == "" {
			dataHome = filepath.Join(home, ".local", "share")
		}
	}

	return Paths{
		ConfigHome: filepath.Join(configHome, appName),
		DataHome:   filepath.Join(dataHome, appName),
	}, nil
}

// UserConfigFile is the user-layer config file path.
func (p Paths) UserConfigFile() string {
	return filepath.Join(p.ConfigHome, "config.toml")
}

// StateFile is the persisted-state file path (recent files, history, layout).
func (p Paths) StateFile() string {
	return filepath.Join(p.DataHome, "state.toml")
}

// EnsureDirs creates the config and data directories if missing.
func (p Paths) EnsureDirs() error {
	if err := os.MkdirAll(p.ConfigHome, 0o755); err != nil {
		return err
	}
	return os.MkdirAll(p.DataHome, 0o755)
}

// FindProjectConfig searches for a .fresh.toml file starting at dir and
// walking up to parent directories, stopping at a .git boundary — the same
// walk-to-git-root algorithm as the teacher's pkg/dang/project.go
// FindProjectConfig, renamed to this editor's project file.
func FindProjectConfig(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		path := filepath.Join(dir, ".fresh.toml")
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return "", false
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
