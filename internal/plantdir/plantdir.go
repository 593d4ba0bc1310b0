// Package plantdir provides constants and utilities for the per-user
// plant-paladin directory.
package plantdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	// AppName is the directory name created under the OS config directory.
	AppName = "plant-paladin"

	// ConfigFile is the user-edited plant list.
	ConfigFile = "config.toml"

	// StateFile is the automatically maintained watering state.
	StateFile = "state.toml"

	// HistoryFile is the append-only watering log.
	HistoryFile = "history.jsonl"
)

// ErrNoConfigDir is returned when no per-user config directory can be determined.
var ErrNoConfigDir = errors.New("unable to determine user config directory")

// ConfigPath returns the full path to the config file within dir.
func ConfigPath(dir string) string {
	return filepath.Join(dir, ConfigFile)
}

// StatePath returns the full path to the state file within dir.
func StatePath(dir string) string {
	return filepath.Join(dir, StateFile)
}

// HistoryPath returns the full path to the history file within dir.
func HistoryPath(dir string) string {
	return filepath.Join(dir, HistoryFile)
}

// Resolve returns the directory plant-paladin keeps its files in.
// A non-empty override wins and has ~ and environment variables expanded.
func Resolve(override string) (string, error) {
	if strings.TrimSpace(override) != "" {
		return filepath.Clean(expandPath(override)), nil
	}
	base := osUserConfigDir()
	if base == "" {
		return "", ErrNoConfigDir
	}
	return filepath.Join(base, AppName), nil
}

// Ensure creates dir if it does not exist yet.
func Ensure(dir string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("config dir %s: not a directory", dir)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config dir %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir %s: %w", dir, err)
	}
	return nil
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" && filepath.IsAbs(xdg) {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil && home != "" {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// expandPath expands home directory and environment variables in paths.
// It supports ~/ or ~\ prefixes.
func expandPath(p string) string {
	expanded := os.ExpandEnv(p)
	if expanded == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return home
	}
	if strings.HasPrefix(expanded, "~/") || (runtime.GOOS == "windows" && strings.HasPrefix(expanded, "~\\")) {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, expanded[2:])
	}
	return expanded
}
