package config

import (
	"os"
	"path/filepath"
)

// appDirName is the subdirectory of the platform config directory deskd
// reads and writes all of its files under.
const appDirName = "deskd"

const (
	mainConfigFile    = "config.toml"
	runtimeConfigFile = "runtime.toml"
)

// Paths resolves the on-disk locations of the config files. A zero-value
// Paths is not usable; construct one with NewPaths or NewPathsIn.
type Paths struct {
	dir string
}

// NewPaths resolves Paths against the user's platform config directory
// (os.UserConfigDir()/deskd).
func NewPaths() (Paths, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, err
	}
	return NewPathsIn(filepath.Join(base, appDirName)), nil
}

// NewPathsIn resolves Paths against an explicit directory, primarily for
// tests that want an isolated temp directory.
func NewPathsIn(dir string) Paths {
	return Paths{dir: dir}
}

// Dir returns the config directory itself.
func (p Paths) Dir() string { return p.dir }

// MainConfig returns the path to config.toml.
func (p Paths) MainConfig() string { return filepath.Join(p.dir, mainConfigFile) }

// RuntimeConfig returns the path to runtime.toml.
func (p Paths) RuntimeConfig() string { return filepath.Join(p.dir, runtimeConfigFile) }

// EnsureDir creates the config directory if it does not already exist.
func (p Paths) EnsureDir() error {
	return os.MkdirAll(p.dir, 0o755)
}
