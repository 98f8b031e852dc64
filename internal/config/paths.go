// Package config manages previewdeck configuration and filesystem paths.
//
// Configuration includes the location of the dev console's data directory,
// which can be customized via environment variables, and the engine Settings
// read from config.yaml. The default root is ~/.previewdeck/ containing
// session snapshots and the config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// RootEnv overrides the data directory.
const RootEnv = "PREVIEWDECK_ROOT"

// Paths contains all the filesystem paths used by previewdeck.
type Paths struct {
	// Root is the base directory for all previewdeck data (default: ~/.previewdeck)
	Root string

	// Sessions is the directory holding dev console state snapshots
	Sessions string

	// Config is the path to the settings file
	Config string
}

// DefaultPaths returns the default paths for previewdeck.
// Paths can be overridden with environment variables:
// - PREVIEWDECK_ROOT: Override the root directory
func DefaultPaths() (*Paths, error) {
	root := os.Getenv(RootEnv)
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".previewdeck")
	}

	return PathsAt(root), nil
}

// PathsAt returns the paths rooted at root.
func PathsAt(root string) *Paths {
	return &Paths{
		Root:     root,
		Sessions: filepath.Join(root, "sessions"),
		Config:   filepath.Join(root, "config.yaml"),
	}
}

// EnsureDirectories creates all necessary directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.Root, p.Sessions} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
