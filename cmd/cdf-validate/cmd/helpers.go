package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bianoble/cdf-validate/internal/config"
	"github.com/bianoble/cdf-validate/internal/discover"
	"github.com/bianoble/cdf-validate/internal/manifest"
)

// loadSettings reads the config file (defaults if absent).
func loadSettings() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", configPath, err)
	}
	return cfg, nil
}

// effectiveRoot resolves the pattern root from the flag, config, or by
// discovery under the current directory. Empty means nothing to validate.
func effectiveRoot(cfg *config.Config) (string, error) {
	explicit := cdfPath
	if explicit == "" {
		explicit = cfg.Root
	}
	return discover.FindRoot(explicit, ".")
}

// loadManifest reads the manifest at the pattern root.
func loadManifest(root string) (*manifest.Manifest, error) {
	return manifest.Load(filepath.Join(root, manifest.FileName))
}

// info prints a line unless quiet mode is active.
func info(format string, args ...any) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

// detail prints a line only in verbose mode.
func detail(format string, args ...any) {
	if verbose {
		fmt.Printf("  "+format+"\n", args...)
	}
}

// errorf prints an error message to stderr.
func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}

// warnf prints a warning to stderr regardless of quiet mode.
func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}
