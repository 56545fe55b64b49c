package discover

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/bianoble/cdf-validate/internal/manifest"
)

// EntrypointName is the Terraform entrypoint filename subject to
// authorization checks.
const EntrypointName = "cdf-main.tf"

// AttestationPattern matches attestation documents anywhere under the root.
const AttestationPattern = "*.attestation.json"

// DefaultArtifactPatterns is the naming convention counted as CDF
// artifacts for reporting.
var DefaultArtifactPatterns = []string{"*cdf*"}

// serviceDirs are the release-channel directories whose service
// subdirectories hold Terraform entrypoints.
var serviceDirs = map[string]bool{"stable": true, "unstable": true}

// FindRoot resolves the CDF pattern root.
//
// An explicit path is used when it is a directory containing cdf-meta.json,
// or the cdf-meta.json file itself (its parent is used). Without an
// explicit path, the first cdf-meta.json found walking startDir wins.
// An empty result with nil error means there is nothing to validate.
func FindRoot(explicit, startDir string) (string, error) {
	if explicit != "" {
		info, err := os.Stat(explicit)
		if err != nil {
			return "", nil
		}
		if info.IsDir() {
			if _, err := os.Stat(filepath.Join(explicit, manifest.FileName)); err == nil {
				return explicit, nil
			}
			return "", nil
		}
		if filepath.Base(explicit) == manifest.FileName {
			return filepath.Dir(explicit), nil
		}
		return "", nil
	}

	var found string
	err := filepath.WalkDir(startDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil // unreadable subtrees are skipped, not fatal
		}
		if !d.IsDir() && d.Name() == manifest.FileName {
			found = filepath.Dir(path)
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return found, nil
}

// TerraformFiles lists Terraform entrypoints subject to authorization:
// cdf-main.tf inside a service directory under stable/ or unstable/.
// Paths are relative to root; .git trees are skipped.
func TerraformFiles(root string) ([]string, error) {
	var results []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != EntrypointName {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if underServiceDir(rel) {
			results = append(results, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(results)
	return results, nil
}

// underServiceDir reports whether the file sits in a service subdirectory
// of stable/ or unstable/. A cdf-main.tf directly under stable/ is not an
// entrypoint — the convention is stable/<service>/cdf-main.tf.
func underServiceDir(rel string) bool {
	parts := strings.Split(rel, "/")
	// The last part is the filename; a service dir needs at least one
	// component between it and the file.
	for i := 0; i < len(parts)-2; i++ {
		if serviceDirs[parts[i]] {
			return true
		}
	}
	return false
}

// CountArtifacts counts entries (files and directories) under root whose
// name matches any of the artifact naming patterns. Reported as
// file_count on the CI output channel.
func CountArtifacts(root string, patterns []string) (int, error) {
	if len(patterns) == 0 {
		patterns = DefaultArtifactPatterns
	}

	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if path == root {
			return nil
		}
		for _, p := range patterns {
			ok, matchErr := doublestar.Match(p, d.Name())
			if matchErr != nil {
				return matchErr
			}
			if ok {
				count++
				break
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Attestations returns the sorted attestation document paths under root,
// relative to root.
func Attestations(root string) ([]string, error) {
	var results []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ok, matchErr := doublestar.Match(AttestationPattern, d.Name())
		if matchErr != nil {
			return matchErr
		}
		if !ok {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		results = append(results, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(results)
	return results, nil
}
