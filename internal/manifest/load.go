package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// versionConstraint accepts any 1.x manifest version.
var versionConstraint = mustConstraint("^1")

func mustConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	mf, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return mf, nil
}

// Parse decodes and validates a manifest document. The document is first
// checked against the schema, then decoded into the Manifest struct and
// semantically validated.
func Parse(data []byte) (*Manifest, error) {
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if err := manifestSchema().Validate(decoded); err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	var mf Manifest
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}

	if errs := Validate(&mf); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return &mf, nil
}

// Validate checks a Manifest for semantic correctness. Returns a list of
// validation error messages (empty if valid).
func Validate(mf *Manifest) []string {
	var errs []string

	if mf.Version != "" {
		v, err := semver.NewVersion(mf.Version)
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid version '%s': %v", mf.Version, err))
		} else if !versionConstraint.Check(v) {
			errs = append(errs, fmt.Sprintf("unsupported version '%s' — only 1.x manifests are supported", mf.Version))
		}
	}

	seen := make(map[string]bool, len(mf.Files))
	for _, e := range mf.Files {
		if e.Name == "" {
			continue
		}
		if seen[e.Name] {
			errs = append(errs, fmt.Sprintf("duplicate entry '%s'", e.Name))
			continue
		}
		seen[e.Name] = true
	}

	return errs
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("manifest validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}
