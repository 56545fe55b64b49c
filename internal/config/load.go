package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/bianoble/cdf-validate/internal/engine"
)

// Load reads and validates a cdf-validate.yaml configuration file.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	// Unmarshal over the defaults so absent keys keep their values.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if errs := Validate(cfg); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return cfg, nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Config for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(cfg *Config) []string {
	var errs []string

	if cfg.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported version %d — only version 1 is supported", cfg.Version))
	}

	switch cfg.Level {
	case engine.LevelFull, engine.LevelIntegrity, engine.LevelAuthorization:
		// valid
	default:
		errs = append(errs, fmt.Sprintf("invalid validation_level '%s' — must be one of: full, integrity, authorization", cfg.Level))
	}

	if _, err := regexp.Compile(cfg.CertIdentityRegexp); err != nil {
		errs = append(errs, fmt.Sprintf("invalid cert_identity_regexp: %v", err))
	}
	if _, err := regexp.Compile(cfg.CertIssuerRegexp); err != nil {
		errs = append(errs, fmt.Sprintf("invalid cert_issuer_regexp: %v", err))
	}

	for i, p := range cfg.ArtifactPatterns {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, fmt.Sprintf("artifact_patterns[%d]: invalid pattern '%s'", i, p))
		}
	}

	return errs
}

// EnvSkipSignatures reports whether CDF_VALIDATE_SKIP_SIGNATURES requests
// skipping signature validation.
func EnvSkipSignatures() bool {
	return envBoolTrue("CDF_VALIDATE_SKIP_SIGNATURES")
}

// envBoolTrue returns true if the env var is set to "1" or "true" (case-insensitive).
func envBoolTrue(key string) bool {
	v := os.Getenv(key)
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "1" || v == "true"
}
