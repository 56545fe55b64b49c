package config

import (
	"github.com/bianoble/cdf-validate/internal/discover"
	"github.com/bianoble/cdf-validate/internal/engine"
)

// Config represents the cdf-validate.yaml configuration file. Every field
// has a working default; the file is optional and flags override it.
type Config struct {
	Version int `yaml:"version"`

	// Root is the CDF pattern root. Empty means discover it.
	Root string `yaml:"root,omitempty"`

	// Level is one of full, integrity, authorization.
	Level string `yaml:"validation_level,omitempty"`

	FailOnUnauthorized bool `yaml:"fail_on_unauthorized"`
	SkipSignatures     bool `yaml:"skip_signatures"`

	CertIdentityRegexp string `yaml:"cert_identity_regexp,omitempty"`
	CertIssuerRegexp   string `yaml:"cert_issuer_regexp,omitempty"`
	IgnoreTlog         bool   `yaml:"insecure_ignore_tlog"`

	// PublicKey is inline PEM public key material for verification.
	PublicKey string `yaml:"public_key,omitempty"`

	// ArtifactPatterns are the name patterns counted as CDF artifacts.
	ArtifactPatterns []string `yaml:"artifact_patterns,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Version:            1,
		Level:              engine.LevelFull,
		FailOnUnauthorized: true,
		SkipSignatures:     false,
		CertIdentityRegexp: ".*",
		CertIssuerRegexp:   ".*",
		IgnoreTlog:         true,
		ArtifactPatterns:   discover.DefaultArtifactPatterns,
	}
}
