package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bianoble/cdf-validate/internal/engine"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cdf-validate.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "cdf-validate.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Default()
	if cfg.Version != want.Version || cfg.Level != want.Level ||
		cfg.FailOnUnauthorized != want.FailOnUnauthorized ||
		cfg.IgnoreTlog != want.IgnoreTlog {
		t.Errorf("cfg = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "validation_level: integrity\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Level != engine.LevelIntegrity {
		t.Errorf("Level = %q, want integrity", cfg.Level)
	}
	// Absent keys keep their default values.
	if !cfg.FailOnUnauthorized {
		t.Error("FailOnUnauthorized = false, want default true")
	}
	if !cfg.IgnoreTlog {
		t.Error("IgnoreTlog = false, want default true")
	}
	if cfg.Version != 1 {
		t.Errorf("Version = %d, want default 1", cfg.Version)
	}
}

func TestLoadFullFile(t *testing.T) {
	path := writeConfig(t, `version: 1
root: ./patterns
validation_level: authorization
fail_on_unauthorized: false
skip_signatures: true
cert_identity_regexp: "https://github.com/.*"
artifact_patterns:
  - "*cdf*"
  - "*.tf"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Root != "./patterns" {
		t.Errorf("Root = %q", cfg.Root)
	}
	if cfg.Level != engine.LevelAuthorization {
		t.Errorf("Level = %q", cfg.Level)
	}
	if cfg.FailOnUnauthorized {
		t.Error("FailOnUnauthorized = true, want false")
	}
	if !cfg.SkipSignatures {
		t.Error("SkipSignatures = false, want true")
	}
	if len(cfg.ArtifactPatterns) != 2 {
		t.Errorf("ArtifactPatterns = %v", cfg.ArtifactPatterns)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "version: [nope\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad version", func(c *Config) { c.Version = 2 }, "unsupported version"},
		{"bad level", func(c *Config) { c.Level = "paranoid" }, "invalid validation_level"},
		{"bad identity regexp", func(c *Config) { c.CertIdentityRegexp = "(" }, "cert_identity_regexp"},
		{"bad issuer regexp", func(c *Config) { c.CertIssuerRegexp = "[" }, "cert_issuer_regexp"},
		{"bad pattern", func(c *Config) { c.ArtifactPatterns = []string{"[unterminated"} }, "invalid pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			errs := Validate(cfg)
			if len(errs) == 0 {
				t.Fatal("Validate passed, want error")
			}
			if !strings.Contains(errs[0], tt.want) {
				t.Errorf("error = %q, want mention of %q", errs[0], tt.want)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	if errs := Validate(Default()); len(errs) != 0 {
		t.Errorf("Validate(Default()) = %v, want no errors", errs)
	}
}

func TestEnvSkipSignatures(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{" true ", true},
		{"0", false},
		{"false", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run("value="+tt.value, func(t *testing.T) {
			t.Setenv("CDF_VALIDATE_SKIP_SIGNATURES", tt.value)
			if got := EnvSkipSignatures(); got != tt.want {
				t.Errorf("EnvSkipSignatures() with %q = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
