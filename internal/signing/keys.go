package signing

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
)

// Environment variables carrying public key material.
const (
	EnvPublicKeyPEM = "COSIGN_PUBLIC_KEY_PEM"
	EnvPublicKeyB64 = "COSIGN_PUBLIC_KEY_B64"

	// EnvTempDir is the CI-provided scratch directory for the key file.
	EnvTempDir = "RUNNER_TEMP"
)

// committedKeyPath is where repositories conventionally commit the
// verification public key.
const committedKeyPath = ".github/keys/cosign.pub"

// ResolveKeyMaterial returns PEM public key material using the precedence
// explicit value > PEM env var > base64 env var > committed key file
// (under workDir, then under root). Returns "" when no material is found.
// Non-fatal problems (a bad base64 value, an unreadable candidate file)
// are reported through warn and the next candidate is tried.
func ResolveKeyMaterial(explicit, workDir, root string, warn func(format string, args ...any)) string {
	if warn == nil {
		warn = func(string, ...any) {}
	}

	if explicit != "" {
		return explicit
	}

	if pem := os.Getenv(EnvPublicKeyPEM); pem != "" {
		return pem
	}

	if b64 := os.Getenv(EnvPublicKeyB64); b64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			warn("failed to decode %s: %s", EnvPublicKeyB64, err)
		} else {
			return string(decoded)
		}
	}

	for _, candidate := range []string{
		filepath.Join(workDir, committedKeyPath),
		filepath.Join(root, committedKeyPath),
	} {
		content, err := os.ReadFile(candidate)
		if err != nil {
			if !os.IsNotExist(err) {
				warn("failed to read %s: %s", candidate, err)
			}
			continue
		}
		return string(content)
	}

	return ""
}

// WriteKeyFile writes key material to a PEM file in the CI scratch
// directory (or the system temp dir) and returns its path.
func WriteKeyFile(material string) (string, error) {
	dir := os.Getenv(EnvTempDir)
	if dir == "" {
		dir = os.TempDir()
	}

	path := filepath.Join(dir, "cosign-pubkey.pem")
	if err := os.WriteFile(path, []byte(material), 0600); err != nil {
		return "", fmt.Errorf("writing public key %s: %w", path, err)
	}
	return path, nil
}
