package signing

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
)

const testPEM = "-----BEGIN PUBLIC KEY-----\nabc\n-----END PUBLIC KEY-----\n"

func clearKeyEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvPublicKeyPEM, "")
	t.Setenv(EnvPublicKeyB64, "")
}

func TestResolveKeyMaterialExplicit(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv(EnvPublicKeyPEM, "env-pem")

	got := ResolveKeyMaterial("explicit-pem", t.TempDir(), t.TempDir(), nil)
	if got != "explicit-pem" {
		t.Errorf("material = %q, want explicit value to win", got)
	}
}

func TestResolveKeyMaterialPEMEnv(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv(EnvPublicKeyPEM, testPEM)
	t.Setenv(EnvPublicKeyB64, base64.StdEncoding.EncodeToString([]byte("other")))

	got := ResolveKeyMaterial("", t.TempDir(), t.TempDir(), nil)
	if got != testPEM {
		t.Errorf("material = %q, want PEM env value", got)
	}
}

func TestResolveKeyMaterialB64Env(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv(EnvPublicKeyB64, base64.StdEncoding.EncodeToString([]byte(testPEM)))

	got := ResolveKeyMaterial("", t.TempDir(), t.TempDir(), nil)
	if got != testPEM {
		t.Errorf("material = %q, want decoded base64 value", got)
	}
}

func TestResolveKeyMaterialBadB64(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv(EnvPublicKeyB64, "%%%not-base64%%%")

	warned := false
	got := ResolveKeyMaterial("", t.TempDir(), t.TempDir(), func(string, ...any) { warned = true })
	if got != "" {
		t.Errorf("material = %q, want empty after decode failure", got)
	}
	if !warned {
		t.Error("expected a warning for undecodable base64")
	}
}

func TestResolveKeyMaterialCommittedKey(t *testing.T) {
	clearKeyEnv(t)

	workDir := t.TempDir()
	root := t.TempDir()
	keyPath := filepath.Join(root, committedKeyPath)
	if err := os.MkdirAll(filepath.Dir(keyPath), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(keyPath, []byte(testPEM), 0644); err != nil {
		t.Fatal(err)
	}

	// workDir has no committed key, so the root copy is used.
	got := ResolveKeyMaterial("", workDir, root, nil)
	if got != testPEM {
		t.Errorf("material = %q, want committed key content", got)
	}
}

func TestResolveKeyMaterialNone(t *testing.T) {
	clearKeyEnv(t)
	if got := ResolveKeyMaterial("", t.TempDir(), t.TempDir(), nil); got != "" {
		t.Errorf("material = %q, want empty", got)
	}
}

func TestWriteKeyFile(t *testing.T) {
	scratch := t.TempDir()
	t.Setenv(EnvTempDir, scratch)

	path, err := WriteKeyFile(testPEM)
	if err != nil {
		t.Fatalf("WriteKeyFile: %v", err)
	}
	if filepath.Dir(path) != scratch {
		t.Errorf("key written to %q, want the scratch dir %q", path, scratch)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != testPEM {
		t.Errorf("content = %q, want key material", content)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
}
