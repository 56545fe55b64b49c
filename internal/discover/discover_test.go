package discover

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/bianoble/cdf-validate/internal/manifest"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFindRootExplicit(t *testing.T) {
	withManifest := t.TempDir()
	writeFile(t, filepath.Join(withManifest, manifest.FileName))
	withoutManifest := t.TempDir()

	tests := []struct {
		name     string
		explicit string
		want     string
	}{
		{"directory with manifest", withManifest, withManifest},
		{"directory without manifest", withoutManifest, ""},
		{"manifest file itself", filepath.Join(withManifest, manifest.FileName), withManifest},
		{"nonexistent path", filepath.Join(withoutManifest, "missing"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindRoot(tt.explicit, ".")
			if err != nil {
				t.Fatalf("FindRoot: %v", err)
			}
			if got != tt.want {
				t.Errorf("FindRoot(%q) = %q, want %q", tt.explicit, got, tt.want)
			}
		})
	}
}

func TestFindRootExplicitOtherFile(t *testing.T) {
	dir := t.TempDir()
	other := filepath.Join(dir, "readme.md")
	writeFile(t, other)

	got, err := FindRoot(other, ".")
	if err != nil {
		t.Fatalf("FindRoot: %v", err)
	}
	if got != "" {
		t.Errorf("FindRoot(%q) = %q, want empty", other, got)
	}
}

func TestFindRootWalk(t *testing.T) {
	start := t.TempDir()
	nested := filepath.Join(start, "patterns", "demo")
	writeFile(t, filepath.Join(nested, manifest.FileName))

	got, err := FindRoot("", start)
	if err != nil {
		t.Fatalf("FindRoot: %v", err)
	}
	if got != nested {
		t.Errorf("FindRoot walk = %q, want %q", got, nested)
	}
}

func TestFindRootNothing(t *testing.T) {
	got, err := FindRoot("", t.TempDir())
	if err != nil {
		t.Fatalf("FindRoot: %v", err)
	}
	if got != "" {
		t.Errorf("FindRoot = %q, want empty when nothing is found", got)
	}
}

func TestTerraformFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "stable", "app", EntrypointName))
	writeFile(t, filepath.Join(root, "unstable", "svc", "nested", EntrypointName))
	writeFile(t, filepath.Join(root, "stable", EntrypointName))       // not in a service dir
	writeFile(t, filepath.Join(root, "other", "app", EntrypointName)) // wrong channel
	writeFile(t, filepath.Join(root, "stable", "app", "main.tf"))     // wrong name
	writeFile(t, filepath.Join(root, ".git", "stable", "app", EntrypointName))

	got, err := TerraformFiles(root)
	if err != nil {
		t.Fatalf("TerraformFiles: %v", err)
	}
	want := []string{
		"stable/app/" + EntrypointName,
		"unstable/svc/nested/" + EntrypointName,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TerraformFiles = %v, want %v", got, want)
	}
}

func TestTerraformFilesEmpty(t *testing.T) {
	got, err := TerraformFiles(t.TempDir())
	if err != nil {
		t.Fatalf("TerraformFiles: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("TerraformFiles = %v, want none", got)
	}
}

func TestUnderServiceDir(t *testing.T) {
	tests := []struct {
		rel  string
		want bool
	}{
		{"stable/app/cdf-main.tf", true},
		{"unstable/app/cdf-main.tf", true},
		{"deep/stable/app/cdf-main.tf", true},
		{"stable/cdf-main.tf", false},
		{"unstable/cdf-main.tf", false},
		{"other/app/cdf-main.tf", false},
		{"cdf-main.tf", false},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			if got := underServiceDir(tt.rel); got != tt.want {
				t.Errorf("underServiceDir(%q) = %v, want %v", tt.rel, got, tt.want)
			}
		})
	}
}

func TestCountArtifacts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, manifest.FileName))               // counts
	writeFile(t, filepath.Join(root, "cdf-modules", "app.cdf.json"))   // dir and file both count
	writeFile(t, filepath.Join(root, "stable", "app", EntrypointName)) // file counts, dirs do not
	writeFile(t, filepath.Join(root, "readme.md"))

	count, err := CountArtifacts(root, nil)
	if err != nil {
		t.Fatalf("CountArtifacts: %v", err)
	}
	// cdf-meta.json, cdf-modules/, app.cdf.json, cdf-main.tf
	if count != 4 {
		t.Errorf("CountArtifacts = %d, want 4", count)
	}
}

func TestCountArtifactsCustomPatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.tf"))
	writeFile(t, filepath.Join(root, "b.json"))

	count, err := CountArtifacts(root, []string{"*.tf"})
	if err != nil {
		t.Fatalf("CountArtifacts: %v", err)
	}
	if count != 1 {
		t.Errorf("CountArtifacts = %d, want 1", count)
	}
}

func TestAttestations(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "z.attestation.json"))
	writeFile(t, filepath.Join(root, "stable", "app", "a.attestation.json"))
	writeFile(t, filepath.Join(root, "plain.json"))

	got, err := Attestations(root)
	if err != nil {
		t.Fatalf("Attestations: %v", err)
	}
	want := []string{"stable/app/a.attestation.json", "z.attestation.json"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Attestations = %v, want %v", got, want)
	}
}
