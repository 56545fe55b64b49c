package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"

	"github.com/bianoble/cdf-validate/internal/discover"
	"github.com/bianoble/cdf-validate/internal/manifest"
	"github.com/bianoble/cdf-validate/internal/sandbox"
	"github.com/bianoble/cdf-validate/internal/signing"
)

// ValidateEngine reconciles the files found under the pattern root against
// the files declared in the manifest and aggregates pass/fail verdicts.
// No failure is fatal mid-run; everything is accumulated into the Result.
type ValidateEngine struct {
	Verifier signing.Verifier
	Root     string
}

// Options configures a validation run.
type Options struct {
	// Level is one of full, integrity, authorization.
	Level string

	// FailOnUnauthorized makes discovered Terraform entrypoints that are
	// absent from the manifest count as errors.
	FailOnUnauthorized bool

	// SkipSignatures disables attestation and signature checks entirely.
	SkipSignatures bool

	CertIdentityRegexp string
	CertIssuerRegexp   string
	IgnoreTlog         bool
	KeyPath            string

	// ArtifactPatterns are the name patterns counted as CDF artifacts.
	ArtifactPatterns []string
}

// Validate runs the gate. The returned error covers only environmental
// failures (an unwalkable root); validation verdicts live in the Result.
func (e *ValidateEngine) Validate(ctx context.Context, opts Options) (*Result, error) {
	result := &Result{Status: StatusPassed}

	count, err := discover.CountArtifacts(e.Root, opts.ArtifactPatterns)
	if err != nil {
		return nil, fmt.Errorf("counting artifacts: %w", err)
	}
	result.FileCount = count

	mf, err := manifest.Load(filepath.Join(e.Root, manifest.FileName))
	if err != nil {
		// An unreadable manifest is an error, not an abort.
		result.Integrity = append(result.Integrity, Issue{
			Category: CategoryIntegrity,
			Path:     manifest.FileName,
			Reason:   "invalid manifest",
			Detail:   err.Error(),
		})
		result.Status = StatusFailed
		return result, nil
	}

	// A manifest without a files list declares nothing and demands nothing.
	if mf.Files == nil {
		return result, nil
	}

	if opts.FailOnUnauthorized {
		if err := e.checkAuthorization(result, mf); err != nil {
			return nil, err
		}
	}

	if opts.Level != LevelAuthorization {
		e.checkIntegrity(result, mf)
	}

	if opts.Level == LevelFull && !opts.SkipSignatures {
		if err := e.checkSignatures(ctx, result, opts); err != nil {
			return nil, err
		}
	}

	if result.ErrorCount() > 0 {
		result.Status = StatusFailed
	}
	return result, nil
}

// checkAuthorization reconciles discovered Terraform entrypoints against
// the manifest's declared names.
func (e *ValidateEngine) checkAuthorization(result *Result, mf *manifest.Manifest) error {
	entrypoints, err := discover.TerraformFiles(e.Root)
	if err != nil {
		return fmt.Errorf("listing Terraform entrypoints: %w", err)
	}

	declared := mf.Names()
	for _, tf := range entrypoints {
		if declared[tf] {
			result.Authorized = append(result.Authorized, tf)
			continue
		}
		result.Integrity = append(result.Integrity, Issue{
			Category: CategoryIntegrity,
			Path:     tf,
			Reason:   "not declared in manifest",
		})
	}
	return nil
}

// checkIntegrity verifies each checkable manifest entry against the file
// content on disk.
func (e *ValidateEngine) checkIntegrity(result *Result, mf *manifest.Manifest) {
	for _, entry := range mf.Files {
		if !entry.Checkable() {
			continue
		}

		path, err := sandbox.Resolve(e.Root, entry.Name)
		if err != nil {
			result.Integrity = append(result.Integrity, Issue{
				Category: CategoryIntegrity,
				Path:     entry.Name,
				Reason:   "path escapes pattern root",
				Detail:   err.Error(),
			})
			continue
		}

		if _, err := os.Stat(path); err != nil {
			result.Integrity = append(result.Integrity, Issue{
				Category: CategoryIntegrity,
				Path:     entry.Name,
				Reason:   "missing file listed in manifest",
			})
			continue
		}

		if issue := verifyDigest(path, entry); issue != nil {
			issue.Path = entry.Name
			result.Integrity = append(result.Integrity, *issue)
			continue
		}

		result.Verified = append(result.Verified, entry.Name)
	}
}

// verifyDigest streams the file through a SHA-256 digester and compares it
// to the declared digest. Returns nil when the digest matches.
func verifyDigest(path string, entry manifest.Entry) *Issue {
	expected := digest.NewDigestFromEncoded(digest.SHA256, entry.SHA256)
	if err := expected.Validate(); err != nil {
		return &Issue{
			Category: CategoryIntegrity,
			Reason:   "invalid digest declared",
			Detail:   fmt.Sprintf("%s: %v", entry.SHA256, err),
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return &Issue{
			Category: CategoryIntegrity,
			Reason:   "unreadable file",
			Detail:   err.Error(),
		}
	}
	defer f.Close()

	actual, err := digest.SHA256.FromReader(f)
	if err != nil {
		return &Issue{
			Category: CategoryIntegrity,
			Reason:   "hashing failed",
			Detail:   err.Error(),
		}
	}

	if actual != expected {
		return &Issue{
			Category: CategoryIntegrity,
			Reason:   "digest mismatch",
			Detail:   fmt.Sprintf("expected %s, got %s", expected.Encoded(), actual.Encoded()),
		}
	}
	return nil
}
