package engine

import (
	"context"
	"fmt"
	"os"

	"github.com/opencontainers/go-digest"

	"github.com/bianoble/cdf-validate/internal/discover"
	"github.com/bianoble/cdf-validate/internal/manifest"
	"github.com/bianoble/cdf-validate/internal/sandbox"
)

// UpdateEngine recomputes manifest digests from the files on disk,
// replacing placeholders with real values.
type UpdateEngine struct {
	Root string
}

// UpdateOptions configures an update operation.
type UpdateOptions struct {
	// AddUndeclared also declares discovered Terraform entrypoints that
	// are missing from the manifest.
	AddUndeclared bool
}

// UpdateResult holds the outcome of an update operation.
type UpdateResult struct {
	// Manifest is the refreshed manifest, ready to be saved.
	Manifest *manifest.Manifest

	Updated   []string
	Added     []string
	Unchanged []string
	Errors    []Issue
}

// Update refreshes the digest of every named manifest entry. The
// manifest's own entry is left alone. Files that cannot be read are
// reported and their entries kept as-is.
func (e *UpdateEngine) Update(ctx context.Context, mf manifest.Manifest, opts UpdateOptions) (*UpdateResult, error) {
	result := &UpdateResult{}

	out := mf
	out.Files = make([]manifest.Entry, len(mf.Files))
	copy(out.Files, mf.Files)

	for i, entry := range out.Files {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if entry.Name == "" || entry.Name == manifest.FileName {
			continue
		}

		encoded, err := e.fileDigest(entry.Name)
		if err != nil {
			result.Errors = append(result.Errors, Issue{
				Category: CategoryIntegrity,
				Path:     entry.Name,
				Reason:   "cannot compute digest",
				Detail:   err.Error(),
			})
			continue
		}

		if entry.SHA256 == encoded {
			result.Unchanged = append(result.Unchanged, entry.Name)
			continue
		}
		out.Files[i].SHA256 = encoded
		result.Updated = append(result.Updated, entry.Name)
	}

	if opts.AddUndeclared {
		if err := e.addUndeclared(ctx, &out, result); err != nil {
			return nil, err
		}
	}

	result.Manifest = &out
	return result, nil
}

func (e *UpdateEngine) addUndeclared(ctx context.Context, mf *manifest.Manifest, result *UpdateResult) error {
	entrypoints, err := discover.TerraformFiles(e.Root)
	if err != nil {
		return fmt.Errorf("listing Terraform entrypoints: %w", err)
	}

	declared := mf.Names()
	for _, tf := range entrypoints {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if declared[tf] {
			continue
		}

		encoded, digestErr := e.fileDigest(tf)
		if digestErr != nil {
			result.Errors = append(result.Errors, Issue{
				Category: CategoryIntegrity,
				Path:     tf,
				Reason:   "cannot compute digest",
				Detail:   digestErr.Error(),
			})
			continue
		}

		mf.Files = append(mf.Files, manifest.Entry{Name: tf, SHA256: encoded})
		result.Added = append(result.Added, tf)
	}
	return nil
}

// fileDigest returns the hex-encoded SHA-256 of a file inside the root.
func (e *UpdateEngine) fileDigest(relPath string) (string, error) {
	path, err := sandbox.Resolve(e.Root, relPath)
	if err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	d, err := digest.SHA256.FromReader(f)
	if err != nil {
		return "", err
	}
	return d.Encoded(), nil
}
